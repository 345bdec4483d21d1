// Package validation holds the entry schema and the checks every write goes
// through before it reaches storage.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"io.winapps.jotly/internal/errs"
	models "io.winapps.jotly/internal/models/journal"
)

// MaxNoteLength is the maximum note length in characters.
const MaxNoteLength = 1000

// FieldRule binds one field of the entry schema to its validator rules.
type FieldRule struct {
	Field string
	Type  string
	Rules string
	value func(models.Entry) any
}

// EntrySchema describes the persisted entry document. ValidateEntry checks
// the fields in this order.
var EntrySchema = []FieldRule{
	{Field: "date", Type: "datetime", Rules: "required",
		value: func(e models.Entry) any { return e.Date }},
	{Field: "mood", Type: "string", Rules: "required,mood",
		value: func(e models.Entry) any { return string(e.Mood) }},
	{Field: "note", Type: "string", Rules: fmt.Sprintf("required,max=%d", MaxNoteLength),
		value: func(e models.Entry) any { return e.Note }},
	{Field: "tags", Type: "[]string", Rules: "omitempty,dive,required",
		value: func(e models.Entry) any { return e.Tags }},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		return models.Mood(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// NormalizeTags trims every tag and drops the ones left empty. Order and
// duplicates are preserved.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeTag applies the tag policy to a single query value.
func NormalizeTag(tag string) string {
	return strings.TrimSpace(tag)
}

// ValidateEntry checks e against EntrySchema. It returns nil or an
// *errs.ValidationError listing every violated field. Tags are expected to
// be normalized already.
func ValidateEntry(e models.Entry) error {
	out := &errs.ValidationError{}
	for _, rule := range EntrySchema {
		err := validate.Var(rule.value(e), rule.Rules)
		if err == nil {
			continue
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validate %s: %w", rule.Field, err)
		}
		out.Add(rule.Field, describe(verrs[0]))
	}
	return out.OrNil()
}

// PrepareEntry normalizes e in place and validates the result.
func PrepareEntry(e *models.Entry) error {
	e.Tags = NormalizeTags(e.Tags)
	return ValidateEntry(*e)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "mood":
		return fmt.Sprintf("%q is not a valid mood", fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}
