package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"io.winapps.jotly/internal/errs"
	models "io.winapps.jotly/internal/models/journal"
)

func validEntry() models.Entry {
	return models.Entry{
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Mood: models.MoodHappy,
		Note: "walked by the river",
		Tags: []string{"outside"},
	}
}

func TestValidateEntry_OK(t *testing.T) {
	require.NoError(t, ValidateEntry(validEntry()))
}

func TestValidateEntry_AllMoodsAccepted(t *testing.T) {
	for _, m := range models.Moods {
		e := validEntry()
		e.Mood = m
		assert.NoError(t, ValidateEntry(e), "mood %s", m)
	}
}

func TestValidateEntry_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Entry)
		field  string
	}{
		{"unknown mood", func(e *models.Entry) { e.Mood = "😀" }, "mood"},
		{"missing mood", func(e *models.Entry) { e.Mood = "" }, "mood"},
		{"empty note", func(e *models.Entry) { e.Note = "" }, "note"},
		{"long note", func(e *models.Entry) { e.Note = strings.Repeat("a", MaxNoteLength+1) }, "note"},
		{"missing date", func(e *models.Entry) { e.Date = time.Time{} }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			err := ValidateEntry(e)
			require.Error(t, err)
			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve.Fields, 1)
			assert.Equal(t, tt.field, ve.Fields[0].Field)
		})
	}
}

func TestValidateEntry_NoteLengthCountsCharacters(t *testing.T) {
	e := validEntry()
	e.Note = strings.Repeat("😊", MaxNoteLength)
	assert.NoError(t, ValidateEntry(e))
}

func TestValidateEntry_ReportsEveryField(t *testing.T) {
	err := ValidateEntry(models.Entry{})
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)
	assert.Contains(t, err.Error(), "Entry validation failed")
}

func TestPrepareEntry_NormalizesTags(t *testing.T) {
	e := validEntry()
	e.Tags = []string{"  work ", "", "stress", "   ", "work"}
	require.NoError(t, PrepareEntry(&e))
	assert.Equal(t, []string{"work", "stress", "work"}, e.Tags)
}

func TestEntrySchema_DrivesValidation(t *testing.T) {
	fields := make([]string, 0, len(EntrySchema))
	for _, rule := range EntrySchema {
		fields = append(fields, rule.Field)
	}
	assert.Equal(t, []string{"date", "mood", "note", "tags"}, fields)

	e := validEntry()
	e.Tags = []string{"ok", ""}
	var ve *errs.ValidationError
	require.ErrorAs(t, ValidateEntry(e), &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "tags", ve.Fields[0].Field)
}
