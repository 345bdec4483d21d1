package models

import "io.winapps.jotly/internal/errs"

// Envelope wraps every JSON response of the entries API.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Count   *int              `json:"count,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  []errs.FieldError `json:"fields,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKCount wraps a collection together with its length.
func OKCount(data any, count int) Envelope {
	return Envelope{Success: true, Data: data, Count: &count}
}

// Fail wraps an error message.
func Fail(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

// Invalid reports a rejected write together with the offending fields.
func Invalid(err *errs.ValidationError) Envelope {
	return Envelope{Success: false, Error: err.Error(), Fields: err.Fields}
}
