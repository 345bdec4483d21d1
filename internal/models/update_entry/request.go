package models

// UpdateEntryRequest is the body of PUT /entries/:id. Omitted fields keep
// their stored values.
type UpdateEntryRequest struct {
	Date *string   `json:"date,omitempty"`
	Mood *string   `json:"mood,omitempty"`
	Note *string   `json:"note,omitempty"`
	Tags *[]string `json:"tags,omitempty"`
}
