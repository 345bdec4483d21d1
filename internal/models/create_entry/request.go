package models

// CreateEntryRequest is the body of POST /entries. Date is optional and
// accepts RFC 3339 or YYYY-MM-DD.
type CreateEntryRequest struct {
	Date string   `json:"date,omitempty"`
	Mood string   `json:"mood"`
	Note string   `json:"note"`
	Tags []string `json:"tags,omitempty"`
}
