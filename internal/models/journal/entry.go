package models

import "time"

type Entry struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Mood      Mood      `json:"mood"`
	Note      string    `json:"note"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with e.
func (e Entry) Clone() Entry {
	c := e
	c.Tags = append([]string{}, e.Tags...)
	return c
}

// Patch carries the fields supplied by an update; nil means "leave as is".
type Patch struct {
	Date *time.Time
	Mood *Mood
	Note *string
	Tags *[]string
}

// Apply merges p into e and returns the result. Identity and timestamps
// are never touched.
func (p Patch) Apply(e Entry) Entry {
	out := e.Clone()
	if p.Date != nil {
		out.Date = *p.Date
	}
	if p.Mood != nil {
		out.Mood = *p.Mood
	}
	if p.Note != nil {
		out.Note = *p.Note
	}
	if p.Tags != nil {
		out.Tags = append([]string{}, (*p.Tags)...)
	}
	return out
}
