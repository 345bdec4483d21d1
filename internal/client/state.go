package client

import (
	models "io.winapps.jotly/internal/models/journal"
)

// RecentLimit is how many entries State.Recent holds.
const RecentLimit = 5

// State is the client's view of the server collection. It is only ever
// replaced through Reduce.
type State struct {
	Entries   []models.Entry
	Recent    []models.Entry
	MoodStats []models.MoodCount
	Loading   bool
	Err       error
}

// ActionType names a state transition.
type ActionType int

const (
	SetLoading ActionType = iota
	SetError
	SetEntries
	AddEntry
	UpdateEntry
	DeleteEntry
	SetMoodStats
	SetRecentEntries
	ClearError
)

// Action is one state transition request. Only the payload field relevant
// to Type is read.
type Action struct {
	Type      ActionType
	Loading   bool
	Err       error
	Entry     models.Entry
	Entries   []models.Entry
	ID        string
	MoodStats []models.MoodCount
}

// Reduce returns the state after applying a. It never mutates s.
func Reduce(s State, a Action) State {
	next := s
	switch a.Type {
	case SetLoading:
		next.Loading = a.Loading
	case SetError:
		next.Err = a.Err
		next.Loading = false
	case SetEntries:
		next.Entries = cloneEntries(a.Entries)
		next.Loading = false
		next.Err = nil
	case AddEntry:
		entries := make([]models.Entry, 0, len(s.Entries)+1)
		entries = append(entries, a.Entry.Clone())
		next.Entries = append(entries, cloneEntries(s.Entries)...)
		next.Loading = false
		next.Err = nil
	case UpdateEntry:
		entries := make([]models.Entry, len(s.Entries))
		for i, e := range s.Entries {
			if e.ID == a.Entry.ID {
				entries[i] = a.Entry.Clone()
			} else {
				entries[i] = e.Clone()
			}
		}
		next.Entries = entries
		next.Loading = false
		next.Err = nil
	case DeleteEntry:
		entries := make([]models.Entry, 0, len(s.Entries))
		for _, e := range s.Entries {
			if e.ID != a.ID {
				entries = append(entries, e.Clone())
			}
		}
		next.Entries = entries
		next.Loading = false
		next.Err = nil
	case SetMoodStats:
		next.MoodStats = append([]models.MoodCount{}, a.MoodStats...)
	case SetRecentEntries:
		next.Recent = cloneEntries(a.Entries)
	case ClearError:
		next.Err = nil
	}
	return next
}

func (s State) clone() State {
	c := s
	c.Entries = cloneEntries(s.Entries)
	c.Recent = cloneEntries(s.Recent)
	if s.MoodStats != nil {
		c.MoodStats = append([]models.MoodCount{}, s.MoodStats...)
	}
	return c
}

func cloneEntries(in []models.Entry) []models.Entry {
	if in == nil {
		return nil
	}
	out := make([]models.Entry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

func firstN(entries []models.Entry, n int) []models.Entry {
	if len(entries) < n {
		n = len(entries)
	}
	return entries[:n]
}
