package client

import (
	"context"
	"strings"
	"time"

	models "io.winapps.jotly/internal/models/journal"
)

// SearchCriteria combines free text with the server-side filters.
type SearchCriteria struct {
	Text      string
	Mood      string
	Tag       string
	StartDate string
	EndDate   string
}

// Structured reports whether any server-side filter is set.
func (c SearchCriteria) Structured() bool {
	return c.Mood != "" || c.Tag != "" || c.StartDate != "" || c.EndDate != ""
}

func (c SearchCriteria) query() Query {
	return Query{Mood: c.Mood, Tag: c.Tag, StartDate: c.StartDate, EndDate: c.EndDate}
}

// SearchEntries returns the entries matching c. Without structured filters
// the text search runs over the local collection and nothing is sent to the
// server. Otherwise the server list replaces State.Entries and the text is
// applied to the result.
func (s *Store) SearchEntries(ctx context.Context, c SearchCriteria) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !c.Structured() {
		return MatchText(s.state.Entries, c.Text), nil
	}

	s.dispatch(Action{Type: SetLoading, Loading: true})
	entries, err := s.api.ListEntries(ctx, c.query())
	if err != nil {
		return nil, s.fail(err)
	}
	s.dispatch(Action{Type: SetEntries, Entries: entries})
	return MatchText(s.state.Entries, c.Text), nil
}

// MatchText keeps the entries whose note or any tag contains text,
// ignoring case. Empty text matches everything.
func MatchText(entries []models.Entry, text string) []models.Entry {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if needle == "" || matches(e, needle) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func matches(e models.Entry, needle string) bool {
	if strings.Contains(strings.ToLower(e.Note), needle) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// Summary is the dashboard overview of a collection.
type Summary struct {
	TotalEntries     int
	EntriesThisMonth int
	// AverageMoodCount is the mean count across moods present in MoodStats.
	AverageMoodCount float64
}

// Summary computes the overview at now, whose location decides the month.
func (s *Store) Summary(now time.Time) Summary {
	st := s.State()
	return Summarize(st, now)
}

// Summarize is the pure form of Store.Summary.
func Summarize(st State, now time.Time) Summary {
	sum := Summary{TotalEntries: len(st.Entries)}
	y, m, _ := now.Date()
	for _, e := range st.Entries {
		ey, em, _ := e.Date.In(now.Location()).Date()
		if ey == y && em == m {
			sum.EntriesThisMonth++
		}
	}
	if len(st.MoodStats) > 0 {
		total := 0
		for _, ms := range st.MoodStats {
			total += ms.Count
		}
		sum.AverageMoodCount = float64(total) / float64(len(st.MoodStats))
	}
	return sum
}
