// Package store defines the entry persistence contract shared by the
// Postgres and in-memory implementations.
package store

import (
	"context"
	"time"

	models "io.winapps.jotly/internal/models/journal"
)

// Order selects the date ordering of FindMany results.
type Order int

const (
	// OrderDesc returns newest entries first (default).
	OrderDesc Order = iota
	// OrderAsc returns oldest entries first.
	OrderAsc
)

// Filter is a conjunction of optional criteria. The zero value matches
// every entry.
type Filter struct {
	Mood      models.Mood
	Tag       string
	StartDate *time.Time
	EndDate   *time.Time
	Order     Order
}

// Structured reports whether any criterion is set.
func (f Filter) Structured() bool {
	return f.Mood != "" || f.Tag != "" || f.StartDate != nil || f.EndDate != nil
}

// Matches reports whether e satisfies f.
func (f Filter) Matches(e models.Entry) bool {
	if f.Mood != "" && e.Mood != f.Mood {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range e.Tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.StartDate != nil && e.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.Date.After(*f.EndDate) {
		return false
	}
	return true
}

// EntryStore persists journal entries.
type EntryStore interface {
	// Insert assigns id and timestamps, validates and stores e.
	Insert(ctx context.Context, e models.Entry) (*models.Entry, error)
	// FindByID returns nil, nil when no entry has the given id.
	FindByID(ctx context.Context, id string) (*models.Entry, error)
	// FindMany returns entries matching f ordered by date.
	FindMany(ctx context.Context, f Filter) ([]models.Entry, error)
	// Update merges p into the stored entry; errs.ErrNotFound if absent.
	Update(ctx context.Context, id string, p models.Patch) (*models.Entry, error)
	// Delete removes the entry permanently; errs.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
	// AggregateMoodCounts counts entries per mood, most frequent first.
	AggregateMoodCounts(ctx context.Context) ([]models.MoodCount, error)
	// UniqueTags returns the sorted distinct tag values.
	UniqueTags(ctx context.Context) ([]string, error)
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

// NextUpdatedAt returns the updatedAt for a write happening at now so that
// timestamps never move backwards.
func NextUpdatedAt(prev, now time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
