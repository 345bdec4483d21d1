// Package cache keeps copies of entries and the mood aggregate in Redis.
// The cache is never authoritative: every mutation evicts what it touches.
//
// Fills are versioned. A reader takes the key's version before it queries
// the store and passes it to the fill; an eviction in between bumps the
// version and the fill is dropped, so a read that raced a mutation can not
// resurrect the pre-mutation value.
package cache

import (
	"context"

	models "io.winapps.jotly/internal/models/journal"
)

// EntryCache is a best-effort cache in front of the entry store. Misses are
// reported as found == false with a nil error.
type EntryCache interface {
	GetEntry(ctx context.Context, id string) (*models.Entry, bool, error)
	EntryVersion(ctx context.Context, id string) (int64, error)
	// FillEntry stores e only if its version is still the one given.
	FillEntry(ctx context.Context, e models.Entry, version int64) error
	// EvictEntry drops the cached entry and bumps its version.
	EvictEntry(ctx context.Context, id string) error

	GetMoodStats(ctx context.Context) ([]models.MoodCount, bool, error)
	MoodStatsVersion(ctx context.Context) (int64, error)
	FillMoodStats(ctx context.Context, stats []models.MoodCount, version int64) error
	InvalidateMoodStats(ctx context.Context) error
}

// Nop is an EntryCache that stores nothing.
type Nop struct{}

var _ EntryCache = Nop{}

func (Nop) GetEntry(context.Context, string) (*models.Entry, bool, error)  { return nil, false, nil }
func (Nop) EntryVersion(context.Context, string) (int64, error)            { return 0, nil }
func (Nop) FillEntry(context.Context, models.Entry, int64) error           { return nil }
func (Nop) EvictEntry(context.Context, string) error                       { return nil }
func (Nop) GetMoodStats(context.Context) ([]models.MoodCount, bool, error) { return nil, false, nil }
func (Nop) MoodStatsVersion(context.Context) (int64, error)                { return 0, nil }
func (Nop) FillMoodStats(context.Context, []models.MoodCount, int64) error { return nil }
func (Nop) InvalidateMoodStats(context.Context) error                      { return nil }
