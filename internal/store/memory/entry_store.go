// Package memory provides an in-process EntryStore used by tests and by the
// server when STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"io.winapps.jotly/internal/errs"
	models "io.winapps.jotly/internal/models/journal"
	"io.winapps.jotly/internal/store"
	"io.winapps.jotly/internal/validation"
)

// EntryStore keeps entries in a map guarded by a RWMutex. Every read hands
// out copies so callers can never mutate stored state.
type EntryStore struct {
	mu      sync.RWMutex
	entries map[string]models.Entry
	order   []string
	now     func() time.Time
}

var _ store.EntryStore = (*EntryStore)(nil)

// Option configures an EntryStore.
type Option func(*EntryStore)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *EntryStore) { s.now = now }
}

// NewEntryStore creates an empty store.
func NewEntryStore(opts ...Option) *EntryStore {
	s := &EntryStore{
		entries: make(map[string]models.Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EntryStore) Insert(_ context.Context, e models.Entry) (*models.Entry, error) {
	if err := validation.PrepareEntry(&e); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	e.ID = uuid.New().String()
	e.CreatedAt = now
	e.UpdatedAt = now

	s.mu.Lock()
	s.entries[e.ID] = e.Clone()
	s.order = append(s.order, e.ID)
	s.mu.Unlock()

	return &e, nil
}

func (s *EntryStore) FindByID(_ context.Context, id string) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	c := e.Clone()
	return &c, nil
}

func (s *EntryStore) FindMany(_ context.Context, f store.Filter) ([]models.Entry, error) {
	s.mu.RLock()
	out := make([]models.Entry, 0, len(s.order))
	for _, id := range s.order {
		if e := s.entries[id]; f.Matches(e) {
			out = append(out, e.Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if f.Order == store.OrderAsc {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *EntryStore) Update(_ context.Context, id string, p models.Patch) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.entries[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	next := p.Apply(cur)
	if err := validation.PrepareEntry(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = store.NextUpdatedAt(cur.UpdatedAt, s.now().UTC())
	s.entries[id] = next.Clone()
	return &next, nil
}

func (s *EntryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.entries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *EntryStore) AggregateMoodCounts(_ context.Context) ([]models.MoodCount, error) {
	s.mu.RLock()
	counts := make(map[models.Mood]int)
	for _, e := range s.entries {
		counts[e.Mood]++
	}
	s.mu.RUnlock()

	out := make([]models.MoodCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, models.MoodCount{Mood: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mood < out[j].Mood
	})
	return out, nil
}

func (s *EntryStore) UniqueTags(_ context.Context) ([]string, error) {
	s.mu.RLock()
	seen := make(map[string]struct{})
	for _, e := range s.entries {
		for _, t := range e.Tags {
			seen[t] = struct{}{}
		}
	}
	s.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (s *EntryStore) Ping(context.Context) error { return nil }
