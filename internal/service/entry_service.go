// Package service implements the journal entry operations on top of the
// entry store, keeping the Redis cache consistent with every mutation.
// Mutations only evict; the cache is filled by reads, each guarded by the
// version it observed before querying the store.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"io.winapps.jotly/internal/cache"
	"io.winapps.jotly/internal/errs"
	"io.winapps.jotly/internal/metrics"
	models "io.winapps.jotly/internal/models/journal"
	"io.winapps.jotly/internal/store"
	"io.winapps.jotly/internal/validation"
)

// DefaultDateRange is the look-back window used when DateRange gets no start.
const DefaultDateRange = 30 * 24 * time.Hour

const (
	cacheEntries   = "entry"
	cacheMoodStats = "mood_stats"
)

// CreateInput carries the user-supplied fields of a new entry.
type CreateInput struct {
	Date *time.Time
	Mood models.Mood
	Note string
	Tags []string
}

// EntryService coordinates the store and the cache.
type EntryService struct {
	store   store.EntryStore
	cache   cache.EntryCache
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures an EntryService.
type Option func(*EntryService)

// WithCache sets the entry cache. Without it caching is disabled.
func WithCache(c cache.EntryCache) Option {
	return func(s *EntryService) { s.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *EntryService) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *EntryService) { s.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *EntryService) { s.now = now }
}

// NewEntryService creates a service over st.
func NewEntryService(st store.EntryStore, opts ...Option) *EntryService {
	s := &EntryService{
		store:  st,
		cache:  cache.Nop{},
		logger: zap.NewNop().Sugar(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new entry. Date defaults to now and tags to empty.
func (s *EntryService) Create(ctx context.Context, in CreateInput) (*models.Entry, error) {
	e := models.Entry{Mood: in.Mood, Note: in.Note, Tags: in.Tags}
	if in.Date != nil {
		e.Date = in.Date.UTC()
	} else {
		e.Date = s.now().UTC()
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}

	created, err := s.store.Insert(ctx, e)
	s.record("create", err)
	if err != nil {
		return nil, err
	}
	s.invalidateMoodStats(ctx)
	return created, nil
}

// List returns every entry matching f.
func (s *EntryService) List(ctx context.Context, f store.Filter) ([]models.Entry, error) {
	f.Tag = validation.NormalizeTag(f.Tag)
	entries, err := s.store.FindMany(ctx, f)
	s.record("list", err)
	return entries, err
}

// Get returns the entry with id or errs.ErrNotFound.
func (s *EntryService) Get(ctx context.Context, id string) (*models.Entry, error) {
	cached, found, err := s.cache.GetEntry(ctx, id)
	switch {
	case err != nil:
		s.cacheFailure(cacheEntries, "get", err, "id", id)
	case found:
		s.metrics.RecordCache(cacheEntries, metrics.CacheHit)
		s.record("get", nil)
		return cached, nil
	default:
		s.metrics.RecordCache(cacheEntries, metrics.CacheMiss)
	}

	version, verr := s.cache.EntryVersion(ctx, id)
	if verr != nil {
		s.cacheFailure(cacheEntries, "version", verr, "id", id)
	}
	e, err := s.store.FindByID(ctx, id)
	if err == nil && e == nil {
		err = errs.ErrNotFound
	}
	s.record("get", err)
	if err != nil {
		return nil, err
	}
	if verr == nil {
		if cerr := s.cache.FillEntry(ctx, *e, version); cerr != nil {
			s.cacheFailure(cacheEntries, "fill", cerr, "id", id)
		}
	}
	return e, nil
}

// Update merges p into the entry with id. A missing entry is reported
// before anything is written.
func (s *EntryService) Update(ctx context.Context, id string, p models.Patch) (*models.Entry, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err == nil && existing == nil {
		err = errs.ErrNotFound
	}
	if err != nil {
		s.record("update", err)
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, p)
	s.record("update", err)
	if err != nil {
		return nil, err
	}
	s.evictEntry(ctx, id)
	s.invalidateMoodStats(ctx)
	return updated, nil
}

// Delete permanently removes the entry with id.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	s.record("delete", err)
	if err != nil {
		return err
	}
	s.evictEntry(ctx, id)
	s.invalidateMoodStats(ctx)
	return nil
}

// MoodStats returns entry counts per mood, most frequent first.
func (s *EntryService) MoodStats(ctx context.Context) ([]models.MoodCount, error) {
	stats, found, err := s.cache.GetMoodStats(ctx)
	switch {
	case err != nil:
		s.cacheFailure(cacheMoodStats, "get", err)
	case found:
		s.metrics.RecordCache(cacheMoodStats, metrics.CacheHit)
		s.record("mood_stats", nil)
		return stats, nil
	default:
		s.metrics.RecordCache(cacheMoodStats, metrics.CacheMiss)
	}
	return s.loadMoodStats(ctx, "mood_stats")
}

// RefreshMoodStats recomputes the aggregate and overwrites the cached copy
// unless a mutation invalidated it meanwhile.
func (s *EntryService) RefreshMoodStats(ctx context.Context) ([]models.MoodCount, error) {
	return s.loadMoodStats(ctx, "refresh_mood_stats")
}

func (s *EntryService) loadMoodStats(ctx context.Context, op string) ([]models.MoodCount, error) {
	version, verr := s.cache.MoodStatsVersion(ctx)
	if verr != nil {
		s.cacheFailure(cacheMoodStats, "version", verr)
	}
	stats, err := s.store.AggregateMoodCounts(ctx)
	s.record(op, err)
	if err != nil {
		return nil, err
	}
	if verr == nil {
		if cerr := s.cache.FillMoodStats(ctx, stats, version); cerr != nil {
			s.cacheFailure(cacheMoodStats, "fill", cerr)
		}
	}
	return stats, nil
}

// DateRange returns entries dated within [start, end], oldest first. A nil
// end means now and a nil start means DefaultDateRange before now.
func (s *EntryService) DateRange(ctx context.Context, start, end *time.Time) ([]models.Entry, error) {
	now := s.now().UTC()
	if end == nil {
		end = &now
	}
	if start == nil {
		from := now.Add(-DefaultDateRange)
		start = &from
	}
	entries, err := s.store.FindMany(ctx, store.Filter{
		StartDate: start,
		EndDate:   end,
		Order:     store.OrderAsc,
	})
	s.record("date_range", err)
	return entries, err
}

// UniqueTags returns the sorted distinct tags across all entries.
func (s *EntryService) UniqueTags(ctx context.Context) ([]string, error) {
	tags, err := s.store.UniqueTags(ctx)
	s.record("unique_tags", err)
	return tags, err
}

// Ping reports whether the store is reachable.
func (s *EntryService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *EntryService) evictEntry(ctx context.Context, id string) {
	if err := s.cache.EvictEntry(ctx, id); err != nil {
		s.cacheFailure(cacheEntries, "evict", err, "id", id)
	}
}

func (s *EntryService) invalidateMoodStats(ctx context.Context) {
	if err := s.cache.InvalidateMoodStats(ctx); err != nil {
		s.cacheFailure(cacheMoodStats, "invalidate", err)
	}
}

func (s *EntryService) cacheFailure(name, op string, err error, fields ...interface{}) {
	s.metrics.RecordCache(name, metrics.CacheError)
	s.logger.Warnw("cache operation failed",
		append([]interface{}{"cache", name, "op", op, "error", err}, fields...)...)
}

func (s *EntryService) record(op string, err error) {
	s.metrics.RecordEntryOperation(op, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	case errs.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}
