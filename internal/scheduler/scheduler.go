// Package scheduler runs periodic maintenance jobs on a cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	models "io.winapps.jotly/internal/models/journal"
)

// MoodStatsRefresher recomputes and caches the mood aggregate.
type MoodStatsRefresher interface {
	RefreshMoodStats(ctx context.Context) ([]models.MoodCount, error)
}

// Scheduler wraps a UTC cron instance.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.SugaredLogger
	timeout time.Duration
}

// New creates an idle scheduler. Each job run gets its own context bounded
// by timeout.
func New(logger *zap.SugaredLogger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
		timeout: timeout,
	}
}

// ScheduleMoodStatsRefresh registers the stats refresh under spec. An empty
// spec is a no-op.
func (s *Scheduler) ScheduleMoodStatsRefresh(spec string, r MoodStatsRefresher) error {
	if spec == "" {
		s.logger.Infow("mood stats refresh disabled")
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() { s.refreshMoodStats(r) })
	if err != nil {
		return fmt.Errorf("schedule mood stats refresh %q: %w", spec, err)
	}
	s.logger.Infow("mood stats refresh scheduled", "schedule", spec)
	return nil
}

func (s *Scheduler) refreshMoodStats(r MoodStatsRefresher) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	stats, err := r.RefreshMoodStats(ctx)
	if err != nil {
		s.logger.Errorw("mood stats refresh failed", "error", err)
		return
	}
	s.logger.Debugw("mood stats refreshed", "moods", len(stats), "duration_ms", time.Since(start).Milliseconds())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warnw("scheduler stop timed out")
	}
}
