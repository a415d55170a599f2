// Package scheduler drives periodic ingestion cycles using a cron timer.
// The interval is fixed: the read API reports it as part of its stats.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tech-news-hub/internal/observability/logging"
	"tech-news-hub/internal/usecase/ingest"

	"github.com/robfig/cron/v3"
)

const (
	// Interval is the fixed time between ingestion cycles.
	Interval = 3 * time.Hour

	// schedule is Interval in cron syntax. Keep the two in sync.
	schedule = "@every 3h"

	// cycleTimeout bounds a single scheduled cycle. A cycle is short-lived
	// by construction (bounded sources, bounded entries per source), so
	// hitting this means a source fetch is wedged.
	cycleTimeout = 10 * time.Minute
)

// CycleRunner runs one ingestion cycle. Satisfied by *ingest.Service.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*ingest.CycleReport, error)
}

// Scheduler triggers an ingestion cycle every Interval.
type Scheduler struct {
	cron   *cron.Cron
	runner CycleRunner
	logger *slog.Logger
}

// New creates a Scheduler around the given cycle runner. The scheduler is
// inert until Start is called.
func New(runner CycleRunner, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		runner: runner,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunNow); err != nil {
		return nil, fmt.Errorf("add cron job: %w", err)
	}
	return s, nil
}

// Start begins periodic execution. The first cycle fires one Interval from
// now; callers wanting an immediate cycle run one themselves beforehand.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", slog.String("schedule", schedule))
}

// Stop halts the timer and waits for an in-flight job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes a single ingestion cycle with the scheduler's timeout.
// Failures are logged, never propagated: the next tick gets a fresh start.
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	s.logger.Info("scheduled ingestion cycle started")

	report, err := s.runner.RunCycle(ctx)
	if err != nil {
		s.logger.Error("scheduled ingestion cycle failed",
			slog.Any("error", logging.SanitizeError(err)))
		return
	}

	s.logger.Info("scheduled ingestion cycle completed",
		slog.Int("sources", report.Sources),
		slog.Int("inserted", report.Inserted),
		slog.Int64("duplicated", report.Duplicated),
		slog.Int64("rejected", report.Rejected),
		slog.Int("source_errors", len(report.SourceErrors)),
		slog.Duration("duration", report.Duration),
	)
}
