// Package ingest implements the feed ingestion cycle: it fetches all
// registered feeds concurrently, normalizes and deduplicates their entries,
// and commits the surviving articles to the store as a single batch.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tech-news-hub/internal/domain/entity"
	"tech-news-hub/internal/observability/metrics"
	"tech-news-hub/internal/pkg/fingerprint"
	"tech-news-hub/internal/repository"
	"tech-news-hub/internal/utils/text"

	"golang.org/x/sync/errgroup"
)

const (
	// fetchParallelism bounds the number of feeds fetched concurrently.
	fetchParallelism = 4
)

// ErrCycleInFlight is returned by TryRunCycle when an ingestion cycle is
// already running. Callers triggering cycles manually should surface this
// as a conflict rather than queueing behind the running cycle.
var ErrCycleInFlight = errors.New("ingestion cycle already in progress")

// FeedItem represents a single entry parsed from an RSS/Atom feed.
// PublishedFallback reports that the feed carried no parseable publication
// time and PublishedAt was substituted with the fetch time.
type FeedItem struct {
	Title             string
	URL               string
	Summary           string
	PublishedAt       time.Time
	PublishedFallback bool
}

// FeedFetcher is an interface for fetching RSS/Atom feeds from a URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// SourceError records the failure of a single source during a cycle.
// A failed source never aborts the cycle; its error is collected here.
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("source %q: %v", e.Source, e.Err)
}

func (e SourceError) Unwrap() error { return e.Err }

// CycleReport contains statistics about one ingestion cycle.
type CycleReport struct {
	Sources       int
	FeedItems     int64
	Staged        int
	Inserted      int
	Duplicated    int64
	Rejected      int64
	FallbackTimes int64
	SourceErrors  []SourceError
	Duration      time.Duration
}

// Service coordinates ingestion cycles. At most one cycle runs at a time;
// the mutex serializes scheduled runs and lets manual triggers bail out
// instead of piling up.
type Service struct {
	Sources  []entity.Source
	Articles repository.ArticleRepository
	Fetcher  FeedFetcher
	Logger   *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewService creates an ingest Service over the given source registry,
// article repository, and feed fetcher.
func NewService(sources []entity.Source, articles repository.ArticleRepository, fetcher FeedFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Sources:  sources,
		Articles: articles,
		Fetcher:  fetcher,
		Logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RunCycle executes one full ingestion cycle, blocking until any cycle
// already in flight finishes first. It is the entry point for scheduled
// runs and for the initial fetch on an empty store.
func (s *Service) RunCycle(ctx context.Context) (*CycleReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runCycle(ctx)
}

// TryRunCycle executes one ingestion cycle unless one is already running,
// in which case it returns ErrCycleInFlight immediately. It is the entry
// point for manual triggers.
func (s *Service) TryRunCycle(ctx context.Context) (*CycleReport, error) {
	if !s.mu.TryLock() {
		return nil, ErrCycleInFlight
	}
	defer s.mu.Unlock()
	return s.runCycle(ctx)
}

// runCycle fetches every source concurrently, stages normalized articles
// under a shared lock, and commits them in a single batch. The caller must
// hold s.mu.
func (s *Service) runCycle(ctx context.Context) (*CycleReport, error) {
	start := s.now()
	report := &CycleReport{Sources: len(s.Sources)}

	// stageMu guards the staging area shared by the per-source goroutines.
	var stageMu sync.Mutex
	staged := make([]*entity.Article, 0, len(s.Sources)*10)
	seen := make(map[string]struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallelism)

	for _, src := range s.Sources {
		src := src
		g.Go(func() error {
			items, err := s.fetchSource(gctx, src)
			if err != nil {
				stageMu.Lock()
				report.SourceErrors = append(report.SourceErrors, SourceError{Source: src.Name, Err: err})
				stageMu.Unlock()
				metrics.RecordSourceError(src.Name)
				s.Logger.Warn("source fetch failed",
					slog.String("source", src.Name),
					slog.String("feed_url", src.FeedURL),
					slog.Any("error", err))
				return nil
			}

			for _, item := range items {
				art, outcome := s.processEntry(gctx, src, item)

				stageMu.Lock()
				report.FeedItems++
				switch outcome {
				case entryStaged:
					if _, dup := seen[art.Fingerprint]; dup {
						report.Duplicated++
					} else {
						seen[art.Fingerprint] = struct{}{}
						staged = append(staged, art)
						report.Staged++
						if item.PublishedFallback {
							report.FallbackTimes++
						}
					}
				case entryDuplicate:
					report.Duplicated++
				case entryRejected:
					report.Rejected++
				}
				stageMu.Unlock()
			}
			return nil
		})
	}

	// Goroutines report per-source failures through the report, never
	// through their return value, so Wait only fails on a broken group.
	_ = g.Wait()

	if len(staged) > 0 {
		inserted, err := s.Articles.InsertBatch(ctx, staged)
		if err != nil {
			report.Duration = s.now().Sub(start)
			metrics.RecordCycle(false, report.Duration, 0, report.Duplicated, report.Rejected)
			s.Logger.Error("cycle batch insert failed",
				slog.Int("staged", report.Staged),
				slog.Any("error", err))
			return report, fmt.Errorf("insert batch: %w", err)
		}
		report.Inserted = inserted
	}

	report.Duration = s.now().Sub(start)
	metrics.RecordCycle(true, report.Duration, int64(report.Inserted), report.Duplicated, report.Rejected)

	s.Logger.Info("ingestion cycle completed",
		slog.Int("sources", report.Sources),
		slog.Int64("feed_items", report.FeedItems),
		slog.Int("inserted", report.Inserted),
		slog.Int64("duplicated", report.Duplicated),
		slog.Int64("rejected", report.Rejected),
		slog.Int64("fallback_times", report.FallbackTimes),
		slog.Int("source_errors", len(report.SourceErrors)),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

// fetchSource retrieves one feed and records its fetch duration.
func (s *Service) fetchSource(ctx context.Context, src entity.Source) ([]FeedItem, error) {
	fetchStart := time.Now()
	items, err := s.Fetcher.Fetch(ctx, src.FeedURL)
	metrics.RecordSourceFetch(src.Name, time.Since(fetchStart))
	if err != nil {
		return nil, err
	}
	return items, nil
}

// entryOutcome classifies what happened to a single feed entry.
type entryOutcome int

const (
	entryStaged entryOutcome = iota
	entryDuplicate
	entryRejected
)

// processEntry normalizes one feed entry into an article and decides its
// fate: staged for insertion, skipped as a known duplicate, or rejected as
// malformed. Any error on the way is logged and counts as a rejection so a
// single bad entry never sinks the cycle.
func (s *Service) processEntry(ctx context.Context, src entity.Source, item FeedItem) (*entity.Article, entryOutcome) {
	title := text.Normalize(item.Title)
	summary := text.Normalize(item.Summary)

	if title == "" || item.URL == "" {
		s.Logger.Debug("entry rejected: missing mandatory field",
			slog.String("source", src.Name),
			slog.String("url", item.URL))
		return nil, entryRejected
	}

	fp := fingerprint.Hash(title, item.URL)

	existing, err := s.Articles.FindByFingerprint(ctx, fp)
	if err != nil {
		s.Logger.Warn("entry skipped: fingerprint lookup failed",
			slog.String("source", src.Name),
			slog.String("url", item.URL),
			slog.Any("error", err))
		return nil, entryRejected
	}
	if existing != nil {
		return nil, entryDuplicate
	}

	if summary == "" {
		summary = title
	}

	publishedAt := item.PublishedAt.UTC()
	if publishedAt.IsZero() {
		publishedAt = s.now()
	}

	art := &entity.Article{
		Title:       title,
		Summary:     summary,
		SourceURL:   item.URL,
		SourceName:  src.Name,
		PublishedAt: publishedAt,
		CreatedAt:   s.now(),
		Fingerprint: fp,
	}
	if err := art.Validate(); err != nil {
		s.Logger.Debug("entry rejected: validation failed",
			slog.String("source", src.Name),
			slog.String("url", item.URL),
			slog.Any("error", err))
		return nil, entryRejected
	}

	return art, entryStaged
}
