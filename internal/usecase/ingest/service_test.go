package ingest_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tech-news-hub/internal/domain/entity"
	"tech-news-hub/internal/pkg/fingerprint"
	"tech-news-hub/internal/usecase/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher serves canned items per feed URL.
type stubFetcher struct {
	items map[string][]ingest.FeedItem
	errs  map[string]error

	mu      sync.Mutex
	blockCh chan struct{} // when set, Fetch blocks until the channel closes
	calls   int
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]ingest.FeedItem, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockCh
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	return f.items[url], nil
}

// stubArticleRepo is an in-memory ArticleRepository keyed by fingerprint.
type stubArticleRepo struct {
	mu         sync.Mutex
	byFP       map[string]*entity.Article
	findErr    error
	insertErr  error
	insertions int
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{byFP: make(map[string]*entity.Article)}
}

func (s *stubArticleRepo) FindByFingerprint(_ context.Context, fp string) (*entity.Article, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byFP[fp], nil
}

func (s *stubArticleRepo) InsertBatch(_ context.Context, articles []*entity.Article) (int, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertions++
	for _, a := range articles {
		s.byFP[a.Fingerprint] = a
	}
	return len(articles), nil
}

func (s *stubArticleRepo) ListPaginated(_ context.Context, _ string, _, _ int) ([]*entity.Article, error) {
	return nil, nil
}

func (s *stubArticleRepo) CountArticles(_ context.Context, _ string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.byFP)), nil
}

func (s *stubArticleRepo) ListSourceNames(_ context.Context) ([]string, error) {
	return nil, nil
}

func (s *stubArticleRepo) CountDistinctSources(_ context.Context) (int64, error) {
	return 0, nil
}

func (s *stubArticleRepo) LatestCreatedAt(_ context.Context) (*time.Time, error) {
	return nil, nil
}

func (s *stubArticleRepo) stored() []*entity.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Article, 0, len(s.byFP))
	for _, a := range s.byFP {
		out = append(out, a)
	}
	return out
}

func testSources() []entity.Source {
	return []entity.Source{
		{Name: "TechCrunch", FeedURL: "https://techcrunch.com/feed/"},
		{Name: "Wired", FeedURL: "https://www.wired.com/feed/rss"},
	}
}

func publishedAt() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func TestRunCycleInsertsNewArticles(t *testing.T) {
	repo := newStubArticleRepo()
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/": {
			{Title: "Startup raises series B", URL: "https://techcrunch.com/a", Summary: "Funding news", PublishedAt: publishedAt()},
			{Title: "New chip announced", URL: "https://techcrunch.com/b", Summary: "Silicon", PublishedAt: publishedAt()},
		},
		"https://www.wired.com/feed/rss": {
			{Title: "Privacy deep dive", URL: "https://www.wired.com/p", Summary: "Analysis", PublishedAt: publishedAt()},
		},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sources)
	assert.Equal(t, int64(3), report.FeedItems)
	assert.Equal(t, 3, report.Staged)
	assert.Equal(t, 3, report.Inserted)
	assert.Zero(t, report.Duplicated)
	assert.Zero(t, report.Rejected)
	assert.Empty(t, report.SourceErrors)
	assert.Len(t, repo.stored(), 3)
}

func TestRunCycleIsIdempotent(t *testing.T) {
	repo := newStubArticleRepo()
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/": {
			{Title: "Startup raises series B", URL: "https://techcrunch.com/a", Summary: "Funding news", PublishedAt: publishedAt()},
		},
		"https://www.wired.com/feed/rss": {},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	first, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Inserted)

	second, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, int64(1), second.Duplicated)
	assert.Len(t, repo.stored(), 1)
}

func TestRunCycleDeduplicatesWithinCycle(t *testing.T) {
	// The same story appearing in two feeds must be staged once.
	item := ingest.FeedItem{
		Title:       "Shared syndicated story",
		URL:         "https://example.com/story",
		Summary:     "Same everywhere",
		PublishedAt: publishedAt(),
	}
	repo := newStubArticleRepo()
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/":   {item},
		"https://www.wired.com/feed/rss": {item},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Staged)
	assert.Equal(t, int64(1), report.Duplicated)
	assert.Len(t, repo.stored(), 1)
}

func TestRunCycleIsolatesSourceFailures(t *testing.T) {
	repo := newStubArticleRepo()
	fetcher := &stubFetcher{
		items: map[string][]ingest.FeedItem{
			"https://www.wired.com/feed/rss": {
				{Title: "Survivor", URL: "https://www.wired.com/ok", Summary: "Made it", PublishedAt: publishedAt()},
			},
		},
		errs: map[string]error{
			"https://techcrunch.com/feed/": errors.New("connection refused"),
		},
	}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inserted)
	require.Len(t, report.SourceErrors, 1)
	assert.Equal(t, "TechCrunch", report.SourceErrors[0].Source)
	assert.ErrorContains(t, report.SourceErrors[0].Err, "connection refused")
}

func TestRunCycleRejectsMandatoryFieldViolations(t *testing.T) {
	repo := newStubArticleRepo()
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/": {
			{Title: "", URL: "https://techcrunch.com/no-title", PublishedAt: publishedAt()},
			{Title: "No link", URL: "", PublishedAt: publishedAt()},
			{Title: "<p> \t </p>", URL: "https://techcrunch.com/whitespace-title", PublishedAt: publishedAt()},
			{Title: "Keeper", URL: "https://techcrunch.com/ok", Summary: "Fine", PublishedAt: publishedAt()},
		},
		"https://www.wired.com/feed/rss": {},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.Rejected)
	assert.Equal(t, 1, report.Inserted)
}

func TestRunCycleRejectsOverlongFields(t *testing.T) {
	longTitle := strings.Repeat("x", entity.MaxTitleLen+100)
	longURL := "https://techcrunch.com/" + strings.Repeat("y", entity.MaxSourceURLLen)

	repo := newStubArticleRepo()
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/": {
			{Title: longTitle, URL: "https://techcrunch.com/long-title", Summary: "Fine", PublishedAt: publishedAt()},
			{Title: "Long link", URL: longURL, Summary: "Fine", PublishedAt: publishedAt()},
			{Title: "Keeper", URL: "https://techcrunch.com/ok", Summary: "Fine", PublishedAt: publishedAt()},
		},
		"https://www.wired.com/feed/rss": {},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	// Over-long entries must never reach the batch: a column-bound
	// violation there would roll back the whole insert, and the entry
	// would re-stage and re-fail every cycle after.
	assert.Equal(t, int64(2), report.Rejected)
	assert.Equal(t, 1, report.Staged)
	assert.Equal(t, 1, report.Inserted)
	require.Len(t, repo.stored(), 1)
	assert.Equal(t, "Keeper", repo.stored()[0].Title)
}

func TestRunCycleSummaryFallsBackToTitle(t *testing.T) {
	repo := newStubArticleRepo()
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/": {
			{Title: "Headline only", URL: "https://techcrunch.com/h", Summary: "  <div></div>  ", PublishedAt: publishedAt()},
		},
		"https://www.wired.com/feed/rss": {},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	_, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, "Headline only", stored[0].Summary)
}

func TestRunCycleNormalizesFields(t *testing.T) {
	repo := newStubArticleRepo()
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/": {
			{
				Title:       "  Big   <b>news</b>  ",
				URL:         "https://techcrunch.com/big",
				Summary:     "<p>It &amp; happened\n\ttoday</p>",
				PublishedAt: publishedAt(),
			},
		},
		"https://www.wired.com/feed/rss": {},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	_, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, "Big news", stored[0].Title)
	assert.Equal(t, "It & happened today", stored[0].Summary)
	assert.Equal(t, fingerprint.Hash("Big news", "https://techcrunch.com/big"), stored[0].Fingerprint)
}

func TestRunCycleCountsFallbackTimes(t *testing.T) {
	repo := newStubArticleRepo()
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/": {
			{Title: "Undated", URL: "https://techcrunch.com/u", PublishedAt: publishedAt(), PublishedFallback: true},
			{Title: "Dated", URL: "https://techcrunch.com/d", PublishedAt: publishedAt()},
		},
		"https://www.wired.com/feed/rss": {},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.FallbackTimes)
}

func TestRunCycleBatchFailureReturnsError(t *testing.T) {
	repo := newStubArticleRepo()
	repo.insertErr = errors.New("disk full")
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/": {
			{Title: "Doomed", URL: "https://techcrunch.com/x", PublishedAt: publishedAt()},
		},
		"https://www.wired.com/feed/rss": {},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	report, err := svc.RunCycle(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.Zero(t, report.Inserted)
	assert.Empty(t, repo.stored())
}

func TestRunCycleFingerprintLookupFailureSkipsEntry(t *testing.T) {
	repo := newStubArticleRepo()
	repo.findErr = errors.New("connection reset")
	fetcher := &stubFetcher{items: map[string][]ingest.FeedItem{
		"https://techcrunch.com/feed/": {
			{Title: "Unreachable store", URL: "https://techcrunch.com/s", PublishedAt: publishedAt()},
		},
		"https://www.wired.com/feed/rss": {},
	}}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Rejected)
	assert.Zero(t, report.Inserted)
}

func TestTryRunCycleRejectsConcurrentRun(t *testing.T) {
	repo := newStubArticleRepo()
	block := make(chan struct{})
	fetcher := &stubFetcher{
		items:   map[string][]ingest.FeedItem{},
		blockCh: block,
	}
	svc := ingest.NewService(testSources(), repo, fetcher, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.RunCycle(context.Background())
	}()

	// Wait until the background cycle holds the lock inside a fetch.
	require.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return fetcher.calls > 0
	}, time.Second, 5*time.Millisecond)

	_, err := svc.TryRunCycle(context.Background())
	assert.ErrorIs(t, err, ingest.ErrCycleInFlight)

	close(block)
	<-done

	// Once the cycle finishes the manual trigger runs normally.
	fetcher.mu.Lock()
	fetcher.blockCh = nil
	fetcher.mu.Unlock()
	_, err = svc.TryRunCycle(context.Background())
	assert.NoError(t, err)
}
