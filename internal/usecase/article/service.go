// Package article provides the read-side use cases behind the HTTP API:
// paginated article listings, source name listings, and aggregate stats.
package article

import (
	"context"
	"fmt"
	"time"

	"tech-news-hub/internal/common/pagination"
	"tech-news-hub/internal/domain/entity"
	"tech-news-hub/internal/repository"
)

// updateFrequencyLabel is the human-readable form of the fixed ingestion
// interval reported by Stats. It must track scheduler.Interval.
const updateFrequencyLabel = "3 hours"

// Service provides article read use cases.
// It delegates persistence to the repository and never touches ingestion.
type Service struct {
	Repo repository.ArticleRepository
}

// PagedArticles represents one page of articles plus response metadata.
type PagedArticles struct {
	Articles []*entity.Article
	Meta     pagination.Metadata
}

// Stats aggregates store-wide counters for the stats endpoint.
// LatestUpdate is nil when the store holds no articles.
type Stats struct {
	TotalArticles   int64
	SourcesCount    int64
	LatestUpdate    *time.Time
	UpdateFrequency string
}

// ListPaginated retrieves one page of articles ordered by published time
// descending. An empty sourceName applies no source filter. The total used
// for metadata is computed under the same filter as the page itself.
func (s *Service) ListPaginated(ctx context.Context, sourceName string, params pagination.Params) (*PagedArticles, error) {
	total, err := s.Repo.CountArticles(ctx, sourceName)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	offset := pagination.CalculateOffset(params.Page, params.PerPage)
	articles, err := s.Repo.ListPaginated(ctx, sourceName, offset, params.PerPage)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &PagedArticles{
		Articles: articles,
		Meta:     pagination.NewMetadata(params, total),
	}, nil
}

// ListSources returns the distinct source names present in the store.
func (s *Service) ListSources(ctx context.Context) ([]string, error) {
	names, err := s.Repo.ListSourceNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source names: %w", err)
	}
	return names, nil
}

// GetStats returns aggregate counters for the stats endpoint.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	total, err := s.Repo.CountArticles(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	sources, err := s.Repo.CountDistinctSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("count distinct sources: %w", err)
	}

	latest, err := s.Repo.LatestCreatedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest created at: %w", err)
	}

	return &Stats{
		TotalArticles:   total,
		SourcesCount:    sources,
		LatestUpdate:    latest,
		UpdateFrequency: updateFrequencyLabel,
	}, nil
}
