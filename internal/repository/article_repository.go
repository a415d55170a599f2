// Package repository defines the persistence interfaces consumed by the
// use case layer. Backing engines live under internal/infra/adapter.
package repository

import (
	"context"
	"time"

	"tech-news-hub/internal/domain/entity"
)

// ArticleRepository is the durable article store keyed by content fingerprint.
type ArticleRepository interface {
	// FindByFingerprint returns the article with the given fingerprint.
	// Returns (nil, nil) if no such article exists.
	FindByFingerprint(ctx context.Context, fp string) (*entity.Article, error)

	// InsertBatch inserts all articles in a single transaction and returns
	// the number inserted. The batch is all-or-nothing: any failure
	// (including a fingerprint uniqueness violation) rolls back every row.
	// Uniqueness violations are reported wrapping entity.ErrDuplicateFingerprint.
	InsertBatch(ctx context.Context, articles []*entity.Article) (int, error)

	// ListPaginated retrieves one page of articles ordered by published
	// time descending. An empty sourceName applies no source filter.
	ListPaginated(ctx context.Context, sourceName string, offset, limit int) ([]*entity.Article, error)

	// CountArticles returns the number of stored articles, optionally
	// filtered by source name (empty = all).
	CountArticles(ctx context.Context, sourceName string) (int64, error)

	// ListSourceNames returns the distinct source names present in the store.
	ListSourceNames(ctx context.Context) ([]string, error)

	// CountDistinctSources returns the number of distinct source names.
	CountDistinctSources(ctx context.Context) (int64, error)

	// LatestCreatedAt returns the most recent insertion timestamp, or
	// (nil, nil) when the store is empty.
	LatestCreatedAt(ctx context.Context) (*time.Time, error)
}
