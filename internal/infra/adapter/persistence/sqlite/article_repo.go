// Package sqlite provides the SQLite implementation of the article
// repository. It backs the default local file-backed store used in
// development and small deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tech-news-hub/internal/domain/entity"
	"tech-news-hub/internal/observability/metrics"
	"tech-news-hub/internal/repository"
)

// ArticleRepo implements repository.ArticleRepository using SQLite.
type ArticleRepo struct{ db *sql.DB }

// NewArticleRepo creates a new SQLite-backed article repository.
func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
// SQLite drivers expose this only through the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (repo *ArticleRepo) FindByFingerprint(ctx context.Context, fp string) (*entity.Article, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("find_by_fingerprint", time.Since(start)) }()

	const query = `
SELECT id, title, summary, source_url, source_name, published_at, created_at, content_fingerprint
FROM articles
WHERE content_fingerprint = ?
LIMIT 1`

	var article entity.Article
	err := repo.db.QueryRowContext(ctx, query, fp).Scan(
		&article.ID, &article.Title, &article.Summary, &article.SourceURL,
		&article.SourceName, &article.PublishedAt, &article.CreatedAt, &article.Fingerprint,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("FindByFingerprint: QueryRowContext: %w", err)
	}
	return &article, nil
}

func (repo *ArticleRepo) InsertBatch(ctx context.Context, articles []*entity.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert_batch", time.Since(start)) }()

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("InsertBatch: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
INSERT INTO articles
(title, summary, source_url, source_name, published_at, created_at, content_fingerprint)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, article := range articles {
		if _, err := tx.ExecContext(ctx, query,
			article.Title, article.Summary, article.SourceURL, article.SourceName,
			article.PublishedAt, article.CreatedAt, article.Fingerprint,
		); err != nil {
			if isUniqueViolation(err) {
				return 0, fmt.Errorf("InsertBatch: fingerprint %s: %w",
					article.Fingerprint, entity.ErrDuplicateFingerprint)
			}
			return 0, fmt.Errorf("InsertBatch: ExecContext: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("InsertBatch: Commit: %w", err)
	}
	return len(articles), nil
}

func (repo *ArticleRepo) ListPaginated(ctx context.Context, sourceName string, offset, limit int) ([]*entity.Article, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_paginated", time.Since(start)) }()

	query := `
SELECT id, title, summary, source_url, source_name, published_at, created_at, content_fingerprint
FROM articles`
	args := []any{}
	if sourceName != "" {
		query += `
WHERE source_name = ?`
		args = append(args, sourceName)
	}
	query += `
ORDER BY published_at DESC
LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		var article entity.Article
		if err := rows.Scan(&article.ID, &article.Title, &article.Summary,
			&article.SourceURL, &article.SourceName, &article.PublishedAt,
			&article.CreatedAt, &article.Fingerprint); err != nil {
			return nil, fmt.Errorf("ListPaginated: Scan: %w", err)
		}
		articles = append(articles, &article)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) CountArticles(ctx context.Context, sourceName string) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("count_articles", time.Since(start)) }()

	var count int64
	var err error
	if sourceName == "" {
		err = repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	} else {
		err = repo.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM articles WHERE source_name = ?`, sourceName).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("CountArticles: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) ListSourceNames(ctx context.Context) ([]string, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_source_names", time.Since(start)) }()

	const query = `SELECT DISTINCT source_name FROM articles ORDER BY source_name`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListSourceNames: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	names := make([]string, 0, 16)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ListSourceNames: Scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (repo *ArticleRepo) CountDistinctSources(ctx context.Context) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("count_distinct_sources", time.Since(start)) }()

	var count int64
	err := repo.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT source_name) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("CountDistinctSources: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) LatestCreatedAt(ctx context.Context) (*time.Time, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("latest_created_at", time.Since(start)) }()

	const query = `SELECT created_at FROM articles ORDER BY created_at DESC LIMIT 1`

	var latest time.Time
	err := repo.db.QueryRowContext(ctx, query).Scan(&latest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("LatestCreatedAt: %w", err)
	}
	return &latest, nil
}
