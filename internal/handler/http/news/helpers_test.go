package news_test

import (
	"context"
	"time"

	"tech-news-hub/internal/domain/entity"
)

// stubRepo is an ArticleRepository double serving canned read results.
type stubRepo struct {
	articles []*entity.Article
	names    []string
	total    int64
	sources  int64
	latest   *time.Time
	err      error

	gotSourceName string
	gotOffset     int
	gotLimit      int
}

func (s *stubRepo) FindByFingerprint(_ context.Context, _ string) (*entity.Article, error) {
	return nil, nil
}

func (s *stubRepo) InsertBatch(_ context.Context, articles []*entity.Article) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(articles), nil
}

func (s *stubRepo) ListPaginated(_ context.Context, sourceName string, offset, limit int) ([]*entity.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.gotSourceName = sourceName
	s.gotOffset = offset
	s.gotLimit = limit
	return s.articles, nil
}

func (s *stubRepo) CountArticles(_ context.Context, _ string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.total, nil
}

func (s *stubRepo) ListSourceNames(_ context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.names, nil
}

func (s *stubRepo) CountDistinctSources(_ context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.sources, nil
}

func (s *stubRepo) LatestCreatedAt(_ context.Context) (*time.Time, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.latest, nil
}
