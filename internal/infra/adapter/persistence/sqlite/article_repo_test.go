package sqlite_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"tech-news-hub/internal/domain/entity"
	sq "tech-news-hub/internal/infra/adapter/persistence/sqlite"
)

func testArticle() *entity.Article {
	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	return &entity.Article{
		ID: 1, Title: "t", Summary: "s", SourceURL: "https://u",
		SourceName: "Wired", PublishedAt: now, CreatedAt: now,
		Fingerprint: "fp1",
	}
}

func artRow(a *entity.Article) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "summary", "source_url",
		"source_name", "published_at", "created_at", "content_fingerprint",
	}).AddRow(
		a.ID, a.Title, a.Summary, a.SourceURL,
		a.SourceName, a.PublishedAt, a.CreatedAt, a.Fingerprint,
	)
}

func TestArticleRepo_FindByFingerprint(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("WHERE content_fingerprint").
		WithArgs("fp1").
		WillReturnRows(artRow(testArticle()))

	repo := sq.NewArticleRepo(db)
	got, err := repo.FindByFingerprint(context.Background(), "fp1")
	if err != nil || got == nil || got.Fingerprint != "fp1" {
		t.Fatalf("FindByFingerprint got=%v err=%v", got, err)
	}
}

func TestArticleRepo_InsertBatch_UniqueViolation(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO articles")).
		WillReturnError(errors.New("UNIQUE constraint failed: articles.content_fingerprint"))
	mock.ExpectRollback()

	repo := sq.NewArticleRepo(db)
	n, err := repo.InsertBatch(context.Background(), []*entity.Article{testArticle()})
	if n != 0 || !errors.Is(err, entity.ErrDuplicateFingerprint) {
		t.Fatalf("want ErrDuplicateFingerprint, got n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_InsertBatch_Commits(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	a := testArticle()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO articles")).
		WithArgs(a.Title, a.Summary, a.SourceURL, a.SourceName,
			a.PublishedAt, a.CreatedAt, a.Fingerprint).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := sq.NewArticleRepo(db)
	n, err := repo.InsertBatch(context.Background(), []*entity.Article{a})
	if err != nil || n != 1 {
		t.Fatalf("InsertBatch n=%d err=%v", n, err)
	}
}

func TestArticleRepo_CountDistinctSources(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(DISTINCT source_name)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := sq.NewArticleRepo(db)
	count, err := repo.CountDistinctSources(context.Background())
	if err != nil || count != 3 {
		t.Fatalf("CountDistinctSources count=%d err=%v", count, err)
	}
}

func TestArticleRepo_LatestCreatedAt(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := time.Date(2025, 7, 19, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(want))

	repo := sq.NewArticleRepo(db)
	got, err := repo.LatestCreatedAt(context.Background())
	if err != nil || got == nil || !got.Equal(want) {
		t.Fatalf("LatestCreatedAt got=%v err=%v", got, err)
	}
}
