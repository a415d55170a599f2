// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article and Source, along with
// their validation rules and domain-specific errors.
package entity

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Column bounds of the articles table. Validate enforces them so an
// over-long entry is rejected at staging instead of failing the whole
// batch insert.
const (
	MaxTitleLen     = 500
	MaxSummaryLen   = 1000
	MaxSourceURLLen = 1000
)

// Article represents a single ingested news article.
// Articles are create-once, read-many: once stored they are never updated
// or deleted by the ingestion pipeline. Fingerprint is the dedup key and
// is unique across the whole store.
type Article struct {
	ID          int64
	Title       string
	Summary     string
	SourceURL   string
	SourceName  string
	PublishedAt time.Time
	CreatedAt   time.Time
	Fingerprint string
}

// Validate checks the invariants an article must satisfy before it can be
// staged for insertion. Title, SourceURL and Fingerprint are mandatory;
// both timestamps must be populated; text fields must fit their columns.
func (a *Article) Validate() error {
	if a.Title == "" {
		return &ValidationError{Field: "Title", Message: "title is required"}
	}
	if utf8.RuneCountInString(a.Title) > MaxTitleLen {
		return &ValidationError{
			Field:   "Title",
			Message: fmt.Sprintf("title must be %d characters or fewer", MaxTitleLen),
		}
	}
	if utf8.RuneCountInString(a.Summary) > MaxSummaryLen {
		return &ValidationError{
			Field:   "Summary",
			Message: fmt.Sprintf("summary must be %d characters or fewer", MaxSummaryLen),
		}
	}
	if a.SourceURL == "" {
		return &ValidationError{Field: "SourceURL", Message: "source URL is required"}
	}
	if utf8.RuneCountInString(a.SourceURL) > MaxSourceURLLen {
		return &ValidationError{
			Field:   "SourceURL",
			Message: fmt.Sprintf("source URL must be %d characters or fewer", MaxSourceURLLen),
		}
	}
	if a.SourceName == "" {
		return &ValidationError{Field: "SourceName", Message: "source name is required"}
	}
	if a.Fingerprint == "" {
		return &ValidationError{Field: "Fingerprint", Message: "fingerprint is required"}
	}
	if a.PublishedAt.IsZero() {
		return &ValidationError{Field: "PublishedAt", Message: "published time is required"}
	}
	if a.CreatedAt.IsZero() {
		return &ValidationError{Field: "CreatedAt", Message: "created time is required"}
	}
	return nil
}
