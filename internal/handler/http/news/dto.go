// Package news provides HTTP handlers for the read API: the paginated
// article listing, source names, aggregate stats, and the manual
// ingestion trigger.
package news

import (
	"time"

	"tech-news-hub/internal/domain/entity"
)

// DTO represents the JSON structure for article data transfer.
type DTO struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	SourceURL     string    `json:"source_url"`
	SourceName    string    `json:"source_name"`
	PublishedTime time.Time `json:"published_time"`
	CreatedAt     time.Time `json:"created_at"`
}

// fromEntity converts a domain article into its wire representation.
func fromEntity(a *entity.Article) DTO {
	return DTO{
		ID:            a.ID,
		Title:         a.Title,
		Summary:       a.Summary,
		SourceURL:     a.SourceURL,
		SourceName:    a.SourceName,
		PublishedTime: a.PublishedAt,
		CreatedAt:     a.CreatedAt,
	}
}
