package pagination

// Metadata contains pagination metadata included in API responses.
// Field names follow the read API's wire format, where the metadata is
// flattened alongside the page items rather than nested.
type Metadata struct {
	Total       int64 `json:"total"`        // Total number of items across all pages
	Pages       int   `json:"pages"`        // Total number of pages
	CurrentPage int   `json:"current_page"` // Current page number (1-based)
	HasNext     bool  `json:"has_next"`     // A later page exists
	HasPrev     bool  `json:"has_prev"`     // An earlier page exists
}

// NewMetadata builds response metadata for the given parameters and total
// item count.
func NewMetadata(params Params, total int64) Metadata {
	pages := CalculateTotalPages(total, params.PerPage)
	return Metadata{
		Total:       total,
		Pages:       pages,
		CurrentPage: params.Page,
		HasNext:     params.Page < pages,
		HasPrev:     params.Page > 1,
	}
}
