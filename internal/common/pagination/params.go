package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page    int // 1-based page number
	PerPage int // Items per page
}

// ParseQueryParams parses pagination parameters from an HTTP request query
// string. Missing parameters fall back to the configured defaults.
//
// Query parameters:
//   - page: Page number (must be a positive integer)
//   - per_page: Items per page (must be between 1 and config.MaxPerPage)
//
// Returns an error if a provided parameter is malformed or out of range.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Page:    config.DefaultPage,
		PerPage: config.DefaultPerPage,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		params.Page = page
	}

	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		perPage, err := strconv.Atoi(perPageStr)
		if err != nil || perPage < 1 || perPage > config.MaxPerPage {
			return params, fmt.Errorf("invalid query parameter: per_page must be between 1 and %d", config.MaxPerPage)
		}
		params.PerPage = perPage
	}

	return params, nil
}

// Validate validates pagination parameters against the configuration.
// Returns an error if:
//   - page is less than 1
//   - per_page is less than 1 or greater than config.MaxPerPage
func (p Params) Validate(config Config) error {
	if p.Page < 1 {
		return fmt.Errorf("page must be a positive integer")
	}
	if p.PerPage < 1 || p.PerPage > config.MaxPerPage {
		return fmt.Errorf("per_page must be between 1 and %d", config.MaxPerPage)
	}
	return nil
}

// WithDefaults applies default values from config to Params.
//
// Rules:
//   - If page <= 0, set to config.DefaultPage
//   - If per_page <= 0, set to config.DefaultPerPage
//   - If per_page > config.MaxPerPage, cap to config.MaxPerPage
func (p Params) WithDefaults(config Config) Params {
	if p.Page <= 0 {
		p.Page = config.DefaultPage
	}
	if p.PerPage <= 0 {
		p.PerPage = config.DefaultPerPage
	}
	if p.PerPage > config.MaxPerPage {
		p.PerPage = config.MaxPerPage
	}
	return p
}
