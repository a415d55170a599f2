package http

import (
	"net/http"
	"time"

	"tech-news-hub/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`    // always "healthy" while the process serves
	Timestamp string `json:"timestamp"` // ISO 8601 format
}

// HealthHandler handles the liveness endpoint. It reports process liveness
// only and never consults the store or the ingestion pipeline: a degraded
// database must not make the orchestrator restart a healthy process.
type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
