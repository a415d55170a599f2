package news

import (
	"log/slog"
	"net/http"
	"time"

	"tech-news-hub/internal/handler/http/respond"
	"tech-news-hub/internal/observability/logging"
	"tech-news-hub/internal/observability/metrics"
	artUC "tech-news-hub/internal/usecase/article"
)

// statsResponse is the /api/stats payload. LatestUpdate is null until the
// first article lands.
type statsResponse struct {
	TotalArticles   int64   `json:"total_articles"`
	SourcesCount    int64   `json:"sources_count"`
	LatestUpdate    *string `json:"latest_update"`
	UpdateFrequency string  `json:"update_frequency"`
}

// StatsHandler serves GET /api/stats.
type StatsHandler struct {
	Svc    *artUC.Service
	Logger *slog.Logger
}

func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	stats, err := h.Svc.GetStats(ctx)
	if err != nil {
		logger.Error("failed to get stats", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.UpdateArticlesTotal(int(stats.TotalArticles))

	var latest *string
	if stats.LatestUpdate != nil {
		formatted := stats.LatestUpdate.UTC().Format(time.RFC3339)
		latest = &formatted
	}

	respond.JSON(w, http.StatusOK, statsResponse{
		TotalArticles:   stats.TotalArticles,
		SourcesCount:    stats.SourcesCount,
		LatestUpdate:    latest,
		UpdateFrequency: stats.UpdateFrequency,
	})
}
