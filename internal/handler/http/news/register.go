package news

import (
	"log/slog"
	"net/http"

	"tech-news-hub/internal/common/pagination"
	artUC "tech-news-hub/internal/usecase/article"
	"tech-news-hub/internal/usecase/ingest"
)

// Register registers the read API routes with the given mux.
func Register(mux *http.ServeMux, artSvc *artUC.Service, ingestSvc *ingest.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /api/news", ListHandler{
		Svc:           artSvc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET /api/sources", SourcesHandler{Svc: artSvc, Logger: logger})
	mux.Handle("GET /api/stats", StatsHandler{Svc: artSvc, Logger: logger})
	mux.Handle("POST /api/fetch-now", TriggerHandler{Svc: ingestSvc, Logger: logger})
}
