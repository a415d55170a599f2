package news

import (
	"log/slog"
	"net/http"

	"tech-news-hub/internal/handler/http/respond"
	"tech-news-hub/internal/observability/logging"
	artUC "tech-news-hub/internal/usecase/article"
)

// SourcesHandler serves GET /api/sources: the distinct source names
// present in the store, as a bare JSON array.
type SourcesHandler struct {
	Svc    *artUC.Service
	Logger *slog.Logger
}

func (h SourcesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	names, err := h.Svc.ListSources(ctx)
	if err != nil {
		logger.Error("failed to list sources", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	respond.JSON(w, http.StatusOK, names)
}
