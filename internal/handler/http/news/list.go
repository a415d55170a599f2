package news

import (
	"log/slog"
	"net/http"

	"tech-news-hub/internal/common/pagination"
	"tech-news-hub/internal/handler/http/respond"
	"tech-news-hub/internal/observability/logging"
	artUC "tech-news-hub/internal/usecase/article"
)

// listResponse is the /api/news payload: one page of articles with the
// pagination metadata flattened alongside.
type listResponse struct {
	Articles []DTO `json:"articles"`
	pagination.Metadata
}

// ListHandler serves GET /api/news.
type ListHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", slog.Any("error", err))
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	source := r.URL.Query().Get("source")

	result, err := h.Svc.ListPaginated(ctx, source, params)
	if err != nil {
		logger.Error("failed to list articles",
			slog.String("source", source),
			slog.Int("page", params.Page),
			slog.Int("per_page", params.PerPage),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Articles))
	for _, a := range result.Articles {
		dtos = append(dtos, fromEntity(a))
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Articles: dtos,
		Metadata: result.Meta,
	})
}
