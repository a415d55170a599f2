package news

import (
	"errors"
	"log/slog"
	"net/http"

	"tech-news-hub/internal/handler/http/respond"
	"tech-news-hub/internal/observability/logging"
	"tech-news-hub/internal/usecase/ingest"
)

// TriggerHandler serves POST /api/fetch-now: it runs one ingestion cycle
// synchronously and reports the outcome. A cycle already in flight is a
// conflict, not a queueing request.
type TriggerHandler struct {
	Svc    *ingest.Service
	Logger *slog.Logger
}

func (h TriggerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	report, err := h.Svc.TryRunCycle(ctx)
	if err != nil {
		if errors.Is(err, ingest.ErrCycleInFlight) {
			respond.SafeError(w, http.StatusConflict, err)
			return
		}
		logger.Error("manual ingestion cycle failed", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("manual ingestion cycle completed",
		slog.Int("inserted", report.Inserted),
		slog.Int64("duplicated", report.Duplicated),
		slog.Int("source_errors", len(report.SourceErrors)))

	respond.JSON(w, http.StatusOK, map[string]string{
		"message": "News fetch completed successfully",
	})
}
