// Command api runs the news aggregation service: it ingests configured RSS
// feeds on a fixed schedule and serves the read API over HTTP.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tech-news-hub/internal/common/pagination"
	hhttp "tech-news-hub/internal/handler/http"
	hnews "tech-news-hub/internal/handler/http/news"
	"tech-news-hub/internal/handler/http/requestid"
	pgRepo "tech-news-hub/internal/infra/adapter/persistence/postgres"
	sqliteRepo "tech-news-hub/internal/infra/adapter/persistence/sqlite"
	"tech-news-hub/internal/infra/db"
	"tech-news-hub/internal/infra/scheduler"
	"tech-news-hub/internal/infra/scraper"
	"tech-news-hub/internal/observability/logging"
	"tech-news-hub/internal/observability/metrics"
	"tech-news-hub/internal/registry"
	"tech-news-hub/internal/repository"
	artUC "tech-news-hub/internal/usecase/article"
	"tech-news-hub/internal/usecase/ingest"
)

const (
	defaultPort = "5000"

	// fetchClientTimeout bounds one HTTP request to a feed publisher.
	fetchClientTimeout = 30 * time.Second

	// initialCycleTimeout bounds the synchronous first fill of an empty store.
	initialCycleTimeout = 5 * time.Minute
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database, dialect, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	if err := db.MigrateUp(database, dialect); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	sources, err := registry.Load()
	if err != nil {
		logger.Error("failed to load source registry", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("source registry loaded", slog.Int("sources", len(sources)))

	repo := newArticleRepo(database, dialect)

	stopPoolStats := reportPoolStats(database)
	defer stopPoolStats()

	fetcher := scraper.NewRSSFetcher(&http.Client{Timeout: fetchClientTimeout})
	ingestSvc := ingest.NewService(sources, repo, fetcher, logger)
	artSvc := &artUC.Service{Repo: repo}

	runInitialCycle(logger, ingestSvc, repo)

	sched, err := scheduler.New(ingestSvc, logger)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	handler := setupServer(logger, artSvc, ingestSvc)
	runServer(logger, handler)
}

// newArticleRepo selects the repository implementation matching the store
// the DSN resolved to.
func newArticleRepo(database *sql.DB, dialect db.Dialect) repository.ArticleRepository {
	if dialect == db.DialectPostgres {
		return pgRepo.NewArticleRepo(database)
	}
	return sqliteRepo.NewArticleRepo(database)
}

// reportPoolStats samples the connection pool gauges until the returned
// stop function is called.
func reportPoolStats(database *sql.DB) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				stats := database.Stats()
				metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
			}
		}
	}()
	return func() { close(done) }
}

// runInitialCycle fills an empty store synchronously before the server
// starts, so the first reader does not see an empty API for three hours.
// A failed initial cycle is logged and the server starts anyway; the
// scheduler retries on its own cadence.
func runInitialCycle(logger *slog.Logger, ingestSvc *ingest.Service, repo repository.ArticleRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), initialCycleTimeout)
	defer cancel()

	count, err := repo.CountArticles(ctx, "")
	if err != nil {
		logger.Error("failed to count articles, skipping initial fetch", slog.Any("error", err))
		return
	}
	if count > 0 {
		return
	}

	logger.Info("store is empty, running initial ingestion cycle")
	report, err := ingestSvc.RunCycle(ctx)
	if err != nil {
		logger.Error("initial ingestion cycle failed", slog.Any("error", err))
		return
	}
	logger.Info("initial ingestion cycle completed",
		slog.Int("inserted", report.Inserted),
		slog.Int("source_errors", len(report.SourceErrors)))
}

// setupServer wires routes and the middleware chain.
func setupServer(logger *slog.Logger, artSvc *artUC.Service, ingestSvc *ingest.Service) http.Handler {
	paginationCfg := pagination.LoadFromEnv()

	mux := http.NewServeMux()
	mux.Handle("GET /health", hhttp.HealthHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	hnews.Register(mux, artSvc, ingestSvc, paginationCfg, logger)

	// Applied in reverse order: CORS and request ID wrap everything,
	// metrics records what the inner handlers actually returned.
	var handler http.Handler = mux
	handler = hhttp.MetricsMiddleware(handler)
	handler = hhttp.LimitRequestBody(1 << 20)(handler)
	handler = hhttp.Logging(logger)(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = requestid.Middleware(handler)
	handler = hhttp.CORS()(handler)

	return handler
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
