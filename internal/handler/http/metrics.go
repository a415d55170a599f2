package http

import (
	"net/http"
	"strconv"
	"time"

	"tech-news-hub/internal/handler/http/responsewriter"
	"tech-news-hub/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// knownPaths is the fixed route set of the API. Anything else is bucketed
// under "other" so probing bots cannot explode label cardinality.
var knownPaths = map[string]struct{}{
	"/api/news":      {},
	"/api/sources":   {},
	"/api/stats":     {},
	"/api/fetch-now": {},
	"/health":        {},
	"/metrics":       {},
}

func normalizePath(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return "other"
}

// MetricsMiddleware records request count, duration, and response size for
// every HTTP request, labeled by method, normalized path, and status.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := responsewriter.Wrap(w)
		path := normalizePath(r.URL.Path)

		start := time.Now()
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)

		status := strconv.Itoa(wrapped.StatusCode())
		metrics.RecordHTTPRequest(r.Method, path, status, duration, wrapped.BytesWritten())
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
