// Package observability provides logging and metrics infrastructure.
//
// Subpackages:
//   - logging: structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//
// Example usage:
//
//	import (
//	    "tech-news-hub/internal/observability/logging"
//	    "tech-news-hub/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordSourceError("example-source")
//	}
package observability
