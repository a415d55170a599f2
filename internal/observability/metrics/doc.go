// Package metrics provides centralized Prometheus metrics for the application.
//
// Metrics are registered with the default registry via promauto and exposed
// on the /metrics endpoint. They cover three areas:
//
//   - HTTP: request counts, latency, and payload sizes per route
//   - Ingestion: cycle outcomes, per-source fetch errors, and the
//     inserted/duplicated/rejected breakdown of each cycle
//   - Database: query latency and connection pool state
//
// Helper functions in business.go wrap the raw collectors so call sites
// stay free of label bookkeeping.
package metrics
