package metrics

import "time"

// RecordCycle records the outcome and breakdown of one ingestion cycle.
// Status should be either "ok" or "error".
func RecordCycle(success bool, duration time.Duration, inserted, duplicated, rejected int64) {
	status := "ok"
	if !success {
		status = "error"
	}
	IngestCyclesTotal.WithLabelValues(status).Inc()
	IngestCycleDuration.Observe(duration.Seconds())

	if inserted > 0 {
		ArticlesInsertedTotal.Add(float64(inserted))
	}
	if duplicated > 0 {
		ArticlesDuplicatedTotal.Add(float64(duplicated))
	}
	if rejected > 0 {
		EntriesRejectedTotal.Add(float64(rejected))
	}
}

// RecordSourceFetch records the time taken to fetch and parse one feed.
func RecordSourceFetch(sourceName string, duration time.Duration) {
	SourceFetchDuration.WithLabelValues(sourceName).Observe(duration.Seconds())
}

// RecordSourceError records a per-source fetch failure.
func RecordSourceError(sourceName string) {
	SourceErrorsTotal.WithLabelValues(sourceName).Inc()
}

// UpdateArticlesTotal updates the total count of articles in the store.
// This gauge should be refreshed after each committed cycle.
func UpdateArticlesTotal(count int) {
	ArticlesTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "list_articles", "insert_batch").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
