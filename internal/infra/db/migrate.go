package db

import "database/sql"

// Schema notes: content_fingerprint carries the dedup uniqueness
// constraint; the batch insert relies on it as the last line of defense
// against racing cycles. published_at DESC matches the only read ordering.

const postgresSchema = `
CREATE TABLE IF NOT EXISTS articles (
    id                  SERIAL PRIMARY KEY,
    title               VARCHAR(500) NOT NULL,
    summary             TEXT NOT NULL,
    source_url          VARCHAR(1000) NOT NULL,
    source_name         VARCHAR(100) NOT NULL,
    published_at        TIMESTAMPTZ NOT NULL,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    content_fingerprint VARCHAR(64) NOT NULL UNIQUE
)`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS articles (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    title               VARCHAR(500) NOT NULL,
    summary             TEXT NOT NULL,
    source_url          VARCHAR(1000) NOT NULL,
    source_name         VARCHAR(100) NOT NULL,
    published_at        TIMESTAMP NOT NULL,
    created_at          TIMESTAMP NOT NULL,
    content_fingerprint VARCHAR(64) NOT NULL UNIQUE
)`

// MigrateUp creates the articles table and its indexes for the given dialect.
func MigrateUp(database *sql.DB, dialect Dialect) error {
	schema := sqliteSchema
	if dialect == DialectPostgres {
		schema = postgresSchema
	}
	if _, err := database.Exec(schema); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source_name ON articles(source_name)`,
	}
	for _, idx := range indexes {
		if _, err := database.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops the articles table.
// Use with caution: this deletes all stored articles.
func MigrateDown(database *sql.DB) error {
	_, err := database.Exec(`DROP TABLE IF EXISTS articles`)
	return err
}
