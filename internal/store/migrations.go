package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id              TEXT NOT NULL UNIQUE,
			taken_at            TEXT NOT NULL,
			version             TEXT NOT NULL,
			items_source        TEXT NOT NULL,
			snippets_source     TEXT NOT NULL,
			items               INTEGER NOT NULL,
			candidates          INTEGER NOT NULL,
			skipped_items       INTEGER NOT NULL,
			skipped_candidates  INTEGER NOT NULL,
			total_correlations  INTEGER NOT NULL,
			high_priority       INTEGER NOT NULL,
			avg_score           REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS correlations (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank              INTEGER NOT NULL,
			work_item_id      TEXT NOT NULL,
			work_item_title   TEXT NOT NULL,
			candidate_id      TEXT NOT NULL,
			category          TEXT NOT NULL,
			semantic_score    REAL NOT NULL,
			automation_score  REAL NOT NULL,
			business_score    REAL NOT NULL,
			final_score       REAL NOT NULL,
			weighted_priority REAL NOT NULL,
			priority          TEXT NOT NULL,
			roi               TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS category_stats (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			category      TEXT NOT NULL,
			count         INTEGER NOT NULL,
			average_score REAL NOT NULL,
			total_score   REAL NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_correlations_run ON correlations(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_correlations_pair ON correlations(work_item_id, candidate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_category_stats_run ON category_stats(run_id)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	// Set schema version.
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
