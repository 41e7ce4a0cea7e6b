package store

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		filename TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL DEFAULT 'incidents',
		row_count INTEGER NOT NULL DEFAULT 0,
		uploaded_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS dataset_incidents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset_id TEXT NOT NULL,
		number TEXT NOT NULL DEFAULT '',
		opened TEXT NOT NULL DEFAULT '',
		short_description TEXT NOT NULL DEFAULT '',
		caller TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		subcategory TEXT NOT NULL DEFAULT '',
		assignment_group TEXT NOT NULL DEFAULT '',
		assigned_to TEXT NOT NULL DEFAULT '',
		updated TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		business_impact TEXT NOT NULL DEFAULT '',
		response_time TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		comments_and_work_notes TEXT NOT NULL DEFAULT '',
		FOREIGN KEY(dataset_id) REFERENCES datasets(id) ON DELETE CASCADE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_dataset_incidents_dataset ON dataset_incidents(dataset_id);`,
	`CREATE INDEX IF NOT EXISTS idx_datasets_uploaded ON datasets(uploaded_at);`,
}

// ApplyMigrations runs the ordered schema statements. Every statement is
// idempotent, so reruns at each startup are safe.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration #%d failed: %w", i+1, err)
		}
	}
	return nil
}
