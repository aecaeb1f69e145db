package registry

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database schema migration.
type Migration struct {
	Version     int
	Description string
	Up          string
}

// migrations contains all schema migrations in order.
var migrations = []Migration{
	{
		Version:     1,
		Description: "Create documents table",
		Up: `
			CREATE TABLE IF NOT EXISTS documents (
				doc_id TEXT PRIMARY KEY,
				filename TEXT NOT NULL,
				partition TEXT NOT NULL,
				ingested_at TIMESTAMP NOT NULL,
				chunk_count INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT 'ingested'
			);

			CREATE INDEX IF NOT EXISTS idx_documents_filename ON documents(filename);
			CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
		`,
	},
}

// Migrate runs all pending migrations on the database.
func Migrate(ctx context.Context, db *sql.DB) error {
	// Ensure schema_migrations table exists first
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table; %w", err)
	}

	// Get current version
	currentVersion, err := getCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version; %w", err)
	}

	// Run pending migrations
	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}

		if err := runMigration(ctx, db, m); err != nil {
			return fmt.Errorf("failed to run migration %d (%s); %w", m.Version, m.Description, err)
		}
	}

	return nil
}

// getCurrentVersion returns the highest applied migration version.
func getCurrentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// runMigration executes a single migration within a transaction.
func runMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction; %w", err)
	}
	defer tx.Rollback()

	// Execute the migration
	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return fmt.Errorf("failed to execute migration; %w", err)
	}

	// Record the migration
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
		m.Version, m.Description,
	); err != nil {
		return fmt.Errorf("failed to record migration; %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction; %w", err)
	}

	return nil
}

// GetSchemaVersion returns the current schema version.
func GetSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	return getCurrentVersion(ctx, db)
}
