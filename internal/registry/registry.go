package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Registry provides access to the consolidated SQLite document registry.
type Registry struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open creates or opens a Registry at dbPath, creating the parent
// directory and running migrations as needed.
func Open(ctx context.Context, dbPath string) (*Registry, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory; %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database; %w", err)
	}

	// Serialize access to avoid SQLite write contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q; %w", pragma, err)
		}
	}

	r := &Registry{db: db, dbPath: dbPath}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations; %w", err)
	}
	return r, nil
}

// DB returns the underlying database connection. Use with care; prefer
// using Registry methods.
func (r *Registry) DB() *sql.DB { return r.db }

// Close closes the database connection.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Close()
}

// Path returns the registry's database file path.
func (r *Registry) Path() string { return r.dbPath }

// Put inserts or updates a document's registry row.
func (r *Registry) Put(ctx context.Context, doc Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (doc_id, filename, partition, ingested_at, chunk_count, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			filename = excluded.filename,
			partition = excluded.partition,
			ingested_at = excluded.ingested_at,
			chunk_count = excluded.chunk_count,
			status = excluded.status
	`, doc.DocID, doc.Filename, doc.Partition, doc.IngestedAt, doc.ChunkCount, doc.Status)
	if err != nil {
		return fmt.Errorf("failed to upsert document; %w", err)
	}
	return nil
}

// Get returns the registry row for docID, or nil if it is not registered.
func (r *Registry) Get(ctx context.Context, docID string) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var d Document
	err := r.db.QueryRowContext(ctx,
		`SELECT doc_id, filename, partition, ingested_at, chunk_count, status
		 FROM documents WHERE doc_id = ?`, docID,
	).Scan(&d.DocID, &d.Filename, &d.Partition, &d.IngestedAt, &d.ChunkCount, &d.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document; %w", err)
	}
	return &d, nil
}

// List returns every registered document, most recently ingested first.
func (r *Registry) List(ctx context.Context) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx,
		`SELECT doc_id, filename, partition, ingested_at, chunk_count, status
		 FROM documents ORDER BY ingested_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents; %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.DocID, &d.Filename, &d.Partition, &d.IngestedAt, &d.ChunkCount, &d.Status); err != nil {
			return nil, fmt.Errorf("failed to scan document row; %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Delete removes docID's registry row.
func (r *Registry) Delete(ctx context.Context, docID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("failed to delete document; %w", err)
	}
	return nil
}

// Clear removes every row, used by the nuclear reset operation.
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `DELETE FROM documents`)
	if err != nil {
		return fmt.Errorf("failed to clear documents; %w", err)
	}
	return nil
}

// Count returns the number of registered documents.
func (r *Registry) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents; %w", err)
	}
	return n, nil
}
