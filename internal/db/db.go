// Package db provides PostgreSQL storage for the job status document.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/job-outreach/internal/store"
)

// DefaultDocument is the document name used when none is configured.
const DefaultDocument = "job_status"

const schemaSQL = `CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	content    JSON NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the documents table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// Documents returns a store backend bound to the named document.
func (db *DB) Documents(name string) *DocumentStore {
	if name == "" {
		name = DefaultDocument
	}
	return &DocumentStore{db: db, Name: name}
}

// DocumentStore keeps the whole job status document in a single row.
// The column is JSON rather than JSONB so the stored text, and with it the
// order of jobs, comes back exactly as written.
type DocumentStore struct {
	db   *DB
	Name string
}

var _ store.Backend = (*DocumentStore)(nil)

// Read implements store.Backend.
func (d *DocumentStore) Read(ctx context.Context) ([]byte, error) {
	var content []byte
	err := d.db.pool.QueryRow(ctx,
		`SELECT content FROM documents WHERE name = $1`,
		d.Name,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNoDocument
		}
		return nil, fmt.Errorf("failed to read document %s: %w", d.Name, err)
	}
	return content, nil
}

// Write implements store.Backend. The row is replaced in a single statement.
func (d *DocumentStore) Write(ctx context.Context, data []byte) error {
	_, err := d.db.pool.Exec(ctx,
		`INSERT INTO documents (name, content)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET content = $2, updated_at = NOW()`,
		d.Name, data,
	)
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", d.Name, err)
	}
	return nil
}
