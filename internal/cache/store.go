// Package cache persists workspace schema snapshots so suggestions keep
// working between runs and while offline.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

// ErrNoSnapshot is returned by Latest when a workspace has never been cached.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Snapshot is one persisted schema fetch.
type Snapshot struct {
	ID          string
	WorkspaceID string
	Schema      *kql.Schema
	FetchedAt   time.Time
}

// Age reports how long ago the snapshot was fetched.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates an unopened store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWithDB wraps an existing database connection. The caller owns the
// connection lifecycle and any migrations.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the SQLite database at path, creating parent directories as
// needed. Use ":memory:" for an in-memory store.
func (s *Store) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
		dsn = fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	if path == ":memory:" {
		// An in-memory sqlite database exists per connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping cache database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores a schema snapshot for a workspace, replacing any earlier
// snapshots for the same workspace.
func (s *Store) Save(workspaceID string, schema *kql.Schema) (*Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("cache not opened")
	}
	if schema == nil {
		return nil, fmt.Errorf("nil schema")
	}

	payload, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}

	snap := &Snapshot{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Schema:      schema,
		FetchedAt:   time.Now().UTC(),
	}

	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM schema_snapshots WHERE workspace_id = ?`, workspaceID,
	); err != nil {
		return nil, fmt.Errorf("failed to drop stale snapshots: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_snapshots (id, workspace_id, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.WorkspaceID, string(payload), snap.FetchedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return snap, nil
}

// Latest returns the most recent snapshot for a workspace, or ErrNoSnapshot
// when the workspace has never been cached.
func (s *Store) Latest(workspaceID string) (*Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("cache not opened")
	}

	snap := &Snapshot{}
	var payload string

	err := s.db.QueryRowContext(context.Background(), `
		SELECT id, workspace_id, payload, fetched_at FROM schema_snapshots
		WHERE workspace_id = ?
		ORDER BY fetched_at DESC
		LIMIT 1
	`, workspaceID).Scan(&snap.ID, &snap.WorkspaceID, &payload, &snap.FetchedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	schema := &kql.Schema{}
	if err := json.Unmarshal([]byte(payload), schema); err != nil {
		return nil, fmt.Errorf("failed to decode cached schema: %w", err)
	}
	snap.Schema = schema
	return snap, nil
}

// Purge removes every snapshot for a workspace. An empty workspaceID clears
// the whole store.
func (s *Store) Purge(workspaceID string) error {
	if s.db == nil {
		return fmt.Errorf("cache not opened")
	}

	ctx := context.Background()
	var err error
	if workspaceID == "" {
		_, err = s.db.ExecContext(ctx, `DELETE FROM schema_snapshots`)
	} else {
		_, err = s.db.ExecContext(ctx, `DELETE FROM schema_snapshots WHERE workspace_id = ?`, workspaceID)
	}
	if err != nil {
		return fmt.Errorf("failed to purge snapshots: %w", err)
	}
	return nil
}
