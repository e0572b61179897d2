// Package registry persists run metadata (not simulation state, which
// lives in a checkpoint blob elsewhere) to a local sqlite database, so a
// tetexact server can recover the list of known runs across restarts.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register the pure-Go sqlite driver
)

// Run is one row of run metadata: its id, the model it was built from,
// where its last checkpoint was written, and progress counters.
type Run struct {
	ID              string
	ModelName       string
	CheckpointPath  string
	NSteps          uint64
	SimTime         float64
	CreatedAt       time.Time
	LastUpdatedAt   time.Time
}

// Store is a sqlite-backed registry of Runs, grounded on
// colonystack-colonycore's postgres.Store (internal/infra/persistence/
// postgres/store.go), adapted from a JSONB-snapshot store to a
// plain-columns run-metadata table, since run metadata (unlike Engine
// state) has a small, fixed, and stable shape.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) a sqlite database at path and ensures
// the runs table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite registry: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sqlite registry: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model_name TEXT NOT NULL,
		checkpoint_path TEXT NOT NULL DEFAULT '',
		nsteps INTEGER NOT NULL DEFAULT 0,
		sim_time REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		last_updated_at TEXT NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure runs table: %w", err)
	}
	return nil
}

// DB exposes the underlying sql.DB for integration-test hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Insert registers a new run.
func (s *Store) Insert(ctx context.Context, r Run) error {
	const q = `INSERT INTO runs (id, model_name, checkpoint_path, nsteps, sim_time, created_at, last_updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, r.ID, r.ModelName, r.CheckpointPath, r.NSteps, r.SimTime,
		r.CreatedAt.UTC().Format(time.RFC3339Nano), r.LastUpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// UpdateProgress updates a run's checkpoint path, step count and sim time.
func (s *Store) UpdateProgress(ctx context.Context, id, checkpointPath string, nsteps uint64, simTime float64, at time.Time) error {
	const q = `UPDATE runs SET checkpoint_path = ?, nsteps = ?, sim_time = ?, last_updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, checkpointPath, nsteps, simTime, at.UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("update run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update run %s: no such run", id)
	}
	return nil
}

// Get retrieves one run by id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	const q = `SELECT id, model_name, checkpoint_path, nsteps, sim_time, created_at, last_updated_at FROM runs WHERE id = ?`
	row := s.db.QueryRowContext(ctx, q, id)
	return scanRun(row)
}

// List returns every registered run, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	const q = `SELECT id, model_name, checkpoint_path, nsteps, sim_time, created_at, last_updated_at
		FROM runs ORDER BY last_updated_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a run's metadata row. It does not remove any checkpoint
// file on disk.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var createdAt, updatedAt string
	if err := row.Scan(&r.ID, &r.ModelName, &r.CheckpointPath, &r.NSteps, &r.SimTime, &createdAt, &updatedAt); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	var err error
	r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	r.LastUpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse last_updated_at: %w", err)
	}
	return r, nil
}
