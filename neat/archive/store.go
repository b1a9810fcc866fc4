// Package archive persists evolution runs to SQLite so epochs can be
// inspected after the fact. It is an optional attachment; the core never
// depends on it.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"neatevo/neat"
)

// Store records runs and their per-epoch summaries in a SQLite database.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// EpochRecord is one persisted epoch row.
type EpochRecord struct {
	RunID        string
	Generation   int
	Replaced     bool
	EvictedID    int
	NewSpecies   bool
	SpeciesCount int
	BestFitness  float64
	RecordedAt   time.Time
}

// NewStore creates a store for the given database path. Init must be called
// before any other method.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init opens the database and creates the schema.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("archive: database path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// BeginRun registers a new run and returns its id.
func (s *Store) BeginRun(ctx context.Context, label string) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, label, started_at)
		VALUES (?, ?, ?)
	`, runID, label, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("archive: begin run: %w", err)
	}
	return runID, nil
}

// RecordEpoch stores one epoch summary for a run.
func (s *Store) RecordEpoch(ctx context.Context, runID string, stats neat.EpochStats) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO epochs (run_id, generation, replaced, evicted_id, new_species, species_count, best_fitness, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, stats.Generation, stats.Replaced, stats.EvictedID, stats.NewSpecies,
		stats.SpeciesCount, stats.BestFitness, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("archive: record epoch %d: %w", stats.Generation, err)
	}
	return nil
}

// Epochs returns the recorded epochs of a run in generation order.
func (s *Store) Epochs(ctx context.Context, runID string) ([]EpochRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, replaced, evicted_id, new_species, species_count, best_fitness, recorded_at
		FROM epochs
		WHERE run_id = ?
		ORDER BY generation
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("archive: query epochs for run %s: %w", runID, err)
	}
	defer rows.Close()

	var records []EpochRecord
	for rows.Next() {
		rec := EpochRecord{RunID: runID}
		err := rows.Scan(&rec.Generation, &rec.Replaced, &rec.EvictedID,
			&rec.NewSpecies, &rec.SpeciesCount, &rec.BestFitness, &rec.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("archive: scan epoch row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("archive: store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS epochs (
			run_id TEXT NOT NULL REFERENCES runs(id),
			generation INTEGER NOT NULL,
			replaced INTEGER NOT NULL,
			evicted_id INTEGER NOT NULL,
			new_species INTEGER NOT NULL,
			species_count INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			recorded_at TIMESTAMP NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
