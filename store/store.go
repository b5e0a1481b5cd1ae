// Package store persists run results in SQLite for later comparison across
// policies and seeds.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/epiflow-xyz/go-epiflow/results"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id          TEXT PRIMARY KEY,
	created_at      TEXT NOT NULL,
	policy          TEXT NOT NULL,
	seed            INTEGER NOT NULL,
	stochastic      INTEGER NOT NULL,
	stop_reason     TEXT NOT NULL,
	periods         INTEGER NOT NULL,
	total_infected  REAL NOT NULL,
	total_deaths    REAL NOT NULL,
	yll             REAL NOT NULL,
	document        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS timeseries (
	run_id       TEXT NOT NULL,
	period       INTEGER NOT NULL,
	compartment  TEXT NOT NULL,
	value        REAL NOT NULL,
	PRIMARY KEY (run_id, period, compartment),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// Store manages run documents in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a run document and its per-period compartment totals.
func (s *Store) SaveRun(r *results.Results) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stochastic := 0
	if r.Metadata.Stochastic {
		stochastic = 1
	}
	if _, err := tx.Exec(`INSERT INTO runs
		(run_id, created_at, policy, seed, stochastic, stop_reason, periods, total_infected, total_deaths, yll, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Metadata.RunID,
		r.Metadata.Timestamp.UTC().Format(time.RFC3339),
		r.Metadata.Policy,
		r.Metadata.Seed,
		stochastic,
		r.Metadata.StopReason,
		r.Results.Summary.Periods,
		r.Results.Summary.TotalInfected,
		r.Results.Summary.TotalDeaths,
		r.Results.Summary.YLL,
		string(doc),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO timeseries (run_id, period, compartment, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare timeseries: %w", err)
	}
	defer stmt.Close()

	ts := r.Results.Timeseries
	for name, series := range ts.Compartments {
		for i, v := range series {
			if _, err := stmt.Exec(r.Metadata.RunID, ts.Periods[i], name, v); err != nil {
				return fmt.Errorf("insert timeseries: %w", err)
			}
		}
	}
	return tx.Commit()
}

// LoadRun retrieves a run document by ID.
func (s *Store) LoadRun(runID string) (*results.Results, error) {
	var doc string
	err := s.db.QueryRow(`SELECT document FROM runs WHERE run_id = ?`, runID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	var r results.Results
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &r, nil
}

// RunSummary is one row of a run listing.
type RunSummary struct {
	RunID         string
	CreatedAt     time.Time
	Policy        string
	Seed          int64
	StopReason    string
	Periods       int
	TotalInfected float64
	TotalDeaths   float64
	YLL           float64
}

// ListRuns returns summaries of all stored runs, newest first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	rows, err := s.db.Query(`SELECT run_id, created_at, policy, seed, stop_reason, periods, total_infected, total_deaths, yll
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var created string
		if err := rows.Scan(&r.RunID, &created, &r.Policy, &r.Seed, &r.StopReason,
			&r.Periods, &r.TotalInfected, &r.TotalDeaths, &r.YLL); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for run %s: %w", r.RunID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
