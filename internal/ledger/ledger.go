// Package ledger keeps an advisory history of campaign runs in a local
// SQLite file. Completion truth always stays on the filesystem; the ledger
// exists so an operator can ask "what ran, when, and how did it end"
// without trawling logs.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Ledger records campaigns and their per-sweep outcomes.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path and ensures
// the schema exists.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS campaigns (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMP NOT NULL,
	config_path TEXT NOT NULL,
	base_path   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sweeps (
	campaign_id TEXT NOT NULL REFERENCES campaigns(id),
	cell        TEXT NOT NULL,
	region      TEXT NOT NULL,
	jobs        INTEGER NOT NULL,
	state       TEXT NOT NULL,
	attempts    INTEGER NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sweeps_campaign ON sweeps(campaign_id);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("initializing ledger schema: %w", err)
	}
	return nil
}

// BeginCampaign records a new campaign run and returns its id.
func (l *Ledger) BeginCampaign(ctx context.Context, configPath, basePath string) (string, error) {
	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO campaigns (id, started_at, config_path, base_path) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC(), configPath, basePath)
	if err != nil {
		return "", fmt.Errorf("recording campaign: %w", err)
	}
	return id, nil
}

// SweepRecord is one row of campaign history.
type SweepRecord struct {
	Cell     string
	Region   string
	Jobs     int
	State    string
	Attempts int
}

// Sweeps returns the recorded sweeps of a campaign in insertion order.
func (l *Ledger) Sweeps(ctx context.Context, campaignID string) ([]SweepRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT cell, region, jobs, state, attempts FROM sweeps WHERE campaign_id = ? ORDER BY rowid`,
		campaignID)
	if err != nil {
		return nil, fmt.Errorf("querying sweeps: %w", err)
	}
	defer rows.Close()

	var records []SweepRecord
	for rows.Next() {
		var r SweepRecord
		if err := rows.Scan(&r.Cell, &r.Region, &r.Jobs, &r.State, &r.Attempts); err != nil {
			return nil, fmt.Errorf("scanning sweep row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecordSweep appends the terminal report of one sweep.
func (l *Ledger) RecordSweep(ctx context.Context, campaignID, cell, region string, jobs, attempts int, state string, started, finished time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO sweeps (campaign_id, cell, region, jobs, state, attempts, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		campaignID, cell, region, jobs, state, attempts, started.UTC(), finished.UTC())
	if err != nil {
		return fmt.Errorf("recording sweep %s/%s: %w", cell, region, err)
	}
	return nil
}
