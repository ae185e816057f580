// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

// Package registry persists the instrument dimension records (instrument,
// detectors, physical filters) and the ingested reference catalogues in a
// SQLite database. Registration is a sync: re-running it updates rows in
// place, so the config is always the authority.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/astrohuntsman/obs-huntsman/pkg/types"
)

const dbFile = "registry.db"

// Store manages the registry SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the registry database at root/registry.db and
// creates the schema if it does not exist.
func Open(cfg types.RegistryConfig) (*Store, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}

	dbPath := filepath.Join(root, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS instrument (
			name TEXT PRIMARY KEY,
			detector_max INTEGER NOT NULL,
			visit_max INTEGER NOT NULL,
			exposure_max INTEGER NOT NULL,
			class_name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS detector (
			instrument TEXT NOT NULL REFERENCES instrument(name),
			id INTEGER NOT NULL,
			full_name TEXT NOT NULL,
			serial TEXT NOT NULL,
			purpose TEXT,
			PRIMARY KEY (instrument, id)
		)`,
		`CREATE TABLE IF NOT EXISTS physical_filter (
			instrument TEXT NOT NULL REFERENCES instrument(name),
			name TEXT NOT NULL,
			band TEXT NOT NULL,
			lambda_eff REAL,
			lambda_min REAL,
			lambda_max REAL,
			PRIMARY KEY (instrument, name)
		)`,
		`CREATE TABLE IF NOT EXISTS refcat (
			name TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			depth INTEGER NOT NULL,
			n_sources INTEGER NOT NULL,
			ingested_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_detector_serial ON detector(serial)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RegisterInstrument syncs the instrument row, every detector, and every
// filter definition in one transaction. Partial registration never persists.
func (s *Store) RegisterInstrument(ctx context.Context, name string, maxExposureID int64, dets []types.Detector, filters []types.FilterDefinition) error {
	if len(dets) == 0 {
		return fmt.Errorf("registry: no detectors to register")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO instrument (name, detector_max, visit_max, exposure_max, class_name)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			detector_max=excluded.detector_max, visit_max=excluded.visit_max,
			exposure_max=excluded.exposure_max, class_name=excluded.class_name`,
		name, len(dets), maxExposureID, maxExposureID, "obs-huntsman.Camera",
	)
	if err != nil {
		return fmt.Errorf("syncing instrument: %w", err)
	}

	detStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO detector (instrument, id, full_name, serial, purpose)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(instrument, id) DO UPDATE SET
			full_name=excluded.full_name, serial=excluded.serial, purpose=excluded.purpose`)
	if err != nil {
		return fmt.Errorf("preparing detector insert: %w", err)
	}
	defer detStmt.Close()

	for _, d := range dets {
		if _, err := detStmt.ExecContext(ctx, name, d.ID, d.Serial, d.Serial, d.Purpose); err != nil {
			return fmt.Errorf("syncing detector %s: %w", d.Serial, err)
		}
	}

	filtStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO physical_filter (instrument, name, band, lambda_eff, lambda_min, lambda_max)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(instrument, name) DO UPDATE SET
			band=excluded.band, lambda_eff=excluded.lambda_eff,
			lambda_min=excluded.lambda_min, lambda_max=excluded.lambda_max`)
	if err != nil {
		return fmt.Errorf("preparing filter insert: %w", err)
	}
	defer filtStmt.Close()

	for _, f := range filters {
		if _, err := filtStmt.ExecContext(ctx, name, f.PhysicalFilter, f.Band, f.LambdaEff, f.LambdaMin, f.LambdaMax); err != nil {
			return fmt.Errorf("syncing filter %s: %w", f.PhysicalFilter, err)
		}
	}

	return tx.Commit()
}

// RefcatRecord is one registered reference catalogue.
type RefcatRecord struct {
	Name       string
	Path       string
	Depth      int
	NSources   int
	IngestedAt time.Time
}

// RegisterRefcat syncs a catalogue record after ingestion.
func (s *Store) RegisterRefcat(ctx context.Context, meta types.CatalogMeta, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refcat (name, path, depth, n_sources, ingested_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			path=excluded.path, depth=excluded.depth,
			n_sources=excluded.n_sources, ingested_at=excluded.ingested_at`,
		meta.Name, path, meta.Depth, meta.NSources,
		meta.IngestedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("syncing refcat %s: %w", meta.Name, err)
	}
	return nil
}

// ListRefcats returns the registered catalogues ordered by name.
func (s *Store) ListRefcats(ctx context.Context) ([]RefcatRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, path, depth, n_sources, ingested_at FROM refcat ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying refcats: %w", err)
	}
	defer rows.Close()

	var out []RefcatRecord
	for rows.Next() {
		var r RefcatRecord
		var ts string
		if err := rows.Scan(&r.Name, &r.Path, &r.Depth, &r.NSources, &ts); err != nil {
			return nil, fmt.Errorf("scanning refcat row: %w", err)
		}
		r.IngestedAt, _ = time.Parse(time.RFC3339, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Detectors returns the registered detectors for an instrument in ID order.
func (s *Store) Detectors(ctx context.Context, instrument string) ([]types.Detector, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, serial, purpose FROM detector WHERE instrument = ? ORDER BY id`, instrument)
	if err != nil {
		return nil, fmt.Errorf("querying detectors: %w", err)
	}
	defer rows.Close()

	var out []types.Detector
	for rows.Next() {
		var d types.Detector
		if err := rows.Scan(&d.ID, &d.Serial, &d.Purpose); err != nil {
			return nil, fmt.Errorf("scanning detector row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Filters returns the registered filters for an instrument ordered by name.
func (s *Store) Filters(ctx context.Context, instrument string) ([]types.FilterDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, band, lambda_eff, lambda_min, lambda_max
		 FROM physical_filter WHERE instrument = ? ORDER BY name`, instrument)
	if err != nil {
		return nil, fmt.Errorf("querying filters: %w", err)
	}
	defer rows.Close()

	var out []types.FilterDefinition
	for rows.Next() {
		var f types.FilterDefinition
		if err := rows.Scan(&f.PhysicalFilter, &f.Band, &f.LambdaEff, &f.LambdaMin, &f.LambdaMax); err != nil {
			return nil, fmt.Errorf("scanning filter row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
