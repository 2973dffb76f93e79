// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

// Package report stores conflation runs and serves them to the local
// review frontend.
package report

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/osm-nz/placenames/conflate"
	"github.com/osm-nz/placenames/spatial"
)

// Run is one stored conflation run.
type Run struct {
	ID           int       `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastUpdated  string    `json:"last_updated"`
	FeatureCount int       `json:"feature_count"`
}

// LayerStats is the per-layer verdict breakdown of a run.
type LayerStats struct {
	Layer     string `json:"layer"`
	AddCount  int    `json:"add_count"`
	EditCount int    `json:"edit_count"`
	OkayCount int    `json:"okay_count"`
}

// PatchRow is one stored patch operation, flattened for review
// queries. Properties carries the proposed tag changes as JSON.
type PatchRow struct {
	ID         int           `json:"id"`
	RunID      int           `json:"run_id"`
	OsmID      string        `json:"osm_id"`
	Layer      string        `json:"layer"`
	Ref        string        `json:"ref"`
	Action     string        `json:"action"`
	Location   spatial.Point `json:"location"`
	MetresAway float64       `json:"metres_away,omitempty"`
	Properties string        `json:"properties"`
}

// WarningRow is one stored warning.
type WarningRow struct {
	RunID    int    `json:"run_id"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// PatchFilter narrows ListPatches.
type PatchFilter struct {
	Layer  string
	Action string
	Limit  int
	Offset int
}

// Repository handles the persistence of conflation runs.
type Repository interface {
	CreateSchema() error
	StoreRun(output *conflate.Output) (int, error)
	ListRuns() ([]*Run, error)
	GetStats(runID int) ([]*LayerStats, error)
	ListPatches(runID int, filter PatchFilter) ([]*PatchRow, error)
	ListWarnings(runID int) ([]*WarningRow, error)
	ListLayers(runID int) ([]string, error)
	DB() *sql.DB
}

type sqlReportRepository struct {
	db *sql.DB
}

// NewRepository creates a new run repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlReportRepository{db: db}
}

func (r *sqlReportRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlReportRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return fmt.Errorf("loading spatial extension: %w", err)
	}

	_, err = r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS runs_seq;
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY DEFAULT nextval('runs_seq'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_updated VARCHAR NOT NULL,
			feature_count INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS run_stats (
			run_id INTEGER NOT NULL,
			layer VARCHAR NOT NULL,
			add_count INTEGER NOT NULL,
			edit_count INTEGER NOT NULL,
			okay_count INTEGER NOT NULL
		);

		CREATE SEQUENCE IF NOT EXISTS patches_seq;
		CREATE TABLE IF NOT EXISTS patches (
			id INTEGER PRIMARY KEY DEFAULT nextval('patches_seq'),
			run_id INTEGER NOT NULL,
			osm_id VARCHAR NOT NULL,
			layer VARCHAR NOT NULL,
			ref VARCHAR NOT NULL,
			action VARCHAR NOT NULL,
			location POINT_2D NOT NULL,
			metres_away DOUBLE NOT NULL,
			properties VARCHAR NOT NULL
		);

		CREATE TABLE IF NOT EXISTS run_warnings (
			run_id INTEGER NOT NULL,
			category VARCHAR NOT NULL,
			message VARCHAR NOT NULL
		);
	`)

	return err
}

func (r *sqlReportRepository) StoreRun(output *conflate.Output) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var runID int

	err = tx.QueryRow(`
		INSERT INTO runs (last_updated, feature_count)
		VALUES (?, ?)
		RETURNING id
	`, output.LastUpdated, len(output.Features)).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	statsStmt, err := tx.Prepare(`
		INSERT INTO run_stats (run_id, layer, add_count, edit_count, okay_count)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer statsStmt.Close()

	for layer, stats := range output.Stats {
		if _, err := statsStmt.Exec(runID, string(layer), stats.AddCount, stats.EditCount, stats.OkayCount); err != nil {
			return 0, fmt.Errorf("inserting stats for %s: %w", layer, err)
		}
	}

	patchStmt, err := tx.Prepare(`
		INSERT INTO patches (run_id, osm_id, layer, ref, action, location, metres_away, properties)
		VALUES (?, ?, ?, ?, ?, ST_Point(?, ?), ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer patchStmt.Close()

	for _, feature := range output.Features {
		properties, err := json.Marshal(feature.Properties)
		if err != nil {
			return 0, fmt.Errorf("encoding properties for %s: %w", feature.ID, err)
		}

		action := feature.Action()
		if action == "" {
			action = "add"
		}

		point := targetPoint(feature.Geometry)

		_, err = patchStmt.Exec(runID, feature.ID, string(feature.Layer), feature.Ref,
			action, point.Lng, point.Lat, feature.Geometry.MetresAway, string(properties))
		if err != nil {
			return 0, fmt.Errorf("inserting patch %s: %w", feature.ID, err)
		}
	}

	if output.Warnings != nil {
		warningStmt, err := tx.Prepare(`
			INSERT INTO run_warnings (run_id, category, message)
			VALUES (?, ?, ?)
		`)
		if err != nil {
			return 0, err
		}
		defer warningStmt.Close()

		categories := map[string][]string{
			"custom_merge":          output.Warnings.CustomMerge,
			"non_redirect_conflict": output.Warnings.NonRedirectConflicts,
			"nearby_candidate":      output.Warnings.NearbyCandidates,
		}

		for category, messages := range categories {
			for _, message := range messages {
				if _, err := warningStmt.Exec(runID, category, message); err != nil {
					return 0, fmt.Errorf("inserting warning: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return runID, nil
}

// targetPoint extracts the reviewable location from a patch geometry.
// For relocation lines that is the authoritative end of the line.
func targetPoint(geometry conflate.Geometry) spatial.Point {
	switch coordinates := geometry.Coordinates.(type) {
	case []float64:
		if len(coordinates) == 2 {
			return spatial.Point{Lat: coordinates[1], Lng: coordinates[0]}
		}
	case [][]float64:
		if len(coordinates) == 2 && len(coordinates[1]) == 2 {
			return spatial.Point{Lat: coordinates[1][1], Lng: coordinates[1][0]}
		}
	}

	return spatial.Point{}
}

func (r *sqlReportRepository) ListRuns() ([]*Run, error) {
	rows, err := r.db.Query(`
		SELECT id, created_at, last_updated, feature_count
		FROM runs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run

	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.LastUpdated, &run.FeatureCount); err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *sqlReportRepository) GetStats(runID int) ([]*LayerStats, error) {
	rows, err := r.db.Query(`
		SELECT layer, add_count, edit_count, okay_count
		FROM run_stats
		WHERE run_id = ?
		ORDER BY layer
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*LayerStats

	for rows.Next() {
		s := &LayerStats{}
		if err := rows.Scan(&s.Layer, &s.AddCount, &s.EditCount, &s.OkayCount); err != nil {
			return nil, err
		}

		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func (r *sqlReportRepository) ListPatches(runID int, filter PatchFilter) ([]*PatchRow, error) {
	query := `
		SELECT id, run_id, osm_id, layer, ref, action, location, metres_away, properties
		FROM patches
		WHERE run_id = ?
	`
	args := []any{runID}

	if filter.Layer != "" {
		query += " AND layer = ?"
		args = append(args, filter.Layer)
	}

	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, filter.Action)
	}

	query += " ORDER BY id"

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patches []*PatchRow

	for rows.Next() {
		p := &PatchRow{}
		err := rows.Scan(&p.ID, &p.RunID, &p.OsmID, &p.Layer, &p.Ref, &p.Action,
			&p.Location, &p.MetresAway, &p.Properties)
		if err != nil {
			return nil, err
		}

		patches = append(patches, p)
	}

	return patches, rows.Err()
}

func (r *sqlReportRepository) ListWarnings(runID int) ([]*WarningRow, error) {
	rows, err := r.db.Query(`
		SELECT run_id, category, message
		FROM run_warnings
		WHERE run_id = ?
		ORDER BY category, message
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []*WarningRow

	for rows.Next() {
		w := &WarningRow{}
		if err := rows.Scan(&w.RunID, &w.Category, &w.Message); err != nil {
			return nil, err
		}

		warnings = append(warnings, w)
	}

	return warnings, rows.Err()
}

func (r *sqlReportRepository) ListLayers(runID int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT layer
		FROM patches
		WHERE run_id = ?
		ORDER BY layer
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var layers []string

	for rows.Next() {
		var layer string
		if err := rows.Scan(&layer); err != nil {
			return nil, err
		}

		layers = append(layers, layer)
	}

	return layers, rows.Err()
}
