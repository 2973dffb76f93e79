// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osm-nz/placenames/conflate"
	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
)

func setupRepository(t *testing.T) (*sql.DB, Repository) {
	t.Helper()

	db, err := sql.Open("duckdb", "") // In-memory database
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.CreateSchema())

	return db, repo
}

func sampleOutput() *conflate.Output {
	return &conflate.Output{
		Type:        "FeatureCollection",
		LastUpdated: "2026-08-28T00:00:00Z",
		Stats: map[gazetteer.NameType]*conflate.Stats{
			"Bay":  {AddCount: 1, EditCount: 1, OkayCount: 5},
			"Hill": {OkayCount: 2},
		},
		Features: []*conflate.PatchFeature{
			{
				Type:       "Feature",
				ID:         "26242",
				Geometry:   conflate.PointGeometry(174.8, -36.8),
				Properties: osm.Tags{"name": "Shelly Bay", "natural": "bay"},
				Layer:      "Bay",
				Ref:        "26242",
			},
			{
				Type:       "Feature",
				ID:         "n12345",
				Geometry:   conflate.LineGeometry(174.0, -41.0, 174.0, -41.1, 11120),
				Properties: osm.Tags{conflate.ActionKey: "move", "name": "Shelly Bay"},
				Layer:      "Bay",
				Ref:        "31",
			},
		},
		Warnings: &conflate.Warnings{
			CustomMerge: []string{"accepting \"A\" over \"B\""},
		},
	}
}

func TestStoreRunRoundTrip(t *testing.T) {
	db, repo := setupRepository(t)
	defer db.Close()

	runID, err := repo.StoreRun(sampleOutput())
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := repo.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, 2, runs[0].FeatureCount)

	stats, err := repo.GetStats(runID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Bay", stats[0].Layer)
	assert.Equal(t, 1, stats[0].AddCount)
	assert.Equal(t, 5, stats[0].OkayCount)

	warnings, err := repo.ListWarnings(runID)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "custom_merge", warnings[0].Category)

	layers, err := repo.ListLayers(runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bay"}, layers)
}

func TestListPatchesFilters(t *testing.T) {
	db, repo := setupRepository(t)
	defer db.Close()

	runID, err := repo.StoreRun(sampleOutput())
	require.NoError(t, err)

	all, err := repo.ListPatches(runID, PatchFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	// a feature without an action marker is an add
	assert.Equal(t, "add", all[0].Action)
	assert.InDelta(t, -36.8, all[0].Location.Lat, 1e-9)
	assert.InDelta(t, 174.8, all[0].Location.Lng, 1e-9)
	assert.Contains(t, all[0].Properties, `"natural":"bay"`)

	// moves store the authoritative end of the line
	assert.Equal(t, "move", all[1].Action)
	assert.InDelta(t, -41.1, all[1].Location.Lat, 1e-9)
	assert.InDelta(t, 174.0, all[1].Location.Lng, 1e-9)
	assert.InDelta(t, 11120, all[1].MetresAway, 1e-9)

	moves, err := repo.ListPatches(runID, PatchFilter{Action: "move"})
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "n12345", moves[0].OsmID)

	none, err := repo.ListPatches(runID, PatchFilter{Layer: "Hill"})
	require.NoError(t, err)
	assert.Empty(t, none)

	limited, err := repo.ListPatches(runID, PatchFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "n12345", limited[0].OsmID)
}
