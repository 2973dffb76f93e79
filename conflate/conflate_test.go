// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
	"github.com/osm-nz/placenames/spatial"
	"github.com/osm-nz/placenames/wikidata"
)

func abyssalPlainFeature(id int64, ref, name string) *osm.Feature {
	return &osm.Feature{
		Type:   osm.Node,
		ID:     id,
		Center: &spatial.Point{Lat: -40, Lng: 178},
		Tags: osm.Tags{
			osm.RefTag:                  ref,
			"name":                      name,
			"seamark:type":              "sea_area",
			"seamark:sea_area:category": "abyssal_plain",
		},
	}
}

func TestRunVerdicts(t *testing.T) {
	places := gazetteer.Set{
		// okay: matches exactly
		"1": {Name: "Kupe Abyssal Plain", Type: "Abyssal Plain", Lat: -40, Lng: 178},
		// edit: name typo in OSM
		"2": {Name: "Aotea Abyssal Plain", Type: "Abyssal Plain", Lat: -40, Lng: 178},
		// add: not mapped at all
		"3": {Name: "Tasman Abyssal Plain", Type: "Abyssal Plain", Lat: -40, Lng: 178},
	}

	snapshot := &osm.Snapshot{ByRef: map[string]*osm.Feature{
		"1": abyssalPlainFeature(1, "1", "Kupe Abyssal Plain"),
		"2": abyssalPlainFeature(2, "2", "Aotea Abyssal Plan"),
	}}

	output, err := Run(context.Background(), places, snapshot, wikidata.Snapshot{}, Options{})
	require.NoError(t, err)

	require.NotNil(t, output.Stats["Abyssal Plain"])
	assert.Equal(t, 1, output.Stats["Abyssal Plain"].OkayCount)
	assert.Equal(t, 1, output.Stats["Abyssal Plain"].EditCount)
	assert.Equal(t, 1, output.Stats["Abyssal Plain"].AddCount)

	require.Len(t, output.Features, 2)

	// deterministic order: refs are processed sorted
	edit, add := output.Features[0], output.Features[1]
	assert.Equal(t, "n2", edit.ID)
	assert.Equal(t, "Aotea Abyssal Plain", edit.Properties["name"])

	assert.Equal(t, "3", add.ID)
	assert.Equal(t, "", add.Properties[ActionKey])
	assert.Equal(t, "Tasman Abyssal Plain", add.Properties["name"])
	assert.Equal(t, "sea_area", add.Properties["seamark:type"])
	assert.Equal(t, "3", add.Properties[osm.RefTag])
}

func TestRunSkipsTypesAndAntarctica(t *testing.T) {
	places := gazetteer.Set{
		"1": {Name: "Some Stream", Type: "Stream", Lat: -38, Lng: 175},
		"2": {Name: "Deep Glacier", Type: "Glacier", Lat: -77, Lng: 166},
		"3": {Name: "Fox Glacier", Type: "Glacier", Lat: -43.5, Lng: 170},
	}

	output, err := Run(context.Background(), places, &osm.Snapshot{ByRef: map[string]*osm.Feature{}}, wikidata.Snapshot{}, Options{})
	require.NoError(t, err)

	assert.Nil(t, output.Stats["Stream"])
	require.NotNil(t, output.Stats["Glacier"])
	assert.Equal(t, 1, output.Stats["Glacier"].AddCount)
}

func TestRunUnknownTypeIsFatal(t *testing.T) {
	places := gazetteer.Set{
		"1": {Name: "Mystery", Type: "No Such Type", Lat: -38, Lng: 175},
	}

	_, err := Run(context.Background(), places, &osm.Snapshot{ByRef: map[string]*osm.Feature{}}, wikidata.Snapshot{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog entry")
}

func TestRunIgnoreList(t *testing.T) {
	places := gazetteer.Set{
		"1": {Name: "Kupe Abyssal Plain", Type: "Abyssal Plain", Lat: -40, Lng: 178},
	}

	output, err := Run(context.Background(), places,
		&osm.Snapshot{ByRef: map[string]*osm.Feature{}}, wikidata.Snapshot{},
		Options{Config: &Config{Ignore: map[string]string{"1": "disputed"}}})
	require.NoError(t, err)

	assert.Empty(t, output.Features)
	assert.Nil(t, output.Stats["Abyssal Plain"])
}

func TestRunFindsFeatureByOldRef(t *testing.T) {
	places := gazetteer.Set{
		"2": {Name: "Kupe Abyssal Plain", Type: "Abyssal Plain", Lat: -40, Lng: 178, OldRefs: []int{7}},
	}

	snapshot := &osm.Snapshot{ByRef: map[string]*osm.Feature{
		"7": abyssalPlainFeature(1, "7", "Kupe Abyssal Plain"),
	}}

	output, err := Run(context.Background(), places, snapshot, wikidata.Snapshot{}, Options{})
	require.NoError(t, err)

	// found via the historical ref, so the verdict is edit (fixing the
	// ref tag) rather than add... but a ref-only fix is trivial
	assert.Equal(t, 0, output.Stats["Abyssal Plain"].AddCount)
	assert.Equal(t, 1, output.Stats["Abyssal Plain"].OkayCount)
}

func TestRunFindsFeatureBySubRef(t *testing.T) {
	places := gazetteer.Set{
		"2;3": {Name: "Kupe Abyssal Plain", Type: "Abyssal Plain", Lat: -40, Lng: 178},
	}

	snapshot := &osm.Snapshot{ByRef: map[string]*osm.Feature{
		"3": abyssalPlainFeature(1, "3", "Kupe Abyssal Plain"),
	}}

	output, err := Run(context.Background(), places, snapshot, wikidata.Snapshot{}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, output.Stats["Abyssal Plain"].AddCount)
}

func TestRunRedirectResolution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), "|")

		fmt.Fprint(w, `{"entities":{`)
		for i, id := range ids {
			if i > 0 {
				fmt.Fprint(w, ",")
			}

			switch id {
			case "Q111":
				// stale tag pointing at a redirect page
				fmt.Fprint(w, `"Q222":{"id":"Q222","redirects":{"from":"Q111","to":"Q222"}}`)
			default:
				// live item: a genuine conflict
				fmt.Fprintf(w, `%q:{"id":%q}`, id, id)
			}
		}
		fmt.Fprint(w, `}}`)
	}))
	defer server.Close()

	places := gazetteer.Set{
		"1": {Name: "Kupe Abyssal Plain", Type: "Abyssal Plain", Lat: -40, Lng: 178},
		"2": {Name: "Aotea Abyssal Plain", Type: "Abyssal Plain", Lat: -41, Lng: 178},
	}

	first := abyssalPlainFeature(1, "1", "Kupe Abyssal Plain")
	first.Tags["wikidata"] = "Q111"
	second := abyssalPlainFeature(2, "2", "Aotea Abyssal Plain")
	second.Tags["wikidata"] = "Q333"

	snapshot := &osm.Snapshot{ByRef: map[string]*osm.Feature{"1": first, "2": second}}

	wiki := wikidata.Snapshot{
		1: {{PlaceRef: 1, QID: "Q222"}},
		2: {{PlaceRef: 2, QID: "Q444"}},
	}

	output, err := Run(context.Background(), places, snapshot, wiki, Options{
		Redirects: wikidata.NewClient(server.URL, "placenames test"),
	})
	require.NoError(t, err)

	// both conflicts abort their feature's edit
	assert.Empty(t, output.Features)
	assert.Equal(t, 2, output.Stats["Abyssal Plain"].OkayCount)

	// the stale tag becomes a supplementary patch
	require.NotNil(t, output.ChildPatches)
	patch := output.ChildPatches["Wikidata Redirects"]
	require.NotNil(t, patch)
	require.Len(t, patch.Features, 1)
	assert.Equal(t, "n1", patch.Features[0].ID)
	assert.Equal(t, osm.Tags{ActionKey: "edit", "wikidata": "Q222"}, patch.Features[0].Properties)

	// the live item remains a warning for human resolution
	require.NotNil(t, output.Warnings)
	require.Len(t, output.Warnings.NonRedirectConflicts, 1)
	assert.Equal(t, "expected Q444 on n2", output.Warnings.NonRedirectConflicts[0])
}

func TestRunNearbyCandidates(t *testing.T) {
	places := gazetteer.Set{
		"1": {Name: "Pūhoi", Type: "Locality", Lat: -36.51, Lng: 174.65},
	}

	snapshot := &osm.Snapshot{
		ByRef: map[string]*osm.Feature{},
		NoRef: []*osm.Feature{{
			Type:   osm.Node,
			ID:     42,
			Center: &spatial.Point{Lat: -36.512, Lng: 174.651},
			Tags:   osm.Tags{"name": "Puhoi", "place": "village"},
		}},
	}

	output, err := Run(context.Background(), places, snapshot, wikidata.Snapshot{}, Options{FindNearby: true})
	require.NoError(t, err)

	assert.Equal(t, 1, output.Stats["Locality"].AddCount)
	require.NotNil(t, output.Warnings)
	require.Len(t, output.Warnings.NearbyCandidates, 1)
	assert.Contains(t, output.Warnings.NearbyCandidates[0], "n42")
}
