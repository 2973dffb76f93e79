// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
)

func TestRemoveEnglishPrefixesAndSuffixes(t *testing.T) {
	cases := map[string]string{
		"Mount Hobson":  "Hobson",
		"Hobson Peak":   "Hobson",
		"Saint Arnaud":  "Arnaud",
		"Kakepuku Hill": "Kakepuku",
		"Te Aroha":      "Te Aroha",
		"View Mountain": "View",
		"St Bathans":    "Bathans",
	}

	for input, want := range cases {
		assert.Equal(t, want, removeEnglishPrefixesAndSuffixes(input), input)
	}
}

func snapshotWithRefs(refs ...string) *osm.Snapshot {
	byRef := map[string]*osm.Feature{}
	for i, ref := range refs {
		byRef[ref] = &osm.Feature{Type: osm.Node, ID: int64(i + 1), Tags: osm.Tags{osm.RefTag: ref}}
	}

	return &osm.Snapshot{ByRef: byRef}
}

func TestApplyCustomMergesTrivial(t *testing.T) {
	places := gazetteer.Set{
		"1": {Name: "Mount Hobson", Type: "Hill", Lat: -36.8, Lng: 174.8, AltNames: []string{"Ōhinerau"}},
		"2": {Name: "Hobson Peak", Type: "Hill", Lat: -36.81, Lng: 174.8, OldNames: []string{"Remuera Hill"}},
	}

	merged, warnings := ApplyCustomMerges(places, snapshotWithRefs("1;2"))

	assert.Empty(t, warnings)
	require.NotNil(t, merged["1;2"])
	assert.Nil(t, merged["1"])
	assert.Nil(t, merged["2"])

	combined := merged["1;2"]
	assert.Equal(t, "Mount Hobson", combined.Name)
	assert.Equal(t, []string{"Ōhinerau"}, combined.AltNames)
	assert.Equal(t, []string{"Remuera Hill"}, combined.OldNames)

	// the input is left untouched
	assert.NotNil(t, places["1"])
	assert.NotNil(t, places["2"])
}

func TestApplyCustomMergesDifferentNames(t *testing.T) {
	places := gazetteer.Set{
		"1": {Name: "Whareroa Stream", Type: "Locality", Lat: -38, Lng: 175},
		"2": {Name: "Te Puna o Whareroa", Type: "Locality", Lat: -38.001, Lng: 175, Official: true},
	}

	merged, warnings := ApplyCustomMerges(places, snapshotWithRefs("1;2"))

	require.NotNil(t, merged["1;2"])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Te Puna o Whareroa")

	// the official entry wins and the other name is preserved
	combined := merged["1;2"]
	assert.Equal(t, "Te Puna o Whareroa", combined.Name)
	assert.Equal(t, []string{"Whareroa Stream"}, combined.OldNames)
}

func TestApplyCustomMergesDistanceGuard(t *testing.T) {
	// same stripped name, 500km apart: never merged
	places := gazetteer.Set{
		"1": {Name: "Mount Misery", Type: "Hill", Lat: -36.8, Lng: 174.8},
		"2": {Name: "Misery Peak", Type: "Hill", Lat: -41.3, Lng: 174.8},
	}

	merged, warnings := ApplyCustomMerges(places, snapshotWithRefs("1;2"))

	assert.Nil(t, merged["1;2"])
	assert.NotNil(t, merged["1"])
	assert.NotNil(t, merged["2"])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "too far apart")
}

func TestApplyCustomMergesInvalidRefs(t *testing.T) {
	places := gazetteer.Set{
		"1": {Name: "Karekare", Type: "Locality", Lat: -37, Lng: 174.5},
	}

	merged, warnings := ApplyCustomMerges(places, snapshotWithRefs("1;999"))

	assert.Nil(t, merged["1;999"])
	assert.NotNil(t, merged["1"])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "invalid refs: 1;999")
	assert.Contains(t, warnings[0], "expected 1")
}

func TestApplyCustomMergesSuggestsKnownComposites(t *testing.T) {
	places := gazetteer.Set{
		"3;4": {Name: "Takarunga / Mount Victoria", Type: "Hill", Lat: -36.8, Lng: 174.8},
	}

	_, warnings := ApplyCustomMerges(places, snapshotWithRefs("3;5"))

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "none of these refs exist: 3;5")
	assert.Contains(t, warnings[0], "did you mean 3;4?")
}

func TestApplyCustomMergesIdempotent(t *testing.T) {
	places := gazetteer.Set{
		"1": {Name: "Mount Hobson", Type: "Hill", Lat: -36.8, Lng: 174.8},
		"2": {Name: "Hobson Peak", Type: "Hill", Lat: -36.81, Lng: 174.8},
	}
	snapshot := snapshotWithRefs("1;2")

	once, _ := ApplyCustomMerges(places, snapshot)
	twice, _ := ApplyCustomMerges(once, snapshot)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pass changed the dataset (-once +twice):\n%s", diff)
	}
}
