// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
	"github.com/osm-nz/placenames/spatial"
)

func namedFeature(id int64, name string, lat, lng float64, tags osm.Tags) *osm.Feature {
	if tags == nil {
		tags = osm.Tags{}
	}
	tags["name"] = name

	return &osm.Feature{Type: osm.Node, ID: id, Center: &spatial.Point{Lat: lat, Lng: lng}, Tags: tags}
}

func TestMatcherFindsByFoldedName(t *testing.T) {
	matcher, err := NewMatcher([]*osm.Feature{
		namedFeature(1, "Pūhoi", -36.512, 174.651, nil),
		namedFeature(2, "Warkworth", -36.4, 174.66, nil),
	})
	require.NoError(t, err)

	place := &gazetteer.Place{Name: "Puhoi", Type: "Locality", Lat: -36.51, Lng: 174.65}
	presetTags, err := DefaultCatalog.PresetTags(place)
	require.NoError(t, err)

	found, err := matcher.Find(place, presetTags)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "n1", found.OsmID())
}

func TestMatcherPrefersBetterTagging(t *testing.T) {
	matcher, err := NewMatcher([]*osm.Feature{
		namedFeature(1, "Shelly Bay", -41.001, 174.001, osm.Tags{"natural": "beach"}),
		namedFeature(2, "Shelly Bay", -41.002, 174.002, osm.Tags{"natural": "bay"}),
	})
	require.NoError(t, err)

	place := &gazetteer.Place{Name: "Shelly Bay", Type: "Bay", Lat: -41, Lng: 174}
	presetTags, err := DefaultCatalog.PresetTags(place)
	require.NoError(t, err)

	// the closer feature is a beach; the bay wins on tags
	found, err := matcher.Find(place, presetTags)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "n2", found.OsmID())
}

func TestMatcherIgnoresDistantFeatures(t *testing.T) {
	matcher, err := NewMatcher([]*osm.Feature{
		namedFeature(1, "Puhoi", -37.5, 174.65, nil), // 100km south
	})
	require.NoError(t, err)

	place := &gazetteer.Place{Name: "Puhoi", Type: "Locality", Lat: -36.51, Lng: 174.65}
	presetTags, err := DefaultCatalog.PresetTags(place)
	require.NoError(t, err)

	found, err := matcher.Find(place, presetTags)
	require.NoError(t, err)
	assert.Nil(t, found)
}
