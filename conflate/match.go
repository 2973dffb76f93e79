// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/uber/h3-go/v4"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
	"github.com/osm-nz/placenames/spatial"
	"github.com/osm-nz/placenames/textutil"
)

// matchDistanceThreshold is how far away (in metres) a same-named
// crowd feature can be and still count as a likely match.
const matchDistanceThreshold = 5000

// matchResolution 6 gives cells of roughly 3 km across, so a cell
// plus its immediate neighbours covers the match threshold.
const matchResolution = 6

var nonWordRe = regexp.MustCompile(`[^\w ]`)

func stripDownName(name string) string {
	name = textutil.Fold(name)
	name = nonWordRe.ReplaceAllString(name, "")
	name = strings.TrimPrefix(name, "mt ")

	return name
}

// Matcher finds likely existing crowd features for places that have no
// ref-tagged match, so that reviewers can link them instead of
// creating duplicates. Candidates are indexed by hexagonal cell to
// avoid scanning the whole unreffed dataset per place.
type Matcher struct {
	cells map[h3.Cell][]*osm.Feature
}

// NewMatcher indexes the unreffed crowd features. Features without a
// name or a centroid can never match and are not indexed.
func NewMatcher(features []*osm.Feature) (*Matcher, error) {
	m := &Matcher{cells: map[h3.Cell][]*osm.Feature{}}

	for _, feature := range features {
		if feature.Tags["name"] == "" || feature.Center == nil {
			continue
		}

		cell, err := h3.LatLngToCell(
			h3.NewLatLng(feature.Center.Lat, feature.Center.Lng), matchResolution)
		if err != nil {
			return nil, fmt.Errorf("indexing %s: %w", feature.OsmID(), err)
		}

		m.cells[cell] = append(m.cells[cell], feature)
	}

	return m, nil
}

// Find returns the most likely existing crowd feature for a place, or
// nil. Matching is by folded name within the distance threshold; when
// several features qualify, the one whose tags best fit the place's
// tagging scheme wins, e.g. natural=bay beats natural=beach when
// looking for a bay.
func (m *Matcher) Find(place *gazetteer.Place, presetTags *PresetTags) (*osm.Feature, error) {
	origin, err := h3.LatLngToCell(h3.NewLatLng(place.Lat, place.Lng), matchResolution)
	if err != nil {
		return nil, fmt.Errorf("locating cell: %w", err)
	}

	disk, err := h3.GridDisk(origin, 2)
	if err != nil {
		return nil, fmt.Errorf("expanding cell: %w", err)
	}

	wanted := stripDownName(place.Name)

	type candidate struct {
		feature  *osm.Feature
		distance float64
	}

	var candidates []candidate
	for _, cell := range disk {
		for _, feature := range m.cells[cell] {
			if stripDownName(feature.Tags["name"]) != wanted {
				continue
			}

			distance := spatial.DistanceBetween(
				place.Lat, place.Lng, feature.Center.Lat, feature.Center.Lng)
			if distance < matchDistanceThreshold {
				candidates = append(candidates, candidate{feature, distance})
			}
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) == 1 {
		return candidates[0].feature, nil
	}

	best := candidates[0]
	bestRank := rankTags(best.feature, presetTags)
	for _, c := range candidates[1:] {
		if rank := rankTags(c.feature, presetTags); rank > bestRank {
			best, bestRank = c, rank
		}
	}

	return best.feature, nil
}

// rankTags scores how well a feature's tags fit a tagging scheme: one
// point per exact tag, half a point for the right key with a
// different value.
func rankTags(feature *osm.Feature, presetTags *PresetTags) float64 {
	var score float64

	for key, value := range presetTags.All {
		switch {
		case feature.Tags[key] == value:
			score++
		case feature.Tags[key] != "":
			score += 0.5
		}
	}

	return score
}
