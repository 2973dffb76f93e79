// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
)

// ActionKey is the internal property marking what a patch feature does.
const ActionKey = "__action"

// UserAgent identifies this project to external APIs.
const UserAgent = "An OpenStreetMap New Zealand project, contact https://github.com/osm-nz"

// ChangesetTags are attached to every generated patch file.
var ChangesetTags = osm.Tags{
	"attribution": "https://wiki.openstreetmap.org/wiki/Contributors#LINZ",
	"created_by":  "LINZ Data Import 2.0.0",
	"locale":      "en-NZ",
	"source":      "https://wiki.osm.org/LINZ",
}

// Geometry is a GeoJSON point, or a two-point line encoding a proposed
// relocation for diagnostic review.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`

	// MetresAway is only set on relocation lines
	MetresAway float64 `json:"metresAway,omitempty"`
}

// PointGeometry builds a GeoJSON point ([lng, lat] ordering).
func PointGeometry(lng, lat float64) Geometry {
	return Geometry{Type: "Point", Coordinates: []float64{lng, lat}}
}

// LineGeometry builds the move diagnostic: a line from the observed to
// the authoritative location.
func LineGeometry(fromLng, fromLat, toLng, toLat, metresAway float64) Geometry {
	return Geometry{
		Type:        "LineString",
		Coordinates: [][]float64{{fromLng, fromLat}, {toLng, toLat}},
		MetresAway:  metresAway,
	}
}

// PatchFeature is one proposed add/edit/move action against the crowd
// database. Layer and Ref are metadata for traceability.
type PatchFeature struct {
	Type       string             `json:"type"`
	ID         string             `json:"id"`
	Geometry   Geometry           `json:"geometry"`
	Properties osm.Tags           `json:"properties"`
	Layer      gazetteer.NameType `json:"layer,omitempty"`
	Ref        string             `json:"ref,omitempty"`
}

// Action returns the feature's action marker (edit, move, or empty for
// brand-new features).
func (f *PatchFeature) Action() string {
	return f.Properties[ActionKey]
}

// Patch is a supplementary patch file.
type Patch struct {
	Type          string          `json:"type"`
	Features      []*PatchFeature `json:"features"`
	Size          string          `json:"size,omitempty"`
	ChangesetTags osm.Tags        `json:"changesetTags,omitempty"`
}

// Stats counts verdicts for one feature type.
type Stats struct {
	AddCount  int `json:"addCount"`
	EditCount int `json:"editCount"`
	OkayCount int `json:"okayCount"`
}

// Warnings are the non-fatal conditions surfaced alongside the output.
type Warnings struct {
	CustomMerge          []string `json:"customMerge,omitempty"`
	NonRedirectConflicts []string `json:"nonRedirectConflicts,omitempty"`
	NearbyCandidates     []string `json:"nearbyCandidates,omitempty"`
}

// Output is the result of one conflation run.
type Output struct {
	Type          string                        `json:"type"`
	LastUpdated   string                        `json:"lastUpdated"`
	ChangesetTags osm.Tags                      `json:"changesetTags"`
	Stats         map[gazetteer.NameType]*Stats `json:"stats"`
	Features      []*PatchFeature               `json:"features"`
	Warnings      *Warnings                     `json:"warnings,omitempty"`

	// ChildPatches are supplementary patch files, e.g. the wikidata
	// redirect fixes, keyed by display name
	ChildPatches map[string]*Patch `json:"childPatches,omitempty"`
}

// WikidataError records a cross-reference conflict: the crowd feature
// carries a wikidata tag that contradicts the resolved best record.
// These abort the feature's edit and are resolved separately.
type WikidataError struct {
	OsmID    string  `json:"osmId"`
	Expected string  `json:"expected"`
	Actual   string  `json:"actual"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Accumulator collects warnings and conflicts raised while comparing
// features. It is passed explicitly through the comparator rather than
// living in package state, so runs stay independent.
type Accumulator struct {
	WikidataErrors []WikidataError
	Warnings       Warnings
}
