// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package osm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/osm-nz/placenames/spatial"
)

// Tags is an unordered mapping of OSM tag key to value.
type Tags map[string]string

// FeatureType is the geometry kind of an OSM element.
type FeatureType string

// The three OSM element kinds.
const (
	Node     FeatureType = "node"
	Way      FeatureType = "way"
	Relation FeatureType = "relation"
)

// Feature is one element of the crowd database. Center is derived from
// the geometry and may be absent for some relations.
type Feature struct {
	Type   FeatureType    `json:"type"`
	ID     int64          `json:"id"`
	Center *spatial.Point `json:"center,omitempty"`
	Tags   Tags           `json:"tags"`
}

// OsmID returns the compact identifier, e.g. "n123" or "r9".
func (f *Feature) OsmID() string {
	return fmt.Sprintf("%c%d", f.Type[0], f.ID)
}

// SplitList splits a semicolon-joined tag value. An empty value yields
// no elements.
func (t Tags) SplitList(key string) []string {
	value := t[key]
	if value == "" {
		return nil
	}

	return strings.Split(value, ";")
}

// lifecycle prefixes recognized by the iD editor
var lifecyclePrefixes = map[string]bool{
	"proposed":     true,
	"planned":      true,
	"construction": true,
	"disused":      true,
	"abandoned":    true,
	"was":          true,
	"dismantled":   true,
	"razed":        true,
	"demolished":   true,
	"destroyed":    true,
	"removed":      true,
	"obliterated":  true,
	"intermittent": true,
	"not":          true,
}

// RemoveLifecyclePrefix strips a leading lifecycle prefix from a tag
// key, so "demolished:man_made" becomes "man_made". Keys without a
// recognized prefix are returned unchanged.
func RemoveLifecyclePrefix(key string) string {
	prefix, rest, found := strings.Cut(key, ":")
	if !found {
		return key
	}

	if lifecyclePrefixes[prefix] {
		return rest
	}

	return key
}

// StripLifecyclePrefixes converts tags like
//
//	{place: "suburb", "not:place": "island"}
//
// into
//
//	{place: ["suburb", "island"]}
//
// collecting every value seen per stripped key.
func StripLifecyclePrefixes(tags Tags) map[string][]string {
	out := map[string][]string{}

	for key, value := range tags {
		if value == "" {
			continue
		}

		strippedKey := RemoveLifecyclePrefix(key)
		if !slices.Contains(out[strippedKey], value) {
			out[strippedKey] = append(out[strippedKey], value)
		}
	}

	return out
}
