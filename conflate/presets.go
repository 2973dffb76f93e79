// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"fmt"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
)

// PresetTags is the resolved tagging for one gazetteer feature. All is
// asserted when creating a brand-new feature, Match is checked against
// an existing feature, and AcceptTags are alternate tag-sets that also
// count as correct.
type PresetTags struct {
	All        osm.Tags
	Match      osm.Tags
	AcceptTags []osm.Tags
}

// PresetTags resolves the catalog entry for a place. Types without a
// catalog entry, or marked skip, must never reach this stage; they are
// reported as errors so the run aborts.
func (c Catalog) PresetTags(place *gazetteer.Place) (*PresetTags, error) {
	preset := c[place.Type]

	switch preset.Kind() {
	case PresetSingle:
		return &PresetTags{
			All:        mergeTags(preset.Tags, preset.AddTags),
			Match:      preset.Tags,
			AcceptTags: preset.AcceptTags,
		}, nil

	case PresetDual:
		if place.IsUndersea {
			return &PresetTags{
				All:        preset.SubseaTags,
				Match:      preset.SubseaTags,
				AcceptTags: append(append([]osm.Tags{}, preset.AcceptTags...), preset.OnLandTags),
			}, nil
		}

		return &PresetTags{
			All:        preset.OnLandTags,
			Match:      preset.OnLandTags,
			AcceptTags: append(append([]osm.Tags{}, preset.AcceptTags...), preset.SubseaTags),
		}, nil

	case PresetSkip:
		return nil, fmt.Errorf("feature type %q is marked skip and must not be conflated", place.Type)

	case PresetInvalid:
		fallthrough
	default:
		return nil, fmt.Errorf("feature type %q has no valid catalog entry", place.Type)
	}
}

func mergeTags(tagSets ...osm.Tags) osm.Tags {
	merged := osm.Tags{}

	for _, tags := range tagSets {
		for key, value := range tags {
			merged[key] = value
		}
	}

	return merged
}
