// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"slices"

	"github.com/osm-nz/placenames/osm"
)

// checkPresetTags compares a crowd feature's tags against the resolved
// scheme and returns the corrections needed. Lifecycle prefixes are
// tolerated generously: demolished:man_made=bridge satisfies
// man_made=bridge, and even not:X=Y satisfies X=Y. Features tagged
// with the place=locality scheme are never corrected at all.
func checkPresetTags(presetTags *PresetTags, feature *osm.Feature) osm.Tags {
	if presetTags.All["place"] == "locality" {
		return osm.Tags{}
	}

	cleaned := osm.StripLifecyclePrefixes(feature.Tags)

	check := func(toCheck osm.Tags) osm.Tags {
		tagChanges := osm.Tags{}

		// if any tag of the scheme is only satisfied through a
		// lifecycle prefix, leave the whole scheme alone rather than
		// re-adding tags the mappers deliberately retired
		for key, value := range toCheck {
			if slices.Contains(cleaned[key], value) && feature.Tags[key] != value {
				return tagChanges
			}
		}

		for key, value := range toCheck {
			values := cleaned[key]

			wrong := len(values) == 0 ||
				(value != "*" && !slices.Contains(values, value))
			if !wrong {
				continue
			}

			if key == "seamark:type" && len(values) > 0 {
				// an existing seamark:type is usually more specific
				// than ours, e.g. seamark:type=obstruction vs
				// seamark:type=sea_area, so never downgrade it
				continue
			}

			tagChanges[key] = presetTags.All[key]
		}

		return tagChanges
	}

	tagChanges := check(presetTags.Match)

	for _, accepted := range presetTags.AcceptTags {
		if len(check(accepted)) == 0 {
			// already conforms to an accepted alternate scheme
			return osm.Tags{}
		}
	}

	return tagChanges
}
