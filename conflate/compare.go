// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"math"
	"slices"
	"strings"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
	"github.com/osm-nz/placenames/spatial"
	"github.com/osm-nz/placenames/wikidata"
)

// Distance thresholds in metres. The area threshold is higher since
// the centroid of a large area can legitimately sit far from the
// authoritative point.
const (
	distanceThresholdNode = 2500
	distanceThresholdArea = 15_000
)

// comparer holds the read-only state shared by every comparison in a
// run, plus the accumulator the comparisons report into.
type comparer struct {
	catalog     Catalog
	config      *Config
	trivialKeys map[string]bool
	acc         *Accumulator
}

// compare checks a matched pair of authoritative place and crowd
// feature, and returns the edit needed to reconcile them, or nil when
// the feature is already acceptable. A conflicting wikidata tag aborts
// the edit entirely and is recorded on the accumulator instead.
func (c *comparer) compare(ref string, place *gazetteer.Place, feature *osm.Feature, best *wikidata.Item) (*PatchFeature, error) {
	tagChanges := osm.Tags{ActionKey: "edit"}

	preset := c.catalog[place.Type]

	presetTags, err := c.catalog.PresetTags(place)
	if err != nil {
		return nil, err
	}

	// 1a. check name, unless one of the exceptions recognises the
	// difference as acceptable
	if preset.ChillMode == "" && feature.Tags["name"] != place.Name {
		acceptable := nameHasSlashForOldName(place, feature) ||
			isUnofficialAndOsmHasMacrons(place, feature, c.config) ||
			allowSlashInsteadOfOr(place, feature) ||
			allowTrivialDifferences(place, feature) ||
			allowDualNames(place, feature) ||
			hasNotLifecycleTag(c.catalog, place, feature)

		if !acceptable {
			tagChanges["name"] = place.Name
		}
	}

	// 1b. in chill mode the name tag is free-form; only maintain the
	// designated tag (official_name, or alt_name for a few types),
	// and only when name itself isn't already the official one
	if preset.ChillMode != "" &&
		feature.Tags[preset.ChillMode] != place.Name &&
		feature.Tags["name"] != place.Name {
		tagChanges[preset.ChillMode] = place.Name
	}

	// 2. check alt_name; name:mi, alt_name:mi and alt_name:en count
	// as valid places for an alternative name to live
	osmAltNames := feature.Tags.SplitList("alt_name")
	osmAltNames = append(osmAltNames, feature.Tags.SplitList("name:mi")...)
	osmAltNames = append(osmAltNames, feature.Tags.SplitList("alt_name:mi")...)
	osmAltNames = append(osmAltNames, feature.Tags.SplitList("alt_name:en")...)

	if missing := subtract(place.AltNames, osmAltNames); len(missing) > 0 {
		tagChanges["alt_name"] = strings.Join(
			append(missing, feature.Tags.SplitList("alt_name")...), ";")
	}

	// 3. check old_name; alternative names and not:name also count
	osmOldNames := feature.Tags.SplitList("old_name")
	osmOldNames = append(osmOldNames, osmAltNames...)
	osmOldNames = append(osmOldNames, feature.Tags.SplitList("not:name")...)

	if missing := subtract(place.OldNames, osmOldNames); len(missing) > 0 {
		tagChanges["old_name"] = strings.Join(
			append(missing, feature.Tags.SplitList("old_name")...), ";")
	}

	// 4. check the ref tag, e.g. after two entries were merged into a
	// composite ref
	if feature.Tags[osm.RefTag] != ref {
		tagChanges[osm.RefTag] = ref
	}

	// 5. check location
	var metresAway float64
	if feature.Center != nil {
		metresAway = spatial.DistanceBetween(
			place.Lat, place.Lng, feature.Center.Lat, feature.Center.Lng)
	}

	if metresAway > c.moveThreshold(feature) && !DontTryToMove[place.Type] {
		tagChanges[ActionKey] = "move"
	}

	// 6. check the tags required by the type's tagging scheme
	for key, value := range checkPresetTags(presetTags, feature) {
		tagChanges[key] = value
	}

	// 7. keep name:etymology[:wikidata] in sync with the linked data,
	// unless a language-specific etymology tag already exists
	if best != nil && best.Etymology != "" && best.EtymologyQID != "" &&
		feature.Tags["name:en:etymology"] == "" &&
		feature.Tags["name:mi:etymology"] == "" {
		if feature.Tags["name:etymology"] == "" {
			tagChanges["name:etymology"] = best.Etymology
		}

		if best.EtymologyQID != feature.Tags["name:etymology:wikidata"] {
			// when changing the :wikidata tag, rewrite the plain tag
			// too so the pair stays in sync
			tagChanges["name:etymology:wikidata"] = best.EtymologyQID
			tagChanges["name:etymology"] = best.Etymology
		}
	}

	// 8. check the wikidata tag. A conflicting existing value means
	// wikidata itself has duplicate items; abort this feature until
	// someone merges them
	if best != nil && best.QID != "" && best.QID != feature.Tags["wikidata"] {
		if feature.Tags["wikidata"] != "" {
			c.acc.WikidataErrors = append(c.acc.WikidataErrors, WikidataError{
				OsmID:    feature.OsmID(),
				Expected: best.QID,
				Actual:   feature.Tags["wikidata"],
				Lat:      place.Lat,
				Lng:      place.Lng,
			})

			return nil, nil
		}

		if feature.Tags["not:wikidata"] != best.QID {
			tagChanges["wikidata"] = best.QID
		}
	}

	// 9. add the wikipedia tag if missing; not:wikidata marks a
	// situation too tricky to touch
	if best != nil && best.Wikipedia != "" &&
		feature.Tags["wikipedia"] == "" &&
		feature.Tags["not:wikidata"] == "" {
		tagChanges["wikipedia"] = best.Wikipedia
	}

	if len(tagChanges) == 1 {
		return nil, nil
	}

	// an edit whose every change is trivial is not worth a review
	trivialOnly := true
	for key := range tagChanges {
		if !c.trivialKeys[key] {
			trivialOnly = false

			break
		}
	}
	if trivialOnly {
		return nil, nil
	}

	return &PatchFeature{
		Type:       "Feature",
		ID:         feature.OsmID(),
		Geometry:   c.patchGeometry(tagChanges, place, feature, metresAway),
		Properties: tagChanges,
		Layer:      place.Type,
		Ref:        ref,
	}, nil
}

// moveThreshold returns the acceptable distance between the
// authoritative point and the crowd feature's centroid. Enormous
// undersea areas and relations are never distance-checked.
func (c *comparer) moveThreshold(feature *osm.Feature) float64 {
	switch {
	case feature.Tags["seamark:type"] == "sea_area":
		return math.Inf(1)
	case feature.Type == osm.Node:
		return distanceThresholdNode
	case feature.Type == osm.Way:
		return distanceThresholdArea
	default:
		return math.Inf(1)
	}
}

func (c *comparer) patchGeometry(tagChanges osm.Tags, place *gazetteer.Place, feature *osm.Feature, metresAway float64) Geometry {
	if tagChanges[ActionKey] == "move" {
		return LineGeometry(
			feature.Center.Lng, feature.Center.Lat, place.Lng, place.Lat, metresAway)
	}

	if feature.Center == nil {
		return PointGeometry(0, 0)
	}

	return PointGeometry(feature.Center.Lng, feature.Center.Lat)
}

// subtract returns the wanted names that are absent from present,
// preserving order.
func subtract(wanted, present []string) []string {
	var missing []string

	for _, name := range wanted {
		if !slices.Contains(present, name) {
			missing = append(missing, name)
		}
	}

	return missing
}
