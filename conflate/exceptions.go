// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"regexp"
	"slices"
	"strings"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
	"github.com/osm-nz/placenames/textutil"
)

// The name exceptions below each recognise one situation where the
// crowd name differs from the authoritative name but should be left
// alone. They only ever suppress a rename, never cause one.

// nameHasSlashForOldName accepts names like "Te Onetapu / Rangipo
// Desert" where the official name is "Te Onetapu" and the rest of the
// slash-separated list is made of recognised old or alternative names.
func nameHasSlashForOldName(place *gazetteer.Place, feature *osm.Feature) bool {
	name := feature.Tags["name"]
	if name == "" {
		return false
	}

	segments := strings.Split(name, " / ")
	if segments[0] != place.Name {
		return false
	}

	for _, segment := range segments {
		recognised := segment == place.Name ||
			slices.Contains(place.OldNames, segment) ||
			slices.Contains(place.AltNames, segment)
		if !recognised {
			return false
		}
	}

	return true
}

// isPrettyMuchEqual reports whether the two names differ only by
// diacritics that the crowd name has and the authoritative name lacks.
// The names must have the same number of characters.
func isPrettyMuchEqual(authoritative, crowd string) bool {
	a, b := []rune(authoritative), []rune(crowd)
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] == b[i] {
			continue
		}

		if string(a[i]) != textutil.StripDiacritics(string(b[i])) {
			return false
		}
	}

	return true
}

// isUnofficialAndOsmHasMacrons accepts crowd names with macrons that
// the registry omits. For official names this is only acceptable when
// the ref has an explicit override in the config.
func isUnofficialAndOsmHasMacrons(place *gazetteer.Place, feature *osm.Feature, config *Config) bool {
	if place.Official {
		ref := feature.Tags[osm.RefTag]
		if _, ok := config.AllowInconsistentDiacritics[ref]; !ok {
			return false
		}
	}

	return isPrettyMuchEqual(place.Name, feature.Tags["name"])
}

// allowSlashInsteadOfOr accepts "Blackwood Bay / Tahuahua Bay" when
// the authoritative name is "Blackwood Bay or Tahuahua Bay". New
// features still get the official spelling.
func allowSlashInsteadOfOr(place *gazetteer.Place, feature *osm.Feature) bool {
	return strings.ReplaceAll(place.Name, " or ", " / ") == feature.Tags["name"]
}

var (
	governmentPurposeRe = regexp.MustCompile(` Government Purpose`)
	mountRe             = regexp.MustCompile(`\bMount\b`)
	saintRe             = regexp.MustCompile(`\bSaint\b`)
	stDotRe             = regexp.MustCompile(`\bSt\.`)
)

func replaceFirst(re *regexp.Regexp, s, replacement string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}

	return s[:loc[0]] + replacement + s[loc[1]:]
}

func normaliseTrivialNameDifferences(name string) string {
	name = replaceFirst(governmentPurposeRe, name, "")
	name = replaceFirst(mountRe, name, "Mt")
	name = replaceFirst(saintRe, name, "St")
	name = replaceFirst(stDotRe, name, "St")

	return name
}

// allowTrivialDifferences accepts spelling deviations where there is
// ongoing dispute (Saint vs St) or the difference is trivial (Mount vs
// Mt).
func allowTrivialDifferences(place *gazetteer.Place, feature *osm.Feature) bool {
	return normaliseTrivialNameDifferences(place.Name) ==
		normaliseTrivialNameDifferences(feature.Tags["name"])
}

// allowDualNames accepts a name made of exactly two slash-separated
// segments where each segment is either the authoritative name
// (diacritic-tolerant) or the feature's name:mi.
func allowDualNames(place *gazetteer.Place, feature *osm.Feature) bool {
	name := feature.Tags["name"]
	if name == "" {
		return false
	}

	segments := strings.Split(name, " / ")
	if len(segments) != 2 {
		return false
	}

	for _, segment := range segments {
		if !isPrettyMuchEqual(place.Name, segment) && segment != feature.Tags["name:mi"] {
			return false
		}
	}

	return true
}

// hasNotLifecycleTag accepts any name when the feature explicitly
// denies the expected tagging, e.g. not:place=locality against a
// place=locality scheme.
func hasNotLifecycleTag(catalog Catalog, place *gazetteer.Place, feature *osm.Feature) bool {
	preset := catalog[place.Type]
	if preset == nil || preset.Skip {
		return false
	}

	for key, value := range preset.Tags {
		if feature.Tags["not:"+key] == value {
			return true
		}
	}

	return false
}
