// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"fmt"
	"log"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
	"github.com/osm-nz/placenames/spatial"
	"github.com/osm-nz/placenames/textutil"
)

// constituents of a historical merge must be this close together
const mergeDistanceLimit = 10_000 // metres

// A common duplicate pattern is "Mt X" and "X Mountain" coexisting as
// separate registry rows.
var englishPrefixSuffixRe = regexp.MustCompile(
	`(^(Mount|Mountain|Peak|Hill|St|Saint)|(Mount|Mountain|Peak|Hill|St|Saint)$)`)

func removeEnglishPrefixesAndSuffixes(name string) string {
	return strings.TrimSpace(replaceFirst(englishPrefixSuffixRe, name, ""))
}

// ApplyCustomMerges coalesces registry duplicates that mappers have
// already merged via composite refs. The registry lists duplicate rows
// for some physical features; when a crowd feature carries a
// semicolon-joined ref the registry itself doesn't know about, the
// constituent entries are combined into one composite-keyed entry.
//
// Different constituent names are allowed, but end up listed in
// old_name, and later checks prevent this flexibility being abused to
// quietly drop te reo names.
//
// The input map is not modified; the merged dataset is returned along
// with human-readable warnings for the refusals.
func ApplyCustomMerges(places gazetteer.Set, snapshot *osm.Snapshot) (gazetteer.Set, []string) {
	merged := make(gazetteer.Set, len(places))
	for ref, place := range places {
		merged[ref] = place
	}

	var warnings []string
	trivialMerges := 0

	// composite refs the registry build has already produced
	// (usually dual names), indexed by sub-ref
	knownComposites := map[string]string{}
	for ref := range places {
		if gazetteer.IsComposite(ref) {
			for _, subRef := range gazetteer.SubRefs(ref) {
				knownComposites[subRef] = ref
			}
		}
	}

	composites := snapshot.CompositeRefs()

	unexpected := make([]string, 0, len(composites))
	for _, ref := range composites {
		if places[ref] == nil {
			unexpected = append(unexpected, ref)
		}
	}
	sort.Strings(unexpected)

	for _, mergedRef := range unexpected {
		refs := gazetteer.SubRefs(mergedRef)

		constituents := make([]*gazetteer.Place, 0, len(refs))
		valid := make([]string, 0, len(refs))
		for _, ref := range refs {
			if place := places[ref]; place != nil {
				constituents = append(constituents, place)
				valid = append(valid, ref)
			}
		}

		if len(constituents) < len(refs) {
			warnings = append(warnings, describeInvalidRefs(mergedRef, refs, valid, knownComposites))

			continue
		}

		// the registry may have since corrected one entry's location,
		// invalidating a historical merge
		first := constituents[0]
		tooFarApart := false
		for _, place := range constituents {
			if spatial.DistanceBetween(first.Lat, first.Lng, place.Lat, place.Lng) > mergeDistanceLimit {
				tooFarApart = true

				break
			}
		}
		if tooFarApart {
			warnings = append(warnings,
				fmt.Sprintf("refusing to merge %s since the entries are too far apart", mergedRef))
			log.Printf("refusing to merge %s since the entries are too far apart", mergedRef)

			continue
		}

		merged[mergedRef] = combineConstituents(constituents, &trivialMerges, &warnings)
		for _, ref := range refs {
			delete(merged, ref)
		}
	}

	log.Printf("accepted %d trivial merges", trivialMerges)

	return merged, warnings
}

func describeInvalidRefs(mergedRef string, refs, valid []string, knownComposites map[string]string) string {
	if len(valid) > 0 {
		// the registry probably noticed the duplicates itself and
		// deleted a row; suggest dropping the stale sub-refs
		message := fmt.Sprintf("invalid refs: %s, expected %s", mergedRef, strings.Join(valid, ";"))
		log.Printf("(!) %s", message)

		return message
	}

	var options []string
	for _, ref := range refs {
		if composite := knownComposites[ref]; composite != "" && !slices.Contains(options, composite) {
			options = append(options, composite)
		}
	}

	message := fmt.Sprintf("none of these refs exist: %s", mergedRef)
	if len(options) > 0 {
		message += fmt.Sprintf(", did you mean %s?", strings.Join(options, " or "))
	}
	log.Printf("(!) %s", message)

	return message
}

func combineConstituents(constituents []*gazetteer.Place, trivialMerges *int, warnings *[]string) *gazetteer.Place {
	uniqueNames := map[string]bool{}
	for _, place := range constituents {
		uniqueNames[removeEnglishPrefixesAndSuffixes(place.Name)] = true
	}

	if len(uniqueNames) == 1 {
		// every constituent has the same name, the easy case
		combined := *constituents[0]
		combined.AltNames = unionNames(constituents, func(p *gazetteer.Place) []string { return p.AltNames })
		combined.OldNames = unionNames(constituents, func(p *gazetteer.Place) []string { return p.OldNames })
		combined.OldRefs = unionRefs(constituents)
		*trivialMerges++

		return &combined
	}

	// names differ: keep the official entry if there is one, else the
	// first, and demote the other names to old_name
	main := constituents[0]
	for _, place := range constituents {
		if place.Official {
			main = place

			break
		}
	}

	strippedMainName := textutil.StripDiacritics(main.Name)

	var nonMainNames []string
	for _, place := range constituents {
		if place != main && place.Name != strippedMainName {
			nonMainNames = append(nonMainNames, place.Name)
		}
	}

	message := fmt.Sprintf("accepting %q over %q", main.Name, strings.Join(nonMainNames, " & "))
	*warnings = append(*warnings, message)
	log.Print(message)

	combined := *main
	combined.AltNames = unionNames(constituents, func(p *gazetteer.Place) []string { return p.AltNames })
	combined.OldNames = dedupe(append(
		unionNames(constituents, func(p *gazetteer.Place) []string { return p.OldNames }),
		nonMainNames...))
	combined.OldRefs = unionRefs(constituents)

	return &combined
}

func unionNames(constituents []*gazetteer.Place, pick func(*gazetteer.Place) []string) []string {
	var union []string
	for _, place := range constituents {
		union = append(union, pick(place)...)
	}

	return dedupe(union)
}

func unionRefs(constituents []*gazetteer.Place) []int {
	var union []int
	for _, place := range constituents {
		for _, ref := range place.OldRefs {
			if !slices.Contains(union, ref) {
				union = append(union, ref)
			}
		}
	}

	return union
}

func dedupe(names []string) []string {
	var out []string
	for _, name := range names {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}

	return out
}
