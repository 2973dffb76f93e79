// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

// Package conflate reconciles the NZGB gazetteer against OpenStreetMap
// and proposes machine-reviewable patches. Nothing here applies edits;
// every proposed change goes through human review first.
package conflate

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
	"github.com/osm-nz/placenames/wikidata"
)

// antarcticaLatitude is the cutoff below which some layers are skipped,
// since Antarctic names come from a different naming authority.
const antarcticaLatitude = -60

// Run performs one full conflation pass: merge registry duplicates,
// compare every place against its crowd feature, and resolve stale
// wikidata tags. The inputs are not modified.
func Run(ctx context.Context, places gazetteer.Set, snapshot *osm.Snapshot, wiki wikidata.Snapshot, opts Options) (*Output, error) {
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog
	}
	if opts.Config == nil {
		opts.Config = &Config{}
	}
	if opts.TrivialKeys == nil {
		opts.TrivialKeys = DefaultTrivialKeys
	}

	trivialKeys := make(map[string]bool, len(opts.TrivialKeys))
	for _, key := range opts.TrivialKeys {
		trivialKeys[key] = true
	}

	acc := &Accumulator{}

	merged, mergeWarnings := ApplyCustomMerges(places, snapshot)
	acc.Warnings.CustomMerge = mergeWarnings

	for ref := range opts.Config.Ignore {
		delete(merged, ref)
	}

	var matcher *Matcher
	if opts.FindNearby {
		var err error
		if matcher, err = NewMatcher(snapshot.NoRef); err != nil {
			return nil, err
		}
	}

	c := &comparer{
		catalog:     opts.Catalog,
		config:      opts.Config,
		trivialKeys: trivialKeys,
		acc:         acc,
	}

	output := &Output{
		Type:        "FeatureCollection",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		ChangesetTags: mergeTags(ChangesetTags, osm.Tags{
			"comment": "Add/update features based on the NZGB Gazetteer",
		}),
		Stats: map[gazetteer.NameType]*Stats{},
	}

	refs := make([]string, 0, len(merged))
	for ref := range merged {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	var bar *progressbar.ProgressBar
	if opts.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(refs),
			progressbar.OptionSetDescription("Conflating"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, ref := range refs {
		if bar != nil {
			_ = bar.Add(1)
		}

		place := merged[ref]

		preset := opts.Catalog[place.Type]
		if preset == nil {
			return nil, fmt.Errorf("feature type %q has no catalog entry (ref %s)", place.Type, ref)
		}

		if preset.Skip || (preset.SkipAntarctica && place.Lat < antarcticaLatitude) {
			continue
		}

		feature := lookupFeature(snapshot, ref, place)
		best := findBestWikidata(ref, wiki)

		stats := output.Stats[place.Type]
		if stats == nil {
			stats = &Stats{}
			output.Stats[place.Type] = stats
		}

		if feature == nil {
			patch, err := c.newFeature(ref, place, best, matcher)
			if err != nil {
				return nil, fmt.Errorf("conflating %s: %w", ref, err)
			}

			stats.AddCount++
			output.Features = append(output.Features, patch)

			continue
		}

		patch, err := c.compare(ref, place, feature, best)
		if err != nil {
			return nil, fmt.Errorf("conflating %s: %w", ref, err)
		}

		if patch == nil {
			stats.OkayCount++
		} else {
			stats.EditCount++
			output.Features = append(output.Features, patch)
		}
	}

	if opts.Redirects != nil {
		redirectPatch, err := resolveRedirects(ctx, opts.Redirects, acc)
		if err != nil {
			return nil, err
		}

		output.ChildPatches = map[string]*Patch{"Wikidata Redirects": redirectPatch}
	}

	output.Warnings = &acc.Warnings

	return output, nil
}

// lookupFeature locates the crowd feature for a place: by the full
// ref, then by each sub-ref of a composite ref, then by each
// historical ref, taking the first hit. The later lookups catch
// features still tagged with an out-of-date ref.
func lookupFeature(snapshot *osm.Snapshot, ref string, place *gazetteer.Place) *osm.Feature {
	if feature := snapshot.ByRef[ref]; feature != nil {
		return feature
	}

	for _, subRef := range gazetteer.SubRefs(ref) {
		if feature := snapshot.ByRef[subRef]; feature != nil {
			return feature
		}
	}

	for _, oldRef := range place.OldRefs {
		if feature := snapshot.ByRef[strconv.Itoa(oldRef)]; feature != nil {
			return feature
		}
	}

	return nil
}

// newFeature builds the add operation for a place with no crowd
// feature, populated from the type's full tag scheme plus the names
// and linked-data tags.
func (c *comparer) newFeature(ref string, place *gazetteer.Place, best *wikidata.Item, matcher *Matcher) (*PatchFeature, error) {
	presetTags, err := c.catalog.PresetTags(place)
	if err != nil {
		return nil, err
	}

	properties := mergeTags(presetTags.All)
	properties["name"] = place.Name
	properties[osm.RefTag] = ref

	if len(place.AltNames) > 0 {
		properties["alt_name"] = strings.Join(place.AltNames, ";")
	}
	if len(place.OldNames) > 0 {
		properties["old_name"] = strings.Join(place.OldNames, ";")
	}

	if best != nil {
		setUnlessEmpty(properties, "wikidata", best.QID)
		setUnlessEmpty(properties, "wikipedia", best.Wikipedia)
		setUnlessEmpty(properties, "name:etymology", best.Etymology)
		setUnlessEmpty(properties, "name:etymology:wikidata", best.EtymologyQID)
	}

	if matcher != nil {
		candidate, err := matcher.Find(place, presetTags)
		if err != nil {
			return nil, err
		}

		if candidate != nil {
			c.acc.Warnings.NearbyCandidates = append(c.acc.Warnings.NearbyCandidates,
				fmt.Sprintf("%s may already exist as %s (%q)",
					ref, candidate.OsmID(), candidate.Tags["name"]))
		}
	}

	return &PatchFeature{
		Type:       "Feature",
		ID:         ref,
		Geometry:   PointGeometry(place.Lng, place.Lat),
		Properties: properties,
		Layer:      place.Type,
		Ref:        ref,
	}, nil
}

func setUnlessEmpty(tags osm.Tags, key, value string) {
	if value != "" {
		tags[key] = value
	}
}

// resolveRedirects checks every conflicting wikidata tag seen during
// the run: a tag pointing at a redirect page gets a patch replacing it
// with the target, while a genuine conflict (two live items for the
// same place) becomes a warning for human resolution.
func resolveRedirects(ctx context.Context, client *wikidata.Client, acc *Accumulator) (*Patch, error) {
	log.Printf("checking %d invalid wikidata tags for redirects", len(acc.WikidataErrors))

	byOldQID := map[string]WikidataError{}
	for _, wikidataError := range acc.WikidataErrors {
		byOldQID[wikidataError.Actual] = wikidataError
	}

	qIDs := make([]string, 0, len(byOldQID))
	for qid := range byOldQID {
		qIDs = append(qIDs, qid)
	}
	sort.Strings(qIDs)

	redirects, live, err := client.CheckRedirects(ctx, qIDs)
	if err != nil {
		return nil, fmt.Errorf("checking wikidata redirects: %w", err)
	}

	for _, qid := range live {
		conflict := byOldQID[qid]
		acc.Warnings.NonRedirectConflicts = append(acc.Warnings.NonRedirectConflicts,
			fmt.Sprintf("expected %s on %s", conflict.Expected, conflict.OsmID))
	}

	patch := &Patch{
		Type: "FeatureCollection",
		Size: "large",
		ChangesetTags: mergeTags(ChangesetTags, osm.Tags{
			"comment": "update wikidata tags which point to redirect pages",
		}),
	}

	fromQIDs := make([]string, 0, len(redirects))
	for from := range redirects {
		fromQIDs = append(fromQIDs, from)
	}
	sort.Strings(fromQIDs)

	for _, from := range fromQIDs {
		conflict := byOldQID[from]
		patch.Features = append(patch.Features, &PatchFeature{
			Type:     "Feature",
			ID:       conflict.OsmID,
			Geometry: PointGeometry(conflict.Lng, conflict.Lat),
			Properties: osm.Tags{
				ActionKey:  "edit",
				"wikidata": redirects[from],
			},
		})
	}

	return patch, nil
}
