// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
)

// Preset is the expected OSM tagging for one gazetteer feature type.
// Exactly one of the following holds:
//   - Skip is set: the type is never imported or conflated;
//   - Tags is set: a single tagging scheme, optionally with AddTags
//     asserted on creation but not checked on existing features;
//   - OnLandTags and SubseaTags are both set: a dual scheme chosen by
//     the feature's undersea flag.
type Preset struct {
	Skip       bool
	Tags       osm.Tags
	AddTags    osm.Tags
	OnLandTags osm.Tags
	SubseaTags osm.Tags

	// AcceptTags lists alternative tagging methods to accept
	AcceptTags []osm.Tags

	// ChillMode, if set, tolerates any `name` value and maintains the
	// given tag (official_name or alt_name) instead
	ChillMode string

	// SkipAntarctica excludes this layer's features south of -60°
	SkipAntarctica bool
}

// PresetKind discriminates the three valid Preset shapes.
type PresetKind int

// The possible Preset shapes.
const (
	PresetInvalid PresetKind = iota
	PresetSkip
	PresetSingle
	PresetDual
)

// Kind classifies the preset's shape.
func (p *Preset) Kind() PresetKind {
	switch {
	case p == nil:
		return PresetInvalid
	case p.Skip:
		return PresetSkip
	case p.Tags != nil && p.OnLandTags == nil && p.SubseaTags == nil:
		return PresetSingle
	case p.Tags == nil && p.OnLandTags != nil && p.SubseaTags != nil:
		return PresetDual
	default:
		return PresetInvalid
	}
}

// Catalog maps every gazetteer feature type to its preset.
type Catalog map[gazetteer.NameType]*Preset

var skip = &Preset{Skip: true}

func seaArea(category string) osm.Tags {
	return osm.Tags{"seamark:type": "sea_area", "seamark:sea_area:category": category}
}

func protectedArea(title, wikidata, class string) osm.Tags {
	return osm.Tags{
		"boundary":                  "protected_area",
		"protection_title":          title,
		"protection_title:wikidata": wikidata,
		"protect_class":             class,
	}
}

// DontTryToMove lists feature types whose location divergences are
// reported but never turned into move operations.
var DontTryToMove = map[gazetteer.NameType]bool{
	"Stream":        true,
	"Canal":         true,
	"Railway Line":  true,
	"Sea":           true,
	"National Park": true,
}

// DefaultCatalog is the built-in preset table. seamark:sea_area:category
// values come from "Standardization of Undersea Feature Names" (IHO B-6).
var DefaultCatalog = Catalog{
	"Abyssal Plain": {Tags: seaArea("abyssal_plain")},
	"Amenity Area": {
		Tags: protectedArea("Amenity Area", "Q112160795", "7"),
	},
	"Appellation": skip, // colonial-era survey districts or land blocks
	"Area":        {Tags: osm.Tags{"place": "locality"}},
	"Bank":        {Tags: seaArea("bank")},
	"Basin": { // basin or cirque
		OnLandTags: osm.Tags{"natural": "valley"},
		SubseaTags: seaArea("basin"),
		AcceptTags: []osm.Tags{{"natural": "bay"}},
	},
	"Bay": {
		Tags:       osm.Tags{"natural": "bay"},
		AcceptTags: []osm.Tags{{"natural": "strait"}, {"natural": "water"}},
	},
	"Beach": {Tags: osm.Tags{"natural": "beach"}},
	"Bend": {
		Tags:       osm.Tags{"waterway": "bend"},
		AcceptTags: []osm.Tags{{"water": "bend"}},
		AddTags:    osm.Tags{"place": "locality"},
	},
	"Bridge":   {Tags: osm.Tags{"man_made": "bridge"}},
	"Building": {Tags: osm.Tags{"building": "*"}},
	"Bush":     {Tags: osm.Tags{"natural": "wood"}}, // ambiguous: NZ English for forest or shrubland
	"Caldera":  {Tags: osm.Tags{"natural": "caldera"}},
	"Canal":    {Tags: osm.Tags{"type": "waterway", "waterway": "canal"}},
	"Canyon":   {Tags: seaArea("canyon")},
	"Cape":     {Tags: osm.Tags{"natural": "cape"}},
	"Cave":     {Tags: osm.Tags{"natural": "cave_entrance"}},
	"Channel":  {Tags: osm.Tags{"natural": "strait"}},
	"Chasm":    {Tags: osm.Tags{"place": "locality"}},
	"City":     {Tags: osm.Tags{"place": "*"}, AddTags: osm.Tags{"place": "city"}},
	"Clearing": {
		Tags:       osm.Tags{"place": "locality"},
		AcceptTags: []osm.Tags{{"landcover": "clearing"}},
	},
	"Cliff": {
		Tags: osm.Tags{"natural": "cliff"},
		AcceptTags: []osm.Tags{
			{"natural": "cape"},
			{"natural": "bare_rock"},
			{"natural": "peak"},
		},
	},
	"Coast Feature": {Tags: osm.Tags{"place": "locality"}},
	"Conservation Park": {
		Tags: protectedArea("Conservation Park", "Q5162994", "2"),
	},
	"Crater": {
		Tags: osm.Tags{"natural": "crater"},
		AcceptTags: []osm.Tags{
			{"natural": "volcano"},
			{"natural": "peak"},
			{"geological": "volcanic_caldera_rim"},
		},
	},
	"Crevasse": {Tags: osm.Tags{"natural": "crevasse"}},
	"Deep":     {Tags: seaArea("deep")},
	"Desert": {
		// someone has been bulk deleting desert=* from around the
		// world, so we can't use that tag anymore
		Tags: osm.Tags{"natural": "sand"},
	},
	"Ecological Area": {
		Tags: protectedArea("Ecological Area", "Q112136526", "1a"),
	},
	"Escarpment": {Tags: seaArea("escarpment")},
	"Estuary": {
		Tags:       osm.Tags{"natural": "bay"},
		AddTags:    osm.Tags{"estuary": "yes"},
		AcceptTags: []osm.Tags{{"natural": "water", "water": "lagoon"}},
	},
	"Facility": {
		// dams, hydroelectric power schemes, and other random features
		Tags: osm.Tags{"place": "locality"},
	},
	"Fan":  {Tags: seaArea("fan")},
	"Flat": {Tags: osm.Tags{"place": "locality"}}, // plateau, table, flat plain
	"Ford": {Tags: osm.Tags{"ford": "yes"}},
	"Forest": {
		Tags:       osm.Tags{"natural": "wood"},
		AcceptTags: []osm.Tags{{"landuse": "forest"}},
	},
	"Fork":          {Tags: osm.Tags{"junction": "yes"}},
	"Fracture Zone": {Tags: seaArea("fracture_zone")},
	"Gap":           {Tags: seaArea("gap")},
	"Glacier":       {Tags: osm.Tags{"natural": "glacier"}, SkipAntarctica: true},
	"Government Purpose Reserve": {
		Tags: protectedArea("Government Purpose Reserve", "Q112136688", "4"),
		AcceptTags: []osm.Tags{
			{
				// a lot of these are actually DOC depots, fire stations, etc.
				"not:boundary":              "protected_area",
				"protection_title":          "Government Purpose Reserve",
				"protection_title:wikidata": "Q112136688",
			},
		},
	},
	"Guyot": {Tags: seaArea("guyot")},
	"Hill": {
		OnLandTags: osm.Tags{"natural": "peak"},
		SubseaTags: seaArea("peak"),
		AcceptTags: []osm.Tags{
			{"natural": "hill"},
			{"natural": "ridge"},
			{"natural": "cliff"},
			{"natural": "saddle"},
			{"natural": "volcano"},
		},
	},
	"Historic Antarctic": skip, // this category is for nonexistant features
	"Historic Reserve": {
		Tags: protectedArea("Historic Reserve", "Q112161119", "3"),
	},
	"Historic Site": {Tags: osm.Tags{"historic": "*"}, AddTags: osm.Tags{"historic": "yes"}},
	"Hole":          {Tags: seaArea("hole")},
	"Ice Feature": {
		Tags: osm.Tags{"place": "locality"},
		AcceptTags: []osm.Tags{
			{"natural": "peak"},
			{"geological": "nunatak"},
			{"geological": "moraine"},
			{"glacier:type": "icefall"},
			{"glacier:type": "shelf"},
			{"natural": "glacier"},
		},
	},
	"Island": {
		Tags: osm.Tags{"place": "island"},
		AcceptTags: []osm.Tags{
			{"place": "islet"},
			{"place": "archipelago"},
			{"natural": "bare_rock"},
			{"natural": "rock"},
		},
	},
	"Isthmus": {Tags: osm.Tags{"place": "locality"}, AddTags: osm.Tags{"natural": "isthmus"}},
	"Knoll":   {Tags: seaArea("knoll")},
	"Lake": {
		Tags:       osm.Tags{"natural": "water"},
		AddTags:    osm.Tags{"water": "lake"},
		AcceptTags: []osm.Tags{{"natural": "bay"}, {"natural": "wetland"}},
	},
	"Ledge":           {Tags: osm.Tags{"natural": "ledge"}, AcceptTags: []osm.Tags{{"natural": "cliff"}}},
	"Local Authority": skip,
	"Locality":        {Tags: osm.Tags{"place": "locality"}}, // locality (settlement)
	"Marine Feature":  {Tags: seaArea("yes")},
	"Marine Reserve": {
		Tags: osm.Tags{"leisure": "nature_reserve"},
		AcceptTags: []osm.Tags{
			protectedArea("Marine Reserve", "Q1846270", "1a"),
		},
	},
	"Mound":       {Tags: seaArea("mound")}, // value exists in the IHO book but not S-57
	"Mud Volcano": {Tags: osm.Tags{"natural": "volcano"}},
	"National Park": {
		Tags: protectedArea("National Park", "Q46169", "2"),
		AcceptTags: []osm.Tags{
			{
				"boundary":                  "national_park",
				"protect_class":             "2",
				"protection_title":          "National Park",
				"protection_title:wikidata": "Q46169",
			},
		},
	},
	"Nature Reserve": {
		Tags: protectedArea("Nature Reserve", "Q113561028", "1a"),
	},
	"Pass": {Tags: osm.Tags{"natural": "saddle"}}, // mountain pass / saddle
	"Peak": {Tags: seaArea("peak")},
	"Peninsula": {
		Tags:       osm.Tags{"natural": "peninsula"},
		AcceptTags: []osm.Tags{{"natural": "cape"}},
	},
	"Pinnacle": {Tags: seaArea("pinnacle")},
	"Place":    {Tags: osm.Tags{"place": "locality"}}, // including american places around McMurdo
	"Plain":    {Tags: seaArea("terrace")},
	"Plateau": {
		OnLandTags: osm.Tags{"place": "locality"},
		SubseaTags: seaArea("plateau"),
	},
	"Point":            {Tags: osm.Tags{"natural": "cape"}}, // point, headland, cape
	"Pool":             {Tags: osm.Tags{"natural": "water"}, AddTags: osm.Tags{"water": "stream_pool"}},
	"Port":             {Tags: osm.Tags{"natural": "bay"}}, // these are not `industrial=port`
	"Railway Crossing": {Tags: osm.Tags{"place": "locality"}}, // only 2 features, both localities
	"Railway Junction": {Tags: osm.Tags{"railway": "yard"}},
	"Railway Line": {
		Tags:       osm.Tags{"type": "route", "route": "railway"},
		AcceptTags: []osm.Tags{{"type": "route", "route": "train"}}, // exception for vintage railways
		ChillMode:  "official_name",
	},
	"Railway Station": {
		Tags:       osm.Tags{"railway": "station"},
		AcceptTags: []osm.Tags{{"railway": "halt"}},
	},
	"Ramsar Wetland": {Tags: osm.Tags{"natural": "wetland", "ramsar": "yes"}},
	"Range":          {Tags: osm.Tags{"natural": "ridge"}, SkipAntarctica: true},
	"Rapid": {
		Tags:       osm.Tags{"natural": "water", "water": "rapids"},
		AcceptTags: []osm.Tags{{"waterway": "waterfall"}},
	},
	"Recreation": {Tags: osm.Tags{"place": "locality"}}, // named places within ski fields
	"Recreation Reserve": {
		Tags: protectedArea("Recreation Reserve", "Q112161186", "5"),
	},
	"Reef": {
		Tags: osm.Tags{"natural": "reef"},
		AcceptTags: []osm.Tags{
			{"natural": "rock"},
			{"natural": "bare_rock"},
			{"natural": "shoal"},
		},
	},
	"Reserve (non-CPA)": {Tags: osm.Tags{"leisure": "park"}},
	"Ridge": {
		OnLandTags:     osm.Tags{"natural": "ridge"},
		SubseaTags:     seaArea("ridge"),
		AcceptTags:     []osm.Tags{{"natural": "mountain_range"}},
		SkipAntarctica: true,
	},
	"Rise":      {Tags: seaArea("rise")},
	"Road":      skip,
	"Roadstead": {Tags: osm.Tags{"natural": "bay"}},
	"Rock": {
		Tags: osm.Tags{"natural": "rock"},
		AcceptTags: []osm.Tags{
			{"natural": "bare_rock"},
			{"natural": "stone"},
			{"natural": "peak"},
			{"place": "islet"},
			{"place": "island"},
			{"place": "archipelago"},
		},
	},
	"Saddle": {Tags: seaArea("saddle")}, // these are all underwater features
	"Sanctuary Area": {
		Tags: protectedArea("Sanctuary Area", "Q112136448", "1a"),
	},
	"Scarp": {Tags: seaArea("escarpment")},
	"Scenic Reserve": {
		Tags: protectedArea("Scenic Reserve", "Q63248569", "3"),
	},
	"Scientific Reserve": {
		Tags: protectedArea("Scientific Reserve", "Q113561096", "1a"),
	},
	"Sea": {
		Tags: osm.Tags{"place": "sea"},
		AcceptTags: []osm.Tags{
			{"place": "ocean"},
			// place=sea/ocean is reserved for the seven seas, so a
			// different tag is used for some of our local waters
			seaArea("sea"),
		},
	},
	"Sea Valley":     {Tags: seaArea("valley")},
	"Seachannel":     {Tags: seaArea("sea_channel")}, // different to 'Channel' above
	"Seamount":       {Tags: seaArea("seamount")},
	"Seamount Chain": {Tags: seaArea("seamount_chain")},
	"Shelf":          {Tags: seaArea("shelf")},
	"Shelf-Edge":     {Tags: seaArea("shelf-edge")},
	"Shoal": {
		Tags: osm.Tags{
			"seamark:type":              "sea_area",
			"seamark:sea_area:category": "shoal",
			"natural":                   "shoal",
		},
		AcceptTags: []osm.Tags{
			{
				"seamark:type":              "water_turbulence",
				"seamark:sea_area:category": "shoal",
			},
			{
				"seamark:type":              "rock",
				"seamark:sea_area:category": "shoal",
				"natural":                   "rock",
			},
			{
				"seamark:type":              "obstruction",
				"seamark:sea_area:category": "shoal",
				"natural":                   "shoal",
			},
			{
				"seamark:type":              "sea_area",
				"seamark:sea_area:category": "shoal",
				"natural":                   "reef",
			},
		},
	},
	"Sill": {Tags: seaArea("sill")},
	"Site": {
		Tags:      osm.Tags{"place": "locality"},
		ChillMode: "alt_name", // official_name wouldn't be right for marae and pā
	},
	"Slope": {Tags: seaArea("slope")},
	"Spit":  {Tags: osm.Tags{"natural": "cape"}},
	"Spring": {
		Tags:       osm.Tags{"natural": "spring"},
		AcceptTags: []osm.Tags{{"natural": "hot_spring"}},
	},
	"Spur":   {Tags: seaArea("spur")},
	"Stream": skip, // streams aren't imported yet
	"Suburb": {Tags: osm.Tags{"place": "*"}, AddTags: osm.Tags{"place": "suburb"}},
	"Terrace": {
		Tags: seaArea("terrace"),
	},
	"Town":   {Tags: osm.Tags{"place": "*"}, AddTags: osm.Tags{"place": "town"}},
	"Track":  skip, // only 13 and they belong on `highway=path`s so not worth the effort
	"Trench": {Tags: seaArea("trench")},
	"Trig Station": {
		Tags:      osm.Tags{"man_made": "survey_point"},
		ChillMode: "official_name", // prefer the names from the geodetic dataset
	},
	"Trough": {Tags: seaArea("trough")},
	"Valley": { // valley and gorge
		OnLandTags: osm.Tags{"natural": "valley"},
		SubseaTags: seaArea("valley"),
		AcceptTags: []osm.Tags{
			{"natural": "gorge"},
			{"natural": "gully"},
			{"type": "waterway"}, // many are actually streams
			{"waterway": "*"},    // many are actually streams
		},
		SkipAntarctica: true,
	},
	"Village": {Tags: osm.Tags{"place": "*"}, AddTags: osm.Tags{"place": "village"}},
	"Volcano": {Tags: osm.Tags{"natural": "volcano"}},
	"Waterfall": { // or lava-waterfall
		Tags:       osm.Tags{"waterway": "waterfall"},
		AcceptTags: []osm.Tags{{"water": "rapids"}},
	},
	"Wetland": {Tags: osm.Tags{"natural": "wetland"}},
	"Wilderness Area": {
		Tags: protectedArea("Wilderness Area", "Q2445527", "1b"),
	},
	"Wildlife Management Area": {
		Tags: protectedArea("Wildlife Management Area", "Q8001309", "4"),
	},
}
