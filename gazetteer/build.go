// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// RawRow is one already-parsed row of the gazetteer export. Each row is
// one *name*; several rows may share a feat_id when a physical feature
// has multiple names (dual names, superseded names).
type RawRow struct {
	NameID    int      `json:"name_id"`
	FeatID    string   `json:"feat_id"`
	Name      string   `json:"name"`
	Status    string   `json:"status"` // "Official ...", "Unofficial Replaced", "Unofficial ..."
	FeatType  NameType `json:"feat_type"`
	MaoriName bool     `json:"maori_name"`
	GeomType  string   `json:"geom_type"` // POINT, LINE, POLYGON
	Gebco     string   `json:"gebco,omitempty"`
	Lat       float64  `json:"crd_latitude"`
	Lng       float64  `json:"crd_longitude"`
}

type nameStatus byte

const (
	statusOfficial   nameStatus = 'O'
	statusReplaced   nameStatus = 'R'
	statusUnofficial nameStatus = 'U'
)

type tempName struct {
	name   string
	ref    int
	status nameStatus
	teReo  bool
}

type tempFeature struct {
	lat, lng   float64
	featType   NameType
	names      []tempName
	isArea     bool
	isUndersea bool
}

var (
	trailingPa      = regexp.MustCompile(`(?i) pa$`)
	stationSuffixes = regexp.MustCompile(`( Railway)? Station$`)
)

// these transformations must be kept to a bare minimum
func transformName(name string, featType NameType) string {
	name = trailingPa.ReplaceAllString(strings.TrimSpace(name), " Pā")

	// for train stations, OSM doesn't include the suffix in the name
	if featType == "Railway Station" {
		name = stationSuffixes.ReplaceAllString(name, "")
	}

	return name
}

func (row *RawRow) toStatus() nameStatus {
	switch {
	case strings.HasPrefix(row.Status, "Official"):
		return statusOfficial
	case row.Status == "Unofficial Replaced":
		return statusReplaced
	default:
		return statusUnofficial
	}
}

// Build groups raw rows by physical feature and combines each group
// into a single ref-keyed Place. Official names take priority; if a
// feature has none, its newest unofficial names are used. Te reo names
// sort first within a group, and composite refs are joined newest
// first.
func Build(rows []RawRow) (Set, error) {
	temp := map[string]*tempFeature{}
	featIDs := make([]string, 0)

	for i := range rows {
		row := &rows[i]

		// "Discontinued" features don't exist or are completely irrelevant
		if strings.HasSuffix(row.Status, "Discontinued") {
			continue
		}

		feature, ok := temp[row.FeatID]
		if !ok {
			feature = &tempFeature{
				lat:        row.Lat,
				lng:        row.Lng,
				featType:   row.FeatType,
				isArea:     row.GeomType != "POINT",
				isUndersea: row.Gebco != "", // Y or N means underwater, blank means on land
			}
			temp[row.FeatID] = feature
			featIDs = append(featIDs, row.FeatID)
		}

		feature.names = append(feature.names, tempName{
			name:   transformName(row.Name, row.FeatType),
			ref:    row.NameID,
			status: row.toStatus(),
			teReo:  row.MaoriName,
		})
	}

	sort.Strings(featIDs)

	out := Set{}

	for _, featID := range featIDs {
		feature := temp[featID]

		ref, place, err := combine(feature)
		if err != nil {
			return nil, fmt.Errorf("gazetteer feature %s: %w", featID, err)
		}

		if place == nil {
			log.Printf("(!) Broken entry %s", joinNames(feature.names))

			continue
		}

		out[ref] = place
	}

	return out, nil
}

func combine(feature *tempFeature) (string, *Place, error) {
	official := filterNames(feature.names, statusOfficial)
	if len(official) > 2 {
		return "", nil, fmt.Errorf("more than 2 official names")
	}

	place := &Place{
		Lat:        feature.lat,
		Lng:        feature.lng,
		Type:       feature.featType,
		IsArea:     feature.isArea,
		IsUndersea: feature.isUndersea,
	}

	var main []tempName

	if len(official) > 0 {
		main = official
		place.Official = true

		for _, n := range filterNames(feature.names, statusUnofficial) {
			place.AltNames = append(place.AltNames, n.name)
		}
	} else {
		main = filterNames(feature.names, statusUnofficial)
		if len(main) == 0 {
			return "", nil, nil // only replaced names left, nothing to key by
		}

		for _, n := range feature.names {
			place.OldRefs = append(place.OldRefs, n.ref)
		}
	}

	place.Name = joinNames(main)

	// superseded names which are just subsets of the primary name are dropped
	for _, n := range filterNames(feature.names, statusReplaced) {
		if !strings.Contains(place.Name, n.name) {
			place.OldNames = append(place.OldNames, n.name)
		}
	}

	return compositeRef(main), place, nil
}

// filterNames returns the names with the given status, te reo first.
func filterNames(names []tempName, status nameStatus) []tempName {
	var out []tempName

	for _, n := range names {
		if n.status == status {
			out = append(out, n)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].teReo && !out[j].teReo
	})

	return out
}

func joinNames(names []tempName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.name
	}

	name := strings.Join(parts, " / ")

	// put a space on either side of a slash that came from the raw data
	name = strings.Replace(name, "/", " / ", 1)
	name = strings.Replace(name, "  /  ", " / ", 1)

	return name
}

// compositeRef joins the refs of a name group, newest (highest) first.
func compositeRef(names []tempName) string {
	refs := make([]int, len(names))
	for i, n := range names {
		refs[i] = n.ref
	}

	sort.Sort(sort.Reverse(sort.IntSlice(refs)))

	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = strconv.Itoa(ref)
	}

	return strings.Join(parts, ";")
}
