// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"slices"
	"strconv"

	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/wikidata"
)

func qidNumber(qid string) int {
	if len(qid) < 2 {
		return 0
	}

	n, err := strconv.Atoi(qid[1:])
	if err != nil {
		return 0
	}

	return n
}

// findBestWikidata picks the single most trustworthy wikidata record
// for a place. The linked data can be a mess: one ref may be linked to
// several items (pending duplicate cleanup), and a merged place spans
// several refs. Prefer items linked to the primary ref, lowest QID
// first since the lowest item usually survives a merge; otherwise fall
// back to the first item linked to any of the refs. Returns nil when
// nothing is linked.
func findBestWikidata(ref string, snapshot wikidata.Snapshot) *wikidata.Item {
	refs := gazetteer.RefNumbers(ref)
	if len(refs) == 0 {
		return nil
	}
	primaryRef := refs[0]

	forPrimary := slices.Clone(snapshot[primaryRef])
	slices.SortStableFunc(forPrimary, func(a, b wikidata.Item) int {
		return qidNumber(a.QID) - qidNumber(b.QID)
	})

	if len(forPrimary) > 0 {
		return &forPrimary[0]
	}

	for _, r := range refs {
		if items := snapshot[r]; len(items) > 0 {
			item := items[0]
			return &item
		}
	}

	return nil
}
