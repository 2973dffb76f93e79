// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osm-nz/placenames/wikidata"
)

func TestFindBestWikidata(t *testing.T) {
	t.Run("single item for the primary ref", func(t *testing.T) {
		snapshot := wikidata.Snapshot{
			100: {{PlaceRef: 100, QID: "Q500"}},
		}

		best := findBestWikidata("100", snapshot)
		require.NotNil(t, best)
		assert.Equal(t, "Q500", best.QID)
	})

	t.Run("lowest QID wins for duplicated refs", func(t *testing.T) {
		snapshot := wikidata.Snapshot{
			100: {
				{PlaceRef: 100, QID: "Q900000"},
				{PlaceRef: 100, QID: "Q500"},
				{PlaceRef: 100, QID: "Q7000"},
			},
		}

		best := findBestWikidata("100", snapshot)
		require.NotNil(t, best)
		assert.Equal(t, "Q500", best.QID)
	})

	t.Run("falls back to non-primary sub-refs in order", func(t *testing.T) {
		snapshot := wikidata.Snapshot{
			200: {{PlaceRef: 200, QID: "Q900"}},
			300: {{PlaceRef: 300, QID: "Q1"}},
		}

		best := findBestWikidata("100;200;300", snapshot)
		require.NotNil(t, best)
		assert.Equal(t, "Q900", best.QID)
	})

	t.Run("nothing linked", func(t *testing.T) {
		assert.Nil(t, findBestWikidata("100", wikidata.Snapshot{}))
	})

	t.Run("deterministic", func(t *testing.T) {
		snapshot := wikidata.Snapshot{
			100: {
				{PlaceRef: 100, QID: "Q7000"},
				{PlaceRef: 100, QID: "Q500"},
			},
		}

		for range 10 {
			best := findBestWikidata("100", snapshot)
			require.NotNil(t, best)
			assert.Equal(t, "Q500", best.QID)
		}

		// the input order is preserved
		assert.Equal(t, "Q7000", snapshot[100][0].QID)
	})
}
