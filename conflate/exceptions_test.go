// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrettyMuchEqual(t *testing.T) {
	assert.True(t, isPrettyMuchEqual("Puhoi", "Pūhoi"))
	assert.True(t, isPrettyMuchEqual("Otaki", "Ōtaki"))
	assert.True(t, isPrettyMuchEqual("Paekakariki", "Paekākāriki"))

	// identical is fine too
	assert.True(t, isPrettyMuchEqual("Pūhoi", "Pūhoi"))

	// only the crowd name may carry the diacritics
	assert.False(t, isPrettyMuchEqual("Pūhoi", "Puhoi"))

	// different length or word order is never equal
	assert.False(t, isPrettyMuchEqual("Puhoi", "Pūhoi Village"))
	assert.False(t, isPrettyMuchEqual("North Head", "Head North"))
}

func TestNormaliseTrivialNameDifferences(t *testing.T) {
	cases := map[string]string{
		"Saint Arnaud": "St Arnaud",
		"St. Arnaud":   "St Arnaud",
		"Mount Albert": "Mt Albert",
		"Mt Eden":      "Mt Eden",

		"Ruataniwha Government Purpose Reserve": "Ruataniwha Reserve",
	}

	for input, want := range cases {
		assert.Equal(t, want, normaliseTrivialNameDifferences(input), input)
	}
}
