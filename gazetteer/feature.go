// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"strconv"
	"strings"
)

// NameType is one of the gazetteer's ~120 feature categories
// (e.g. "Bay", "Abyssal Plain", "Railway Station").
type NameType string

// Place is one named geographic entity from the gazetteer, keyed by its
// ref. A ref may be composite (semicolon-joined) when several gazetteer
// rows describe the same physical feature.
type Place struct {
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Type       NameType `json:"type"`
	Name       string   `json:"name"`
	Official   bool     `json:"official,omitempty"`
	AltNames   []string `json:"altNames,omitempty"`
	OldNames   []string `json:"oldNames,omitempty"`
	OldRefs    []int    `json:"oldRefs,omitempty"`
	IsArea     bool     `json:"isArea,omitempty"`
	IsUndersea bool     `json:"isUndersea,omitempty"`
}

// Set is the gazetteer dataset, keyed by ref (possibly composite).
type Set map[string]*Place

// SubRefs splits a possibly composite ref into its components.
func SubRefs(ref string) []string {
	return strings.Split(ref, ";")
}

// PrimaryRef returns the first component of a possibly composite ref.
func PrimaryRef(ref string) string {
	ref, _, _ = strings.Cut(ref, ";")

	return ref
}

// IsComposite reports whether ref joins more than one gazetteer row.
func IsComposite(ref string) bool {
	return strings.Contains(ref, ";")
}

// RefNumbers parses every component of a composite ref. Components that
// are not decimal integers are skipped.
func RefNumbers(ref string) []int {
	subRefs := SubRefs(ref)
	numbers := make([]int, 0, len(subRefs))

	for _, subRef := range subRefs {
		if n, err := strconv.Atoi(subRef); err == nil {
			numbers = append(numbers, n)
		}
	}

	return numbers
}
