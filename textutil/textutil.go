// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// StripDiacritics removes combining marks from a string, so that
// "Pūhoi" becomes "Puhoi". The input is returned unchanged if the
// transform fails (it can't for valid UTF-8).
func StripDiacritics(s string) string {
	out, _, err := transform.String(stripper, s)
	if err != nil {
		return s
	}

	return out
}

// Fold normalizes a string for fuzzy comparison: lowercased, trimmed,
// and with diacritics removed.
func Fold(s string) string {
	return StripDiacritics(strings.TrimSpace(strings.ToLower(s)))
}
