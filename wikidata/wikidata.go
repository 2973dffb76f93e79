// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package wikidata

import (
	"encoding/json"
	"fmt"
	"os"
)

// Item links a gazetteer ref to a wikidata entity, optionally carrying
// etymology and wikipedia metadata. Several items may share a ref when
// wikidata has duplicate entries.
type Item struct {
	PlaceRef     int    `json:"ref"`
	QID          string `json:"qid"`
	Etymology    string `json:"etymology,omitempty"`
	EtymologyQID string `json:"etymologyQid,omitempty"`
	Wikipedia    string `json:"wikipedia,omitempty"`
}

// Snapshot is the cross-reference dataset, keyed by gazetteer ref.
type Snapshot map[int][]Item

// Load reads a cross-reference snapshot from a JSON file.
func Load(filepath string) (Snapshot, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("reading wikidata snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing wikidata snapshot: %w", err)
	}

	return snapshot, nil
}
