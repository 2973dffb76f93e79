// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package osm

import (
	"encoding/json"
	"fmt"
	"os"
)

// RefTag is the tag that links a crowd feature back to the gazetteer.
const RefTag = "ref:linz:place_id"

// Snapshot is the crowd dataset for one run. ByRef is keyed by the
// value of the gazetteer ref tag, including composite (semicolon
// joined) values. NoRef holds features that matched a layer query but
// carry no ref tag; they are only used for nearby-candidate
// diagnostics.
type Snapshot struct {
	ByRef map[string]*Feature `json:"byRef"`
	NoRef []*Feature          `json:"noRef,omitempty"`
}

// CompositeRefs returns every ref in the snapshot that joins multiple
// gazetteer rows.
func (s *Snapshot) CompositeRefs() []string {
	var refs []string

	for ref := range s.ByRef {
		for i := range ref {
			if ref[i] == ';' {
				refs = append(refs, ref)

				break
			}
		}
	}

	return refs
}

// Load reads a crowd-database snapshot from a JSON file.
func Load(filepath string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("reading osm snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing osm snapshot: %w", err)
	}

	if snapshot.ByRef == nil {
		snapshot.ByRef = map[string]*Feature{}
	}

	return &snapshot, nil
}
