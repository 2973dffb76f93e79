// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads an already-combined ref-keyed snapshot from a JSON file.
func Load(filepath string) (Set, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("reading gazetteer snapshot: %w", err)
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing gazetteer snapshot: %w", err)
	}

	return set, nil
}

// LoadRows reads raw gazetteer rows from a JSON file, for use with Build.
func LoadRows(filepath string) ([]RawRow, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("reading gazetteer rows: %w", err)
	}

	var rows []RawRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing gazetteer rows: %w", err)
	}

	return rows, nil
}
