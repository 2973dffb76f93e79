// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package conflate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/osm-nz/placenames/osm"
	"github.com/osm-nz/placenames/wikidata"
)

// DefaultTrivialKeys is the default set of tag keys whose changes are
// not worth an edit on their own. The exact set is policy, not
// mechanism; callers may override it via Options.TrivialKeys.
var DefaultTrivialKeys = []string{
	ActionKey,
	osm.RefTag,
	"wikipedia",
	"name:etymology",
	"name:etymology:wikidata",
}

// Config is the per-identifier override map, maintained by hand. Map
// values are free-form justification strings; only the keys matter.
type Config struct {
	// AllowInconsistentDiacritics permits macron differences even for
	// official names, per ref
	AllowInconsistentDiacritics map[string]string `json:"allowInconsistentDiacritics"`

	// Overrides are free-form field overrides, per ref
	Overrides map[string]string `json:"overrides"`

	// Ignore lists refs to drop entirely
	Ignore map[string]string `json:"ignore"`
}

// LoadConfig reads the override config from a JSON file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &config, nil
}

// Options controls one conflation run.
type Options struct {
	// Catalog defaults to DefaultCatalog
	Catalog Catalog

	// Config defaults to an empty config
	Config *Config

	// TrivialKeys defaults to DefaultTrivialKeys
	TrivialKeys []string

	// Progress renders a progress bar on TTYs
	Progress bool

	// FindNearby attaches possible-existing-feature warnings to add
	// verdicts, using the unreffed crowd features
	FindNearby bool

	// Redirects, if set, is used to resolve conflicting wikidata tags
	// after the main pass
	Redirects *wikidata.Client
}
