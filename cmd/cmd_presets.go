// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osm-nz/placenames/conflate"
	"github.com/osm-nz/placenames/gazetteer"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Lists the feature types and their expected OSM tagging",
	RunE: func(_ *cobra.Command, _ []string) error {
		types := make([]string, 0, len(conflate.DefaultCatalog))
		for nameType := range conflate.DefaultCatalog {
			types = append(types, string(nameType))
		}
		sort.Strings(types)

		a, b := strings.Repeat("─", 28), strings.Repeat("─", 72)
		fmt.Printf("╭─%-28s─┬─%-72s╮\n", a, b)
		fmt.Printf("│ %-28s │ %-72s│\n", "Type", "Tagging")
		fmt.Printf("├─%-28s─┼─%-72s┤\n", a, b)

		for _, nameType := range types {
			preset := conflate.DefaultCatalog[gazetteer.NameType(nameType)]
			fmt.Printf("│ %-28s │ %-72s│\n", nameType, describePreset(preset))
		}

		fmt.Printf("╰─%-28s─┴─%-72s╯\n", a, b)

		return nil
	},
}

func describePreset(preset *conflate.Preset) string {
	if preset.Skip {
		return "(skipped)"
	}

	var parts []string

	if preset.Tags != nil {
		parts = append(parts, formatTags(preset.Tags))
	} else {
		parts = append(parts,
			"land: "+formatTags(preset.OnLandTags),
			"subsea: "+formatTags(preset.SubseaTags))
	}

	if preset.ChillMode != "" {
		parts = append(parts, "chill: "+preset.ChillMode)
	}

	if preset.SkipAntarctica {
		parts = append(parts, "no antarctica")
	}

	return strings.Join(parts, "; ")
}

func formatTags(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+tags[key])
	}

	return strings.Join(pairs, " ")
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
