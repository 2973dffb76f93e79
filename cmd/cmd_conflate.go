// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/osm-nz/placenames/conflate"
	"github.com/osm-nz/placenames/gazetteer"
	"github.com/osm-nz/placenames/osm"
	"github.com/osm-nz/placenames/report"
	"github.com/osm-nz/placenames/wikidata"
)

var conflateOptions = struct {
	gazetteerPath  string
	rawRows        bool
	osmPath        string
	wikidataPath   string
	configPath     string
	outPath        string
	dbPath         string
	findNearby     bool
	checkRedirects bool
	noProgress     bool
}{}

var conflateCmd = &cobra.Command{
	Use:   "conflate",
	Short: "Compares the gazetteer against OSM and writes patch files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		places, err := loadPlaces()
		if err != nil {
			return err
		}

		snapshot, err := osm.Load(conflateOptions.osmPath)
		if err != nil {
			return err
		}

		wiki := wikidata.Snapshot{}
		if conflateOptions.wikidataPath != "" {
			if wiki, err = wikidata.Load(conflateOptions.wikidataPath); err != nil {
				return err
			}
		}

		opts := conflate.Options{
			Progress:   !conflateOptions.noProgress,
			FindNearby: conflateOptions.findNearby,
		}

		if conflateOptions.configPath != "" {
			if opts.Config, err = conflate.LoadConfig(conflateOptions.configPath); err != nil {
				return err
			}
		}

		if conflateOptions.checkRedirects {
			opts.Redirects = wikidata.NewClient("", conflate.UserAgent)
		}

		log.Printf("conflating %d gazetteer entries against %d OSM features",
			len(places), len(snapshot.ByRef))

		output, err := conflate.Run(cmd.Context(), places, snapshot, wiki, opts)
		if err != nil {
			return err
		}

		if err := writeOutput(output); err != nil {
			return err
		}

		if conflateOptions.dbPath != "" {
			if err := storeRun(output); err != nil {
				return err
			}
		}

		printSummary(output)

		return nil
	},
}

func loadPlaces() (gazetteer.Set, error) {
	if !conflateOptions.rawRows {
		return gazetteer.Load(conflateOptions.gazetteerPath)
	}

	rows, err := gazetteer.LoadRows(conflateOptions.gazetteerPath)
	if err != nil {
		return nil, err
	}

	return gazetteer.Build(rows)
}

func writeOutput(output *conflate.Output) error {
	if err := writeJSON(conflateOptions.outPath, output); err != nil {
		return err
	}

	log.Printf("wrote %d features to %s", len(output.Features), conflateOptions.outPath)

	dir := filepath.Dir(conflateOptions.outPath)
	for name, patch := range output.ChildPatches {
		path := filepath.Join(dir, childPatchFilename(name))
		if err := writeJSON(path, patch); err != nil {
			return err
		}

		log.Printf("wrote %d features to %s", len(patch.Features), path)
	}

	return nil
}

func childPatchFilename(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-")) + ".osmPatch.geo.json"
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - output is public data
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func storeRun(output *conflate.Output) error {
	db, err := sql.Open("duckdb", conflateOptions.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	repo := report.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	runID, err := repo.StoreRun(output)
	if err != nil {
		return fmt.Errorf("storing run: %w", err)
	}

	log.Printf("stored run %d in %s", runID, conflateOptions.dbPath)

	return nil
}

func printSummary(output *conflate.Output) {
	layers := make([]string, 0, len(output.Stats))
	for layer := range output.Stats {
		layers = append(layers, string(layer))
	}
	sort.Strings(layers)

	var adds, edits, okays int

	for _, layer := range layers {
		stats := output.Stats[gazetteer.NameType(layer)]
		adds += stats.AddCount
		edits += stats.EditCount
		okays += stats.OkayCount
	}

	log.Printf("done: %d to add, %d to edit, %d already correct across %d layers",
		adds, edits, okays, len(layers))

	if output.Warnings != nil {
		total := len(output.Warnings.CustomMerge) +
			len(output.Warnings.NonRedirectConflicts) +
			len(output.Warnings.NearbyCandidates)
		if total > 0 {
			log.Printf("%d warnings need human attention", total)
		}
	}
}

func init() {
	conflateCmd.Flags().StringVar(&conflateOptions.gazetteerPath, "gazetteer", "gazetteer.json",
		"path to the gazetteer snapshot")
	conflateCmd.Flags().BoolVar(&conflateOptions.rawRows, "raw", false,
		"treat the gazetteer file as raw rows and combine them first")
	conflateCmd.Flags().StringVar(&conflateOptions.osmPath, "osm", "osm.json",
		"path to the OSM snapshot")
	conflateCmd.Flags().StringVar(&conflateOptions.wikidataPath, "wikidata", "",
		"path to the wikidata snapshot (optional)")
	conflateCmd.Flags().StringVar(&conflateOptions.configPath, "config", "",
		"path to the per-ref override config (optional)")
	conflateCmd.Flags().StringVar(&conflateOptions.outPath, "out", "nzgb.osmPatch.geo.json",
		"path for the main patch file")
	conflateCmd.Flags().StringVar(&conflateOptions.dbPath, "db", "",
		"duckdb file to store the run in (optional)")
	conflateCmd.Flags().BoolVar(&conflateOptions.findNearby, "find-nearby", false,
		"warn about unreffed OSM features that may already represent a place")
	conflateCmd.Flags().BoolVar(&conflateOptions.checkRedirects, "check-redirects", false,
		"query wikidata for redirects of conflicting tags")
	conflateCmd.Flags().BoolVar(&conflateOptions.noProgress, "no-progress", false,
		"disable the progress bar")

	rootCmd.AddCommand(conflateCmd)
}
