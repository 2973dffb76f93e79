// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/osm-nz/placenames/report"
)

var serveOptions = struct {
	dbPath string
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves stored conflation runs for review",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := sql.Open("duckdb", serveOptions.dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		repo := report.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		log.Printf("review server on http://localhost:8080 (db: %s)", serveOptions.dbPath)

		return report.NewServer(repo).Run()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveOptions.dbPath, "db", "placenames.duckdb",
		"duckdb file holding stored runs")

	rootCmd.AddCommand(serveCmd)
}
