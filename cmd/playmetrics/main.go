// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

// Package main is the entry point for the playmetrics batch pipeline.
//
// Playmetrics turns daily CSV drops of per-user mobile game metrics into a
// business-facing daily_metrics table, keyed by (event_date, country,
// platform). One invocation is one batch run over a configured date window.
//
// # Pipeline Stages
//
// A run executes the following stages in order; the first failure aborts
// the run and the process exits non-zero:
//
//  1. Ingest: load *.csv / *.csv.gz drops into raw_user_metrics
//  2. Staging: normalize and annotate rows into stg_user_metrics
//  3. Marts: aggregate the staging snapshot into daily_metrics
//  4. Quality gate: SQL checks over the materialized daily_metrics
//  5. Export (optional): write daily_metrics to a CSV file
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// Required settings:
//   - START_DATE, END_DATE: inclusive date window (YYYY-MM-DD)
//   - INPUT_DIR: directory holding the CSV drops (unless SKIP_INGEST=true)
//
// Common optional settings:
//   - DUCKDB_PATH: warehouse file (default /data/playmetrics.duckdb)
//   - SKIP_INGEST=true: rerun transforms over the already-loaded raw table
//   - EXPORT_PATH: CSV export destination for daily_metrics
//   - REPORT_PATH: JSON run report destination
//   - LOG_LEVEL, LOG_FORMAT: logging verbosity and encoding
//
// # Example Usage
//
// Daily run over February 2024:
//
//	export INPUT_DIR=/data/drops
//	export START_DATE=2024-02-01
//	export END_DATE=2024-02-29
//	export EXPORT_PATH=/data/out/daily_metrics.csv
//	./playmetrics
//
// Recompute transforms without reloading CSVs:
//
//	export SKIP_INGEST=true
//	export START_DATE=2024-02-01
//	export END_DATE=2024-02-29
//	./playmetrics
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the run context; the current database operation
// finishes or times out, the run is reported as failed, and the process
// exits non-zero. Full-replace writes keep the warehouse consistent across
// interrupted runs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/playmetrics/internal/config"
	"github.com/tomtom215/playmetrics/internal/database"
	"github.com/tomtom215/playmetrics/internal/logging"
	"github.com/tomtom215/playmetrics/internal/pipeline"
)

func main() {
	os.Exit(run())
}

// run carries the real main body so deferred cleanup executes before the
// process exits with a status code.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("input_dir", cfg.Pipeline.InputDir).
		Str("start_date", cfg.Pipeline.StartDate).
		Str("end_date", cfg.Pipeline.EndDate).
		Bool("skip_ingest", cfg.Pipeline.SkipIngest).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize database")
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(cfg, db)
	report, err := runner.Run(ctx)
	if err != nil {
		logging.Error().
			Str("run_id", report.RunID).
			Err(err).
			Msg("Pipeline run failed")
		return 1
	}

	return 0
}
