// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package config

import (
	"time"
)

// DateLayout is the wire format for the pipeline's date-window bounds.
const DateLayout = "2006-01-02"

// Config is the root configuration for a pipeline run.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig configures the embedded DuckDB warehouse.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Use ":memory:" for an ephemeral
	// database (tests).
	Path string `koanf:"path"`

	// MaxMemory is DuckDB's memory limit, e.g. "2GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = use runtime.NumCPU().
	Threads int `koanf:"threads"`

	// PreserveInsertionOrder keeps DuckDB's default result ordering; turning
	// it off reduces memory usage for large loads.
	PreserveInsertionOrder bool `koanf:"preserve_insertion_order"`
}

// PipelineConfig configures one batch run: the input location, the inclusive
// date window the staging transform filters to, and the optional outputs.
type PipelineConfig struct {
	// InputDir holds the raw CSV drops (*.csv or *.csv.gz).
	InputDir string `koanf:"input_dir"`

	// StartDate and EndDate bound the closed date window (YYYY-MM-DD, both
	// inclusive). Both are required.
	StartDate string `koanf:"start_date"`
	EndDate   string `koanf:"end_date"`

	// BatchSize is the number of rows per INSERT batch during ingestion.
	BatchSize int `koanf:"batch_size"`

	// SkipIngest reruns the transforms over the already-loaded raw table
	// without reloading the CSV input.
	SkipIngest bool `koanf:"skip_ingest"`

	// ExportPath, when set, receives a CSV export of daily_metrics after a
	// successful run.
	ExportPath string `koanf:"export_path"`

	// ReportPath, when set, receives the JSON run report (per-step timing
	// plus the quality-gate results).
	ReportPath string `koanf:"report_path"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// Window returns the parsed inclusive date bounds. Validate() has already
// checked both parse and ordering, so errors here only occur when Validate
// was skipped.
func (p *PipelineConfig) Window() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(DateLayout, p.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.ParseInLocation(DateLayout, p.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/playmetrics.duckdb",
			MaxMemory:              "2GB",
			Threads:                0,    // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true, // DuckDB default
		},
		Pipeline: PipelineConfig{
			InputDir:   "/data/raw",
			StartDate:  "",
			EndDate:    "",
			BatchSize:  1000,
			SkipIngest: false,
			ExportPath: "",
			ReportPath: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
