// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

// validateDatabase validates the DuckDB settings.
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

// validatePipeline validates the run parameters, including the date window.
func (c *Config) validatePipeline() error {
	if !c.Pipeline.SkipIngest && c.Pipeline.InputDir == "" {
		return fmt.Errorf("INPUT_DIR is required unless SKIP_INGEST=true")
	}
	if c.Pipeline.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be > 0, got %d", c.Pipeline.BatchSize)
	}

	if c.Pipeline.StartDate == "" {
		return fmt.Errorf("START_DATE is required (YYYY-MM-DD)")
	}
	if c.Pipeline.EndDate == "" {
		return fmt.Errorf("END_DATE is required (YYYY-MM-DD)")
	}

	start, err := time.ParseInLocation(DateLayout, c.Pipeline.StartDate, time.UTC)
	if err != nil {
		return fmt.Errorf("START_DATE is invalid: %w", err)
	}
	end, err := time.ParseInLocation(DateLayout, c.Pipeline.EndDate, time.UTC)
	if err != nil {
		return fmt.Errorf("END_DATE is invalid: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("END_DATE %s is before START_DATE %s", c.Pipeline.EndDate, c.Pipeline.StartDate)
	}

	return nil
}

// validateLogging validates the logging settings.
func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is invalid", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT %q is invalid (json or console)", c.Logging.Format)
	}

	return nil
}
