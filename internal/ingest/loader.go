// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/playmetrics/internal/config"
	"github.com/tomtom215/playmetrics/internal/logging"
	"github.com/tomtom215/playmetrics/internal/models"
	"github.com/tomtom215/playmetrics/internal/validation"
)

// RawStore is the warehouse surface the loader writes to.
type RawStore interface {
	TruncateRawUserMetrics(ctx context.Context) error
	InsertRawUserMetricsBatch(ctx context.Context, records []models.RawUserMetric) (int, error)
}

// Loader ingests raw metrics CSV files into the raw_user_metrics table.
// Each run is a full replace: the raw table is truncated before the first
// insert, so rerunning over the same drop directory is idempotent.
type Loader struct {
	cfg   *config.PipelineConfig
	store RawStore
}

// NewLoader creates a CSV loader writing to the given store.
func NewLoader(cfg *config.PipelineConfig, store RawStore) *Loader {
	return &Loader{
		cfg:   cfg,
		store: store,
	}
}

// Load discovers input files, truncates the raw table, and loads every file
// in lexical order. Rows violating the data contract are skipped and
// counted; a file-level failure aborts the load.
func (l *Loader) Load(ctx context.Context) (*LoadStats, error) {
	stats := &LoadStats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
	}()

	files, err := discoverFiles(l.cfg.InputDir)
	if err != nil {
		return stats, err
	}
	if len(files) == 0 {
		return stats, fmt.Errorf("no input files (*.csv, *.csv.gz) in %s", l.cfg.InputDir)
	}

	logging.Info().
		Int("files", len(files)).
		Str("input_dir", l.cfg.InputDir).
		Msg("Starting CSV load")

	if err := l.store.TruncateRawUserMetrics(ctx); err != nil {
		return stats, fmt.Errorf("truncate raw table: %w", err)
	}

	for _, file := range files {
		if err := l.loadFile(ctx, file, stats); err != nil {
			return stats, err
		}
		stats.Files++
	}

	logging.Info().
		Int("files", stats.Files).
		Int64("loaded", stats.Loaded).
		Int64("skipped", stats.Skipped).
		Dur("duration", stats.Duration()).
		Msg("CSV load completed")

	return stats, nil
}

func (l *Loader) loadFile(ctx context.Context, path string, stats *LoadStats) error {
	records, rowErrors, err := ReadFile(path)
	if err != nil {
		return err
	}

	file := filepath.Base(path)
	for _, rowErr := range rowErrors {
		stats.Processed++
		stats.Skipped++
		logging.Warn().
			Str("file", file).
			Int("line", rowErr.Line).
			Err(rowErr.Err).
			Msg("Skipping malformed row")
	}

	batch := make([]models.RawUserMetric, 0, l.batchSize())
	for _, record := range records {
		stats.Processed++

		if verr := validation.ValidateStruct(&record); verr != nil {
			stats.Skipped++
			logging.Warn().
				Str("file", file).
				Str("user_id", record.UserID).
				Str("reason", verr.Error()).
				Msg("Skipping row violating data contract")
			continue
		}

		batch = append(batch, record)
		if len(batch) >= l.batchSize() {
			if err := l.flush(ctx, batch, stats); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := l.flush(ctx, batch, stats); err != nil {
			return err
		}
	}

	logging.Debug().
		Str("file", file).
		Int("rows", len(records)).
		Int("rejected", len(rowErrors)).
		Msg("File loaded")

	return nil
}

func (l *Loader) flush(ctx context.Context, batch []models.RawUserMetric, stats *LoadStats) error {
	inserted, err := l.store.InsertRawUserMetricsBatch(ctx, batch)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	stats.Loaded += int64(inserted)
	return nil
}

func (l *Loader) batchSize() int {
	if l.cfg.BatchSize > 0 {
		return l.cfg.BatchSize
	}
	return 1000
}

// discoverFiles lists the CSV drops in dir, sorted lexically so date-stamped
// file names load in chronological order.
func discoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".csv.gz") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)

	return files, nil
}
