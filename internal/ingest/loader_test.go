// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/playmetrics/internal/config"
	"github.com/tomtom215/playmetrics/internal/models"
)

// fakeRawStore records loader writes without a real warehouse.
type fakeRawStore struct {
	truncated bool
	batches   [][]models.RawUserMetric
	records   []models.RawUserMetric
}

func (s *fakeRawStore) TruncateRawUserMetrics(_ context.Context) error {
	s.truncated = true
	return nil
}

func (s *fakeRawStore) InsertRawUserMetricsBatch(_ context.Context, records []models.RawUserMetric) (int, error) {
	batch := make([]models.RawUserMetric, len(records))
	copy(batch, records)
	s.batches = append(s.batches, batch)
	s.records = append(s.records, batch...)
	return len(records), nil
}

func writeInputDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func loaderConfig(dir string) *config.PipelineConfig {
	return &config.PipelineConfig{
		InputDir:  dir,
		StartDate: "2024-02-01",
		EndDate:   "2024-02-29",
		BatchSize: 1000,
	}
}

func TestLoad_SingleFile(t *testing.T) {
	dir := writeInputDir(t, map[string]string{"metrics.csv": sampleCSV})
	store := &fakeRawStore{}

	stats, err := NewLoader(loaderConfig(dir), store).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !store.truncated {
		t.Error("Expected raw table truncate before load")
	}
	if stats.Files != 1 {
		t.Errorf("Expected 1 file, got %d", stats.Files)
	}
	if stats.Loaded != 2 || stats.Skipped != 0 {
		t.Errorf("Expected 2 loaded / 0 skipped, got %d / %d", stats.Loaded, stats.Skipped)
	}
	if len(store.records) != 2 {
		t.Errorf("Expected 2 stored records, got %d", len(store.records))
	}
}

func TestLoad_ContractViolationsSkipped(t *testing.T) {
	// Rows parse fine but violate the contract: missing user_id, bad platform
	content := sampleCSV +
		",2024-02-10,android,,,1,60,0,0,0,0,0,0,0\n" +
		"user-w,2024-02-10,windows,,,1,60,0,0,0,0,0,0,0\n"
	dir := writeInputDir(t, map[string]string{"metrics.csv": content})
	store := &fakeRawStore{}

	stats, err := NewLoader(loaderConfig(dir), store).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stats.Processed != 4 {
		t.Errorf("Expected 4 processed, got %d", stats.Processed)
	}
	if stats.Loaded != 2 {
		t.Errorf("Expected 2 loaded, got %d", stats.Loaded)
	}
	if stats.Skipped != 2 {
		t.Errorf("Expected 2 skipped, got %d", stats.Skipped)
	}
}

func TestLoad_MultipleFilesLexicalOrder(t *testing.T) {
	header := "user_id,event_date,platform,install_date,country,total_session_count,total_session_duration,match_start_count,match_end_count,victory_count,defeat_count,server_connection_error,iap_revenue,ad_revenue\n"
	dir := writeInputDir(t, map[string]string{
		"2024-02-11.csv": header + "user-later,2024-02-11,ios,,,1,60,0,0,0,0,0,0,0\n",
		"2024-02-10.csv": header + "user-earlier,2024-02-10,android,,,1,60,0,0,0,0,0,0,0\n",
	})
	store := &fakeRawStore{}

	stats, err := NewLoader(loaderConfig(dir), store).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stats.Files != 2 {
		t.Errorf("Expected 2 files, got %d", stats.Files)
	}
	if len(store.records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(store.records))
	}
	if store.records[0].UserID != "user-earlier" {
		t.Errorf("Expected date-stamped files to load in order, first record: %s",
			store.records[0].UserID)
	}
}

func TestLoad_BatchSizeRespected(t *testing.T) {
	header := "user_id,event_date,platform,install_date,country,total_session_count,total_session_duration,match_start_count,match_end_count,victory_count,defeat_count,server_connection_error,iap_revenue,ad_revenue\n"
	content := header
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		content += id + ",2024-02-10,android,,,1,60,0,0,0,0,0,0,0\n"
	}
	dir := writeInputDir(t, map[string]string{"metrics.csv": content})
	store := &fakeRawStore{}

	cfg := loaderConfig(dir)
	cfg.BatchSize = 2
	stats, err := NewLoader(cfg, store).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stats.Loaded != 5 {
		t.Errorf("Expected 5 loaded, got %d", stats.Loaded)
	}
	if len(store.batches) != 3 { // 2 + 2 + 1
		t.Errorf("Expected 3 batches, got %d", len(store.batches))
	}
}

func TestLoad_NoInputFiles(t *testing.T) {
	dir := t.TempDir()
	store := &fakeRawStore{}

	if _, err := NewLoader(loaderConfig(dir), store).Load(context.Background()); err == nil {
		t.Fatal("Expected error for empty input directory")
	}
	if store.truncated {
		t.Error("Raw table must not be truncated when there is no input")
	}
}
