// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package ingest

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/playmetrics/internal/models"
)

const sampleCSV = `user_id,event_date,platform,install_date,country,total_session_count,total_session_duration,match_start_count,match_end_count,victory_count,defeat_count,server_connection_error,iap_revenue,ad_revenue
user-a,2024-02-10,android,2024-02-01,Turkey,3,600,4,4,3,1,1,12.0,2.0
user-b,2024-02-10,ios,,,1,120,0,0,0,0,0,0,0.5
`

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}
	return path
}

func writeTempGzipCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write gzip content: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}
	return path
}

func TestReadFile_Plain(t *testing.T) {
	path := writeTempCSV(t, "metrics.csv", sampleCSV)

	records, rowErrors, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Errorf("Expected no row errors, got %v", rowErrors)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.UserID != "user-a" {
		t.Errorf("Expected user-a, got %s", first.UserID)
	}
	if !first.EventDate.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected event date: %v", first.EventDate)
	}
	if first.Platform != models.PlatformAndroid {
		t.Errorf("Expected android, got %s", first.Platform)
	}
	if first.Country != "Turkey" {
		t.Errorf("Expected Turkey, got %q", first.Country)
	}
	if first.TotalSessionCount != 3 || first.TotalSessionDuration != 600 {
		t.Errorf("Session fields mismatch: count=%d duration=%v",
			first.TotalSessionCount, first.TotalSessionDuration)
	}
	if first.IAPRevenue != 12.0 || first.AdRevenue != 2.0 {
		t.Errorf("Revenue mismatch: iap=%v ad=%v", first.IAPRevenue, first.AdRevenue)
	}

	// Empty install_date and country stay zero-valued
	second := records[1]
	if !second.InstallDate.IsZero() {
		t.Errorf("Expected zero install date, got %v", second.InstallDate)
	}
	if second.Country != "" {
		t.Errorf("Expected empty country, got %q", second.Country)
	}
}

func TestReadFile_Gzip(t *testing.T) {
	path := writeTempGzipCSV(t, "metrics.csv.gz", sampleCSV)

	records, rowErrors, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed on gzip input: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Errorf("Expected no row errors, got %v", rowErrors)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestReadFile_ShuffledColumns(t *testing.T) {
	content := `country,user_id,ad_revenue,event_date,platform,install_date,total_session_count,total_session_duration,match_start_count,match_end_count,victory_count,defeat_count,server_connection_error,iap_revenue
Brazil,user-c,1.5,2024-02-11,ios,2024-01-20,2,300,1,1,1,0,0,4.0
`
	path := writeTempCSV(t, "shuffled.csv", content)

	records, _, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.UserID != "user-c" || r.Country != "Brazil" || r.AdRevenue != 1.5 {
		t.Errorf("Column mapping broken: %+v", r)
	}
}

func TestReadFile_MissingRequiredColumn(t *testing.T) {
	content := `user_id,platform
user-a,android
`
	path := writeTempCSV(t, "broken.csv", content)

	_, _, err := ReadFile(path)
	if err == nil {
		t.Fatal("Expected error for missing required columns")
	}
	if !strings.Contains(err.Error(), "event_date") {
		t.Errorf("Error should name the missing column, got: %v", err)
	}
}

func TestReadFile_MalformedRowsSkipped(t *testing.T) {
	content := sampleCSV +
		"user-x,not-a-date,android,,,1,60,0,0,0,0,0,0,0\n" +
		"user-y,2024-02-10,android,,,abc,60,0,0,0,0,0,0,0\n"
	path := writeTempCSV(t, "partial.csv", content)

	records, rowErrors, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 good records, got %d", len(records))
	}
	if len(rowErrors) != 2 {
		t.Fatalf("Expected 2 row errors, got %d", len(rowErrors))
	}
	if rowErrors[0].Line != 4 {
		t.Errorf("Expected first error on line 4, got %d", rowErrors[0].Line)
	}
	if !strings.Contains(rowErrors[0].Err.Error(), "event_date") {
		t.Errorf("First error should mention event_date: %v", rowErrors[0].Err)
	}
	if !strings.Contains(rowErrors[1].Err.Error(), "total_session_count") {
		t.Errorf("Second error should mention total_session_count: %v", rowErrors[1].Err)
	}
}

func TestReadFile_EmptyNumericCells(t *testing.T) {
	content := `user_id,event_date,platform,install_date,country,total_session_count,total_session_duration,match_start_count,match_end_count,victory_count,defeat_count,server_connection_error,iap_revenue,ad_revenue
user-z,2024-02-12,ios,,,,,,,,,,,
`
	path := writeTempCSV(t, "sparse.csv", content)

	records, rowErrors, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("Expected no row errors, got %v", rowErrors)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.TotalSessionCount != 0 || r.IAPRevenue != 0 {
		t.Errorf("Empty cells should parse as zero: %+v", r)
	}
}
