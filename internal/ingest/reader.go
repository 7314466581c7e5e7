// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package ingest

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/playmetrics/internal/config"
	"github.com/tomtom215/playmetrics/internal/models"
)

// Required header columns of a raw metrics CSV. Column order is free; the
// reader maps columns by header name.
var requiredColumns = []string{
	"user_id",
	"event_date",
	"platform",
	"total_session_count",
	"total_session_duration",
	"match_start_count",
	"match_end_count",
	"victory_count",
	"defeat_count",
	"server_connection_error",
	"iap_revenue",
	"ad_revenue",
}

// Optional columns: absent column or empty cell both mean "missing" and are
// normalized downstream in staging.
var optionalColumns = []string{
	"install_date",
	"country",
}

// ReadFile parses one raw metrics CSV file. Files ending in .gz are
// transparently decompressed. Malformed rows are returned as RowErrors
// rather than failing the file; the returned error covers file-level
// problems only (unreadable file, missing required headers).
func ReadFile(path string) ([]models.RawUserMetric, []RowError, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the configured input directory
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer func() {
			_ = gz.Close()
		}()
		reader = gz
	}

	return readCSV(reader, path)
}

func readCSV(r io.Reader, path string) ([]models.RawUserMetric, []RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	var (
		records   []models.RawUserMetric
		rowErrors []RowError
		line      = 1 // header consumed
	)
	for {
		row, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Err: err})
			continue
		}

		record, err := parseRow(row, columns)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Err: err})
			continue
		}
		records = append(records, record)
	}

	return records, rowErrors, nil
}

// mapColumns resolves header names to column indexes. Header matching is
// case-insensitive and ignores surrounding whitespace.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

func parseRow(row []string, columns map[string]int) (models.RawUserMetric, error) {
	var record models.RawUserMetric

	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	record.UserID = cell("user_id")

	eventDate, err := parseDate(cell("event_date"))
	if err != nil {
		return record, fmt.Errorf("event_date: %w", err)
	}
	record.EventDate = eventDate

	record.Platform = strings.ToLower(cell("platform"))

	// install_date may be absent or empty
	if v := cell("install_date"); v != "" {
		installDate, err := parseDate(v)
		if err != nil {
			return record, fmt.Errorf("install_date: %w", err)
		}
		record.InstallDate = installDate
	}

	record.Country = cell("country")

	intFields := []struct {
		name string
		dst  *int
	}{
		{"total_session_count", &record.TotalSessionCount},
		{"match_start_count", &record.MatchStartCount},
		{"match_end_count", &record.MatchEndCount},
		{"victory_count", &record.VictoryCount},
		{"defeat_count", &record.DefeatCount},
		{"server_connection_error", &record.ServerConnectionError},
	}
	for _, f := range intFields {
		v, err := parseInt(cell(f.name))
		if err != nil {
			return record, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	floatFields := []struct {
		name string
		dst  *float64
	}{
		{"total_session_duration", &record.TotalSessionDuration},
		{"iap_revenue", &record.IAPRevenue},
		{"ad_revenue", &record.AdRevenue},
	}
	for _, f := range floatFields {
		v, err := parseFloat(cell(f.name))
		if err != nil {
			return record, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	return record, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(config.DateLayout, s, time.UTC)
}

// parseInt treats an empty cell as zero, matching how the game backend emits
// counters it did not observe.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
