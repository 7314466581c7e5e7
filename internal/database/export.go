// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ExportDailyMetricsCSV writes the marts table to a CSV file with a header
// row, using DuckDB's native COPY. Rows keep the table's presentation order
// (event_date, country, platform ascending) so exported files from identical
// snapshots diff clean.
func (db *DB) ExportDailyMetricsCSV(ctx context.Context, outputPath string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	// Ensure parent directory exists for the export file
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create export directory %s: %w", dir, err)
		}
	}

	query := `
		COPY (
			SELECT
				event_date, country, platform, dau,
				total_iap_revenue, total_ad_revenue, arpdau,
				matches_started, match_per_dau, win_ratio, defeat_ratio,
				server_error_per_dau, avg_session_duration_minutes, sessions_per_user
			FROM daily_metrics
			ORDER BY event_date, country, platform
		) TO ? (FORMAT CSV, HEADER true)`

	if _, err := db.conn.ExecContext(ctx, query, outputPath); err != nil {
		return fmt.Errorf("failed to export daily_metrics CSV: %w", err)
	}

	return nil
}
