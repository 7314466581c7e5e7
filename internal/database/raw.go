// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/playmetrics/internal/models"
)

// TruncateRawUserMetrics clears the raw layer ahead of a full-replace load.
func (db *DB) TruncateRawUserMetrics(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, `DELETE FROM raw_user_metrics`); err != nil {
		return fmt.Errorf("truncate raw_user_metrics: %w", err)
	}
	return nil
}

// InsertRawUserMetricsBatch inserts one batch of raw rows inside a single
// transaction and returns the number of rows inserted.
func (db *DB) InsertRawUserMetricsBatch(ctx context.Context, records []models.RawUserMetric) (inserted int, err error) {
	if len(records) == 0 {
		return 0, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			rollbackWithLog(tx, err)
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO raw_user_metrics (
		user_id, event_date, platform, install_date, country,
		total_session_count, total_session_duration,
		match_start_count, match_end_count, victory_count, defeat_count,
		server_connection_error, iap_revenue, ad_revenue
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer closeQuietly(stmt)

	for _, r := range records {
		var installDate interface{}
		if !r.InstallDate.IsZero() {
			installDate = r.InstallDate
		}
		var country interface{}
		if r.Country != "" {
			country = r.Country
		}

		if _, err = stmt.ExecContext(ctx,
			r.UserID, r.EventDate, r.Platform, installDate, country,
			r.TotalSessionCount, r.TotalSessionDuration,
			r.MatchStartCount, r.MatchEndCount, r.VictoryCount, r.DefeatCount,
			r.ServerConnectionError, r.IAPRevenue, r.AdRevenue,
		); err != nil {
			return 0, fmt.Errorf("insert raw row for user %s: %w", r.UserID, err)
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit raw batch: %w", err)
	}
	return inserted, nil
}

// GetRawUserMetrics reads the full raw snapshot in a deterministic order.
func (db *DB) GetRawUserMetrics(ctx context.Context) ([]models.RawUserMetric, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT
			user_id, event_date, platform, install_date, country,
			total_session_count, total_session_duration,
			match_start_count, match_end_count, victory_count, defeat_count,
			server_connection_error, iap_revenue, ad_revenue
		FROM raw_user_metrics
		ORDER BY event_date, user_id, platform`

	var records []models.RawUserMetric
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var (
			r           models.RawUserMetric
			installDate sql.NullTime
			country     sql.NullString
		)
		if err := rows.Scan(
			&r.UserID, &r.EventDate, &r.Platform, &installDate, &country,
			&r.TotalSessionCount, &r.TotalSessionDuration,
			&r.MatchStartCount, &r.MatchEndCount, &r.VictoryCount, &r.DefeatCount,
			&r.ServerConnectionError, &r.IAPRevenue, &r.AdRevenue,
		); err != nil {
			return err
		}
		if installDate.Valid {
			r.InstallDate = installDate.Time
		}
		if country.Valid {
			r.Country = country.String
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get raw_user_metrics: %w", err)
	}

	return records, nil
}

// CountRawUserMetrics returns the raw-layer row count.
func (db *DB) CountRawUserMetrics(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.countRows(ctx, `SELECT COUNT(*) FROM raw_user_metrics`)
}
