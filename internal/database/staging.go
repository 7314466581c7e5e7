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

// ReplaceStagingMetrics replaces the staging table contents with the given
// cleaned rows. The delete and the inserts share one transaction, so readers
// never observe a half-replaced table.
func (db *DB) ReplaceStagingMetrics(ctx context.Context, records []models.CleanedUserMetric) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			rollbackWithLog(tx, err)
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM stg_user_metrics`); err != nil {
		return fmt.Errorf("truncate stg_user_metrics: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stg_user_metrics (
		user_id, event_date, platform, install_date, country,
		total_session_count, total_session_duration,
		match_start_count, match_end_count, victory_count, defeat_count,
		server_connection_error, iap_revenue, ad_revenue,
		data_quality_flag, user_age_days, revenue_type
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer closeQuietly(stmt)

	for _, r := range records {
		var installDate interface{}
		if !r.InstallDate.IsZero() {
			installDate = r.InstallDate
		}
		var flag interface{}
		if r.DataQualityFlag != models.FlagNone {
			flag = string(r.DataQualityFlag)
		}

		if _, err = stmt.ExecContext(ctx,
			r.UserID, r.EventDate, r.Platform, installDate, r.Country,
			r.TotalSessionCount, r.TotalSessionDuration,
			r.MatchStartCount, r.MatchEndCount, r.VictoryCount, r.DefeatCount,
			r.ServerConnectionError, r.IAPRevenue, r.AdRevenue,
			flag, r.UserAgeDays, string(r.RevenueType),
		); err != nil {
			return fmt.Errorf("insert staging row for user %s: %w", r.UserID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit staging replace: %w", err)
	}
	return nil
}

// GetStagingMetrics reads the full staging snapshot in a deterministic order.
func (db *DB) GetStagingMetrics(ctx context.Context) ([]models.CleanedUserMetric, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT
			user_id, event_date, platform, install_date, country,
			total_session_count, total_session_duration,
			match_start_count, match_end_count, victory_count, defeat_count,
			server_connection_error, iap_revenue, ad_revenue,
			data_quality_flag, user_age_days, revenue_type
		FROM stg_user_metrics
		ORDER BY event_date, user_id, platform`

	var records []models.CleanedUserMetric
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var (
			r           models.CleanedUserMetric
			installDate sql.NullTime
			flag        sql.NullString
			revenueType string
		)
		if err := rows.Scan(
			&r.UserID, &r.EventDate, &r.Platform, &installDate, &r.Country,
			&r.TotalSessionCount, &r.TotalSessionDuration,
			&r.MatchStartCount, &r.MatchEndCount, &r.VictoryCount, &r.DefeatCount,
			&r.ServerConnectionError, &r.IAPRevenue, &r.AdRevenue,
			&flag, &r.UserAgeDays, &revenueType,
		); err != nil {
			return err
		}
		if installDate.Valid {
			r.InstallDate = installDate.Time
		}
		if flag.Valid {
			r.DataQualityFlag = models.DataQualityFlag(flag.String)
		}
		r.RevenueType = models.RevenueType(revenueType)
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get stg_user_metrics: %w", err)
	}

	return records, nil
}

// CountStagingMetrics returns the staging-layer row count.
func (db *DB) CountStagingMetrics(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.countRows(ctx, `SELECT COUNT(*) FROM stg_user_metrics`)
}
