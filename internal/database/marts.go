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

// ReplaceDailyMetrics replaces the marts table contents with the given rows.
// Full-replace is the table's only write path: there is no append or merge.
func (db *DB) ReplaceDailyMetrics(ctx context.Context, metrics []models.DailyMetric) (err error) {
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM daily_metrics`); err != nil {
		return fmt.Errorf("truncate daily_metrics: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_metrics (
		event_date, country, platform, dau,
		total_iap_revenue, total_ad_revenue, arpdau,
		matches_started, match_per_dau, win_ratio, defeat_ratio,
		server_error_per_dau, avg_session_duration_minutes, sessions_per_user
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer closeQuietly(stmt)

	for _, m := range metrics {
		if _, err = stmt.ExecContext(ctx,
			m.EventDate, m.Country, m.Platform, m.DAU,
			m.TotalIAPRevenue, m.TotalAdRevenue, m.ARPDAU,
			m.MatchesStarted, m.MatchPerDAU, nullableFloat(m.WinRatio), nullableFloat(m.DefeatRatio),
			m.ServerErrorPerDAU, nullableFloat(m.AvgSessionDurationMinutes), m.SessionsPerUser,
		); err != nil {
			return fmt.Errorf("insert daily metric for %s/%s/%s: %w",
				m.EventDate.Format("2006-01-02"), m.Country, m.Platform, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit marts replace: %w", err)
	}
	return nil
}

// GetDailyMetrics reads the marts table in its presentation order
// (event_date, country, platform ascending).
func (db *DB) GetDailyMetrics(ctx context.Context) ([]models.DailyMetric, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT
			event_date, country, platform, dau,
			total_iap_revenue, total_ad_revenue, arpdau,
			matches_started, match_per_dau, win_ratio, defeat_ratio,
			server_error_per_dau, avg_session_duration_minutes, sessions_per_user
		FROM daily_metrics
		ORDER BY event_date, country, platform`

	var metrics []models.DailyMetric
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var (
			m           models.DailyMetric
			winRatio    sql.NullFloat64
			defeatRatio sql.NullFloat64
			avgSession  sql.NullFloat64
		)
		if err := rows.Scan(
			&m.EventDate, &m.Country, &m.Platform, &m.DAU,
			&m.TotalIAPRevenue, &m.TotalAdRevenue, &m.ARPDAU,
			&m.MatchesStarted, &m.MatchPerDAU, &winRatio, &defeatRatio,
			&m.ServerErrorPerDAU, &avgSession, &m.SessionsPerUser,
		); err != nil {
			return err
		}
		m.WinRatio = floatPtr(winRatio)
		m.DefeatRatio = floatPtr(defeatRatio)
		m.AvgSessionDurationMinutes = floatPtr(avgSession)
		metrics = append(metrics, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get daily_metrics: %w", err)
	}

	return metrics, nil
}

// CountDailyMetrics returns the marts-layer row count.
func (db *DB) CountDailyMetrics(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.countRows(ctx, `SELECT COUNT(*) FROM daily_metrics`)
}

// nullableFloat converts a *float64 to a driver-friendly value, mapping nil
// to SQL NULL.
func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// floatPtr converts a scanned NullFloat64 back to the model's pointer form.
func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
