// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

/*
schema.go - Warehouse Schema Management

The three tables mirror the three pipeline layers:

  - raw_user_metrics: per-user per-day input rows as loaded from CSV drops
  - stg_user_metrics: staging layer; cleaned rows with derived annotations
  - daily_metrics: marts layer; business metrics per (date, country, platform)

All columns are defined in the initial CREATE TABLE statements; there are no
migrations. Every run fully replaces the table contents, so the schema is
the single long-lived artifact in the database file.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the warehouse tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the table creation SQL statements
func tableCreationQueries() []string {
	return []string{
		// Raw layer - immutable input snapshot, full-replace on load
		`CREATE TABLE IF NOT EXISTS raw_user_metrics (
			user_id TEXT NOT NULL,
			event_date DATE NOT NULL,
			platform TEXT NOT NULL,
			install_date DATE,
			country TEXT,
			total_session_count INTEGER NOT NULL DEFAULT 0,
			total_session_duration DOUBLE NOT NULL DEFAULT 0,
			match_start_count INTEGER NOT NULL DEFAULT 0,
			match_end_count INTEGER NOT NULL DEFAULT 0,
			victory_count INTEGER NOT NULL DEFAULT 0,
			defeat_count INTEGER NOT NULL DEFAULT 0,
			server_connection_error INTEGER NOT NULL DEFAULT 0,
			iap_revenue DOUBLE NOT NULL DEFAULT 0,
			ad_revenue DOUBLE NOT NULL DEFAULT 0,
			loaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Staging layer - same cardinality as the date-filtered raw layer
		`CREATE TABLE IF NOT EXISTS stg_user_metrics (
			user_id TEXT NOT NULL,
			event_date DATE NOT NULL,
			platform TEXT NOT NULL,
			install_date DATE,
			country TEXT NOT NULL,
			total_session_count INTEGER NOT NULL,
			total_session_duration DOUBLE NOT NULL,
			match_start_count INTEGER NOT NULL,
			match_end_count INTEGER NOT NULL,
			victory_count INTEGER NOT NULL,
			defeat_count INTEGER NOT NULL,
			server_connection_error INTEGER NOT NULL,
			iap_revenue DOUBLE NOT NULL,
			ad_revenue DOUBLE NOT NULL,
			data_quality_flag TEXT,
			user_age_days INTEGER NOT NULL,
			revenue_type TEXT NOT NULL
		)`,

		// Marts layer - one row per (event_date, country, platform)
		`CREATE TABLE IF NOT EXISTS daily_metrics (
			event_date DATE NOT NULL,
			country TEXT NOT NULL,
			platform TEXT NOT NULL,
			dau INTEGER NOT NULL,
			total_iap_revenue DOUBLE NOT NULL,
			total_ad_revenue DOUBLE NOT NULL,
			arpdau DOUBLE NOT NULL,
			matches_started INTEGER NOT NULL,
			match_per_dau DOUBLE NOT NULL,
			win_ratio DOUBLE,
			defeat_ratio DOUBLE,
			server_error_per_dau DOUBLE NOT NULL,
			avg_session_duration_minutes DOUBLE,
			sessions_per_user DOUBLE NOT NULL,
			PRIMARY KEY (event_date, country, platform)
		)`,
	}
}
