// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/tomtom215/playmetrics/internal/logging"
)

// queryAndScan executes a query and scans all rows using the provided scanner function
// Reduces repetitive query-scan-collect patterns
func (db *DB) queryAndScan(ctx context.Context, query string, args []interface{}, scanner func(*sql.Rows) error) error {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		if err := scanner(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	return nil
}

// countRows runs a single-value COUNT query and returns the result.
func (db *DB) countRows(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var count int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return count, nil
}

// rollbackWithLog rolls back a transaction and logs a failure to do so.
// Use in deferred error paths where the original error must be preserved.
func rollbackWithLog(tx *sql.Tx, originalErr error) {
	if rbErr := tx.Rollback(); rbErr != nil {
		logging.Error().
			Err(rbErr).
			AnErr("original_error", originalErr).
			Msg("Transaction rollback failed")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
