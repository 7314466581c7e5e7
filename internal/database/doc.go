// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

// Package database provides the DuckDB-backed warehouse layer for the
// pipeline's three tables.
//
// # Overview
//
// This package sits between the pipeline stages and DuckDB, providing
// schema management, batched writes, and deterministic reads for:
//
//   - raw_user_metrics: per-user, per-day counters as loaded from CSV
//   - stg_user_metrics: cleaned rows with normalization and quality flags
//   - daily_metrics: business metrics keyed by (event_date, country, platform)
//
// # Architecture
//
// The package is organized by table and concern:
//
//   - database.go: connection lifecycle and DuckDB tuning
//   - schema.go: CREATE TABLE IF NOT EXISTS schema initialization
//   - raw.go: raw-layer truncate, batch insert, reads
//   - staging.go: transactional full-replace of the staging snapshot
//   - marts.go: transactional full-replace of the marts output
//   - quality.go: SQL quality gate over daily_metrics
//   - export.go: CSV export via DuckDB's native COPY
//   - helpers.go: shared query and transaction helpers
//
// # Write Model
//
// Every table is full-replace: each run rewrites the layer it owns inside a
// single transaction, so a failed run never leaves a partially written table
// and reruns over the same input are idempotent.
//
// # Concurrency
//
// The pipeline is a single-writer batch process. *sql.DB handles connection
// pooling for concurrent readers; writers rely on the one-transaction-per-
// replace model rather than row locks.
package database
