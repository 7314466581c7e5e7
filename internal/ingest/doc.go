// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

// Package ingest loads raw metrics CSV drops into the warehouse.
//
// The reader maps CSV columns by header name, decompresses .csv.gz files
// transparently, and rejects individual malformed rows without failing the
// file. The loader truncates raw_user_metrics, validates every parsed row
// against the data contract, and inserts survivors in configurable batches.
// Rejected rows are counted and logged, never silently dropped.
package ingest
