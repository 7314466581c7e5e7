// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

// Package pipeline orchestrates one batch run over the warehouse.
//
// The runner drives the fixed stage order ingest -> staging -> marts ->
// quality gate -> export, times each step, and emits a JSON run report.
// The first failing step aborts the run and every later step is reported
// as skipped. Ingest can be skipped by configuration to rerun transforms
// over an already-loaded raw table; export runs only when an export path
// is configured.
package pipeline
