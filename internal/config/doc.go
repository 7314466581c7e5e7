// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

/*
Package config loads and validates pipeline configuration via Koanf v2 with
layered sources (highest priority wins):

 1. Environment variables (DUCKDB_PATH, START_DATE, END_DATE, ...)
 2. Config file (config.yaml, or CONFIG_PATH)
 3. Built-in defaults

The two run parameters the pipeline is driven by are pipeline.start_date and
pipeline.end_date: the inclusive bounds of the date window the staging
transform filters to. Everything else has a workable default.

Example:

	export DUCKDB_PATH=/data/playmetrics.duckdb
	export INPUT_DIR=/data/raw
	export START_DATE=2024-02-01
	export END_DATE=2024-02-29
	playmetrics
*/
package config
