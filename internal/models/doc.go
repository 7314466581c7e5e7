// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

/*
Package models defines the data structures shared across the pipeline.

The three table models mirror the three pipeline layers:

  - RawUserMetric: one row per (user, day) as delivered by the game backend
    (raw_user_metrics table). Immutable input snapshot.
  - CleanedUserMetric: a raw row with missing values normalized and derived
    annotations attached (stg_user_metrics table). Same cardinality as the
    date-filtered input.
  - DailyMetric: business metrics per (event_date, country, platform) group
    (daily_metrics table). Fully recomputed on every run.

Supporting types:

  - DataQualityFlag / RevenueType: staging enums.
  - QualityReport / QualityCheckResult: quality-gate output over daily_metrics.

Thread Safety:

All models are plain data structures with no internal synchronization. They
are safe for concurrent reads and are treated as immutable after creation.

JSON Marshaling:

All models carry snake_case json tags matching their warehouse column names,
so a marshaled row and the corresponding table row use identical field names.
Nullable metrics (WinRatio, DefeatRatio, AvgSessionDurationMinutes) are
pointers and marshal to JSON null when their denominator was zero.
*/
package models
