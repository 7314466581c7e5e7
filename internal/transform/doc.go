// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

/*
Package transform implements the two pure transformation stages of the
pipeline: staging (per-row cleaning and annotation) and marts (grouped daily
aggregation).

Both stages are stateless, side-effect-free functions over in-memory rows.
They hold no database handles and perform no I/O, which keeps them trivially
testable and re-runnable: running either stage twice over the same input
produces identical output.

Staging (CleanAll):

  - Defaults a missing/empty country to "Unknown".
  - Attaches the first matching data-quality flag from an ordered check chain.
  - Computes user_age_days as a whole-day difference (negatives preserved).
  - Classifies the row's revenue_type.
  - Drops rows outside the closed [start, end] date window.

Marts (Aggregate):

  - Groups by (event_date, country, platform) with exact distinct-user
    counting per group (a map-based set, never a probabilistic estimator).
  - Sums the revenue, match, error and session counters per group.
  - Derives the seven ratio/rate metrics through one shared null-safe
    division helper; a zero denominator yields null, not NaN or an error.
  - Drops groups with zero DAU and sorts the output deterministically.
*/
package transform
