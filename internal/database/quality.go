// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

// This file implements the quality gate over the daily_metrics output.
// Every rule is expressed as SQL counting violating rows, so the gate checks
// what was actually materialized rather than what the transform intended to
// write. A run fails when any rule reports a violation.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/playmetrics/internal/models"
)

// qualityRule is one gate rule: a description and a query counting rows (or
// key groups) that violate it.
type qualityRule struct {
	name        string
	description string
	query       string
}

// qualityRules are evaluated in order; all of them always run, so a report
// lists every violated rule rather than just the first.
var qualityRules = []qualityRule{
	{
		name:        "unique_key",
		description: "(event_date, country, platform) is unique",
		query: `SELECT COUNT(*) FROM (
			SELECT event_date, country, platform
			FROM daily_metrics
			GROUP BY event_date, country, platform
			HAVING COUNT(*) > 1
		)`,
	},
	{
		name:        "dau_minimum",
		description: "every row has dau >= 1",
		query:       `SELECT COUNT(*) FROM daily_metrics WHERE dau < 1`,
	},
	{
		name:        "revenue_non_negative",
		description: "revenue sums are >= 0",
		query: `SELECT COUNT(*) FROM daily_metrics
			WHERE total_iap_revenue < 0 OR total_ad_revenue < 0 OR arpdau < 0`,
	},
	{
		name:        "win_ratio_range",
		description: "win_ratio is within [0, 1] when non-null",
		query: `SELECT COUNT(*) FROM daily_metrics
			WHERE win_ratio IS NOT NULL AND (win_ratio < 0 OR win_ratio > 1)`,
	},
	{
		name:        "defeat_ratio_range",
		description: "defeat_ratio is within [0, 1] when non-null",
		query: `SELECT COUNT(*) FROM daily_metrics
			WHERE defeat_ratio IS NOT NULL AND (defeat_ratio < 0 OR defeat_ratio > 1)`,
	},
	{
		name:        "match_counts_non_negative",
		description: "matches_started and match_per_dau are >= 0",
		query: `SELECT COUNT(*) FROM daily_metrics
			WHERE matches_started < 0 OR match_per_dau < 0`,
	},
	{
		name:        "server_error_rate_non_negative",
		description: "server_error_per_dau is >= 0",
		query:       `SELECT COUNT(*) FROM daily_metrics WHERE server_error_per_dau < 0`,
	},
	{
		name:        "session_metrics_non_negative",
		description: "session metrics are >= 0",
		query: `SELECT COUNT(*) FROM daily_metrics
			WHERE sessions_per_user < 0
			   OR (avg_session_duration_minutes IS NOT NULL AND avg_session_duration_minutes < 0)`,
	},
}

// RunQualityGate evaluates every gate rule against daily_metrics and returns
// the combined report. The returned error covers query failures only; rule
// violations are reported through QualityReport.Passed.
func (db *DB) RunQualityGate(ctx context.Context) (*models.QualityReport, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	startTime := time.Now()

	totalRows, err := db.CountDailyMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("quality gate: %w", err)
	}

	report := &models.QualityReport{
		Passed:    true,
		TotalRows: totalRows,
		Checks:    make([]models.QualityCheckResult, 0, len(qualityRules)),
	}

	for _, rule := range qualityRules {
		failing, err := db.countRows(ctx, rule.query)
		if err != nil {
			return nil, fmt.Errorf("quality gate rule %s: %w", rule.name, err)
		}

		passed := failing == 0
		if !passed {
			report.Passed = false
		}
		report.Checks = append(report.Checks, models.QualityCheckResult{
			Name:        rule.name,
			Description: rule.description,
			FailingRows: failing,
			Passed:      passed,
		})
	}

	report.GeneratedAt = time.Now()
	report.QueryTimeMs = time.Since(startTime).Milliseconds()

	return report, nil
}
