// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package models

import (
	"time"
)

// QualityCheckResult is the outcome of a single quality-gate rule evaluated
// against the daily_metrics table. FailingRows is the number of rows (or key
// groups, for the uniqueness rule) that violated the rule; zero means pass.
type QualityCheckResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FailingRows int64  `json:"failing_rows"`
	Passed      bool   `json:"passed"`
}

// QualityReport aggregates the quality-gate run over the marts output.
// The gate passes only when every individual check passes.
type QualityReport struct {
	Passed      bool                 `json:"passed"`
	TotalRows   int64                `json:"total_rows"`
	Checks      []QualityCheckResult `json:"checks"`
	GeneratedAt time.Time            `json:"generated_at"`
	QueryTimeMs int64                `json:"query_time_ms"`
}

// FailedChecks returns the names of the checks that did not pass.
func (r *QualityReport) FailedChecks() []string {
	var failed []string
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c.Name)
		}
	}
	return failed
}
