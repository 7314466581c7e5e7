// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package ingest

import (
	"fmt"
	"time"
)

// LoadStats holds statistics about a CSV load operation.
type LoadStats struct {
	// Files is the number of input files processed.
	Files int

	// Processed is the number of data rows read (including skipped).
	Processed int64

	// Loaded is the number of rows inserted into raw_user_metrics.
	Loaded int64

	// Skipped is the number of rows dropped for parse or contract violations.
	Skipped int64

	// StartTime is when the load started.
	StartTime time.Time

	// EndTime is when the load completed (zero if still running).
	EndTime time.Time
}

// Duration returns the duration of the load operation.
func (s *LoadStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RecordsPerSecond returns the load rate.
func (s *LoadStats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

// RowError describes a single rejected input row. Line is 1-based and counts
// the header, matching what an editor shows when the file is opened.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}
