// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/playmetrics/internal/models"
)

// Step statuses reported in the run report.
const (
	StepCompleted = "completed"
	StepFailed    = "failed"
	StepSkipped   = "skipped"
)

// StepResult records the outcome of one pipeline step.
type StepResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Rows       int64  `json:"rows,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RunReport is the machine-readable summary of one pipeline run, written to
// the configured report path as JSON.
type RunReport struct {
	RunID      string                `json:"run_id"`
	Status     string                `json:"status"`
	StartDate  string                `json:"start_date"`
	EndDate    string                `json:"end_date"`
	StartTime  time.Time             `json:"start_time"`
	EndTime    time.Time             `json:"end_time"`
	DurationMs int64                 `json:"duration_ms"`
	Steps      []StepResult          `json:"steps"`
	Quality    *models.QualityReport `json:"quality,omitempty"`
}

// WriteJSON persists the report to path, creating parent directories as
// needed.
func (r *RunReport) WriteJSON(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write run report %s: %w", path, err)
	}
	return nil
}
