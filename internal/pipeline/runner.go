// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/playmetrics/internal/config"
	"github.com/tomtom215/playmetrics/internal/ingest"
	"github.com/tomtom215/playmetrics/internal/logging"
	"github.com/tomtom215/playmetrics/internal/models"
	"github.com/tomtom215/playmetrics/internal/transform"
)

// Warehouse is the storage surface the runner drives. *database.DB satisfies
// it; tests substitute a fake.
type Warehouse interface {
	ingest.RawStore
	GetRawUserMetrics(ctx context.Context) ([]models.RawUserMetric, error)
	ReplaceStagingMetrics(ctx context.Context, records []models.CleanedUserMetric) error
	GetStagingMetrics(ctx context.Context) ([]models.CleanedUserMetric, error)
	ReplaceDailyMetrics(ctx context.Context, metrics []models.DailyMetric) error
	RunQualityGate(ctx context.Context) (*models.QualityReport, error)
	ExportDailyMetricsCSV(ctx context.Context, outputPath string) error
}

// Runner executes the pipeline stages in their fixed order: ingest, staging,
// marts, quality gate, export. A failing step aborts the run; later steps are
// reported as skipped. Every step rewrites the full table it owns, so a rerun
// after a failure starts from a consistent state.
type Runner struct {
	cfg       *config.Config
	warehouse Warehouse
}

// NewRunner creates a pipeline runner over the given warehouse.
func NewRunner(cfg *config.Config, warehouse Warehouse) *Runner {
	return &Runner{
		cfg:       cfg,
		warehouse: warehouse,
	}
}

// Run executes one full pipeline run and returns its report. The report is
// always non-nil, also on failure; the error mirrors report.Status for
// callers that want an exit code.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		Status:    "running",
		StartDate: r.cfg.Pipeline.StartDate,
		EndDate:   r.cfg.Pipeline.EndDate,
		StartTime: time.Now(),
	}

	logging.Info().
		Str("run_id", report.RunID).
		Str("start_date", report.StartDate).
		Str("end_date", report.EndDate).
		Msg("Starting pipeline run")

	err := r.runSteps(ctx, report)

	report.EndTime = time.Now()
	report.DurationMs = report.EndTime.Sub(report.StartTime).Milliseconds()
	if err != nil {
		report.Status = "failed"
		logging.Error().
			Str("run_id", report.RunID).
			Err(err).
			Dur("duration", report.EndTime.Sub(report.StartTime)).
			Msg("Pipeline run failed")
	} else {
		report.Status = "completed"
		logging.Info().
			Str("run_id", report.RunID).
			Dur("duration", report.EndTime.Sub(report.StartTime)).
			Msg("Pipeline run completed")
	}

	if r.cfg.Pipeline.ReportPath != "" {
		if writeErr := report.WriteJSON(r.cfg.Pipeline.ReportPath); writeErr != nil {
			logging.Warn().Err(writeErr).Msg("Failed to write run report")
			if err == nil {
				err = writeErr
				report.Status = "failed"
			}
		}
	}

	return report, err
}

type step struct {
	name string
	run  func(ctx context.Context, report *RunReport) (rows int64, err error)
	skip func() bool
}

func (r *Runner) runSteps(ctx context.Context, report *RunReport) error {
	steps := []step{
		{
			name: "ingest",
			run:  r.stepIngest,
			skip: func() bool { return r.cfg.Pipeline.SkipIngest },
		},
		{name: "staging", run: r.stepStaging},
		{name: "marts", run: r.stepMarts},
		{name: "quality_gate", run: r.stepQualityGate},
		{
			name: "export",
			run:  r.stepExport,
			skip: func() bool { return r.cfg.Pipeline.ExportPath == "" },
		},
	}

	var failed error
	for _, s := range steps {
		if failed != nil || (s.skip != nil && s.skip()) {
			report.Steps = append(report.Steps, StepResult{
				Name:   s.name,
				Status: StepSkipped,
			})
			logging.Debug().Str("step", s.name).Msg("Step skipped")
			continue
		}

		start := time.Now()
		rows, err := s.run(ctx, report)
		result := StepResult{
			Name:       s.name,
			Status:     StepCompleted,
			DurationMs: time.Since(start).Milliseconds(),
			Rows:       rows,
		}
		if err != nil {
			result.Status = StepFailed
			result.Error = err.Error()
			failed = fmt.Errorf("step %s: %w", s.name, err)
			logging.Error().
				Str("step", s.name).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("Pipeline step failed")
		} else {
			logging.Info().
				Str("step", s.name).
				Dur("duration", time.Since(start)).
				Int64("rows", rows).
				Msg("Pipeline step completed")
		}
		report.Steps = append(report.Steps, result)
	}

	return failed
}

func (r *Runner) stepIngest(ctx context.Context, _ *RunReport) (int64, error) {
	loader := ingest.NewLoader(&r.cfg.Pipeline, r.warehouse)
	stats, err := loader.Load(ctx)
	if err != nil {
		return 0, err
	}
	return stats.Loaded, nil
}

func (r *Runner) stepStaging(ctx context.Context, _ *RunReport) (int64, error) {
	start, end, err := r.cfg.Pipeline.Window()
	if err != nil {
		return 0, fmt.Errorf("parse date window: %w", err)
	}

	raws, err := r.warehouse.GetRawUserMetrics(ctx)
	if err != nil {
		return 0, err
	}

	cleaned := transform.CleanAll(raws, transform.DateWindow{Start: start, End: end})
	if err := r.warehouse.ReplaceStagingMetrics(ctx, cleaned); err != nil {
		return 0, err
	}

	if dropped := len(raws) - len(cleaned); dropped > 0 {
		logging.Debug().
			Int("dropped", dropped).
			Msg("Rows outside the date window dropped during staging")
	}
	return int64(len(cleaned)), nil
}

func (r *Runner) stepMarts(ctx context.Context, _ *RunReport) (int64, error) {
	// Aggregate what was actually materialized in staging, not the in-memory
	// slice, so a manual staging fix feeds through on a marts-only rerun.
	cleaned, err := r.warehouse.GetStagingMetrics(ctx)
	if err != nil {
		return 0, err
	}

	metrics := transform.Aggregate(cleaned)
	if err := r.warehouse.ReplaceDailyMetrics(ctx, metrics); err != nil {
		return 0, err
	}
	return int64(len(metrics)), nil
}

func (r *Runner) stepQualityGate(ctx context.Context, report *RunReport) (int64, error) {
	quality, err := r.warehouse.RunQualityGate(ctx)
	if err != nil {
		return 0, err
	}

	report.Quality = quality
	if !quality.Passed {
		return quality.TotalRows, fmt.Errorf("quality gate failed: %v", quality.FailedChecks())
	}
	return quality.TotalRows, nil
}

func (r *Runner) stepExport(ctx context.Context, _ *RunReport) (int64, error) {
	if err := r.warehouse.ExportDailyMetricsCSV(ctx, r.cfg.Pipeline.ExportPath); err != nil {
		return 0, err
	}
	logging.Info().
		Str("path", r.cfg.Pipeline.ExportPath).
		Msg("Daily metrics exported")
	return 0, nil
}
