// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package models

import (
	"time"
)

// DataQualityFlag marks a per-row consistency anomaly detected during staging.
// The empty value means the row passed every check. The checks are an ordered
// chain; a row carries at most one flag (the first that matched).
type DataQualityFlag string

const (
	// FlagNone means no anomaly was detected.
	FlagNone DataQualityFlag = ""

	// FlagSessionDurationWithoutSessions marks rows reporting session time
	// with a zero session count.
	FlagSessionDurationWithoutSessions DataQualityFlag = "session_duration_without_sessions"

	// FlagMoreEndsThanStarts marks rows where more matches ended than started.
	FlagMoreEndsThanStarts DataQualityFlag = "more_ends_than_starts"

	// FlagOutcomeCountMismatch marks rows where victories plus defeats exceed
	// the number of match ends.
	FlagOutcomeCountMismatch DataQualityFlag = "outcome_count_mismatch"
)

// RevenueType classifies a user-day by which revenue streams were active.
type RevenueType string

const (
	RevenueBoth      RevenueType = "both"
	RevenueIAPOnly   RevenueType = "iap_only"
	RevenueAdOnly    RevenueType = "ad_only"
	RevenueNoRevenue RevenueType = "no_revenue"
)

// UnknownCountry is the literal substituted for a missing or empty country.
const UnknownCountry = "Unknown"

// CleanedUserMetric is one row of the stg_user_metrics staging table: a raw
// row with missing values normalized and derived annotations attached. The
// staging transform preserves cardinality, so there is exactly one cleaned
// row per raw row inside the configured date window.
type CleanedUserMetric struct {
	UserID                string          `json:"user_id"`
	EventDate             time.Time       `json:"event_date"`
	Platform              string          `json:"platform"`
	InstallDate           time.Time       `json:"install_date"`
	Country               string          `json:"country"` // never empty; "Unknown" when absent upstream
	TotalSessionCount     int             `json:"total_session_count"`
	TotalSessionDuration  float64         `json:"total_session_duration"` // seconds
	MatchStartCount       int             `json:"match_start_count"`
	MatchEndCount         int             `json:"match_end_count"`
	VictoryCount          int             `json:"victory_count"`
	DefeatCount           int             `json:"defeat_count"`
	ServerConnectionError int             `json:"server_connection_error"`
	IAPRevenue            float64         `json:"iap_revenue"`
	AdRevenue             float64         `json:"ad_revenue"`
	DataQualityFlag       DataQualityFlag `json:"data_quality_flag,omitempty"`
	UserAgeDays           int             `json:"user_age_days"` // may be negative; never clamped
	RevenueType           RevenueType     `json:"revenue_type"`
}
