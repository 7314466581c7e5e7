// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package models

import (
	"time"
)

// Platform values accepted in raw input.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)

// RawUserMetric is one row of the raw_user_metrics table: per-user, per-day
// gameplay and monetization counters as delivered by the game backend.
// Rows are immutable once loaded; the pipeline never mutates the raw table
// outside of a full-replace reload.
//
// user_id, event_date and platform are hard preconditions of the data
// contract; country and install_date may be missing and are normalized
// downstream in the staging transform.
type RawUserMetric struct {
	UserID                string    `json:"user_id" validate:"required"`
	EventDate             time.Time `json:"event_date" validate:"required"`
	Platform              string    `json:"platform" validate:"required,oneof=android ios"`
	InstallDate           time.Time `json:"install_date"`
	Country               string    `json:"country,omitempty"` // may be empty; staged as "Unknown"
	TotalSessionCount     int       `json:"total_session_count" validate:"min=0"`
	TotalSessionDuration  float64   `json:"total_session_duration" validate:"min=0"` // seconds
	MatchStartCount       int       `json:"match_start_count" validate:"min=0"`
	MatchEndCount         int       `json:"match_end_count" validate:"min=0"`
	VictoryCount          int       `json:"victory_count" validate:"min=0"`
	DefeatCount           int       `json:"defeat_count" validate:"min=0"`
	ServerConnectionError int       `json:"server_connection_error" validate:"min=0"`
	IAPRevenue            float64   `json:"iap_revenue" validate:"min=0"`
	AdRevenue             float64   `json:"ad_revenue" validate:"min=0"`
}
