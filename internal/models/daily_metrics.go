// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package models

import (
	"time"
)

// DailyMetric is one row of the daily_metrics marts table: business metrics
// for a single (event_date, country, platform) group. The triple is the
// unique key of the table and every surviving group has DAU >= 1.
//
// WinRatio, DefeatRatio and AvgSessionDurationMinutes are nullable: they are
// nil when their denominator (match ends, session count) was zero for the
// group. The DAU-denominated metrics are never nil because groups with zero
// DAU are dropped before this struct is built.
type DailyMetric struct {
	EventDate                 time.Time `json:"event_date"`
	Country                   string    `json:"country"`
	Platform                  string    `json:"platform"`
	DAU                       int       `json:"dau"`
	TotalIAPRevenue           float64   `json:"total_iap_revenue"`
	TotalAdRevenue            float64   `json:"total_ad_revenue"`
	ARPDAU                    float64   `json:"arpdau"`
	MatchesStarted            int       `json:"matches_started"`
	MatchPerDAU               float64   `json:"match_per_dau"`
	WinRatio                  *float64  `json:"win_ratio"`
	DefeatRatio               *float64  `json:"defeat_ratio"`
	ServerErrorPerDAU         float64   `json:"server_error_per_dau"`
	AvgSessionDurationMinutes *float64  `json:"avg_session_duration_minutes"`
	SessionsPerUser           float64   `json:"sessions_per_user"`
}
