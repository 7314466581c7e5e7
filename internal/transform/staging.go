// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package transform

import (
	"time"

	"github.com/tomtom215/playmetrics/internal/models"
)

// DateWindow is a closed date range. Both bounds are inclusive: a record
// whose event_date equals Start or End is inside the window.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the window. Comparison happens on
// the calendar date in UTC; any time-of-day component is ignored.
func (w DateWindow) Contains(d time.Time) bool {
	day := toUTCDate(d)
	return !day.Before(toUTCDate(w.Start)) && !day.After(toUTCDate(w.End))
}

// Clean applies the staging transform to a single raw row. The second return
// value is false when the row's event_date falls outside the window and the
// row must not be emitted. All derivations are total: no input combination
// produces an error.
func Clean(raw models.RawUserMetric, window DateWindow) (models.CleanedUserMetric, bool) {
	if !window.Contains(raw.EventDate) {
		return models.CleanedUserMetric{}, false
	}

	country := raw.Country
	if country == "" {
		country = models.UnknownCountry
	}

	return models.CleanedUserMetric{
		UserID:                raw.UserID,
		EventDate:             toUTCDate(raw.EventDate),
		Platform:              raw.Platform,
		InstallDate:           toUTCDate(raw.InstallDate),
		Country:               country,
		TotalSessionCount:     raw.TotalSessionCount,
		TotalSessionDuration:  raw.TotalSessionDuration,
		MatchStartCount:       raw.MatchStartCount,
		MatchEndCount:         raw.MatchEndCount,
		VictoryCount:          raw.VictoryCount,
		DefeatCount:           raw.DefeatCount,
		ServerConnectionError: raw.ServerConnectionError,
		IAPRevenue:            raw.IAPRevenue,
		AdRevenue:             raw.AdRevenue,
		DataQualityFlag:       qualityFlag(raw),
		UserAgeDays:           userAgeDays(raw.EventDate, raw.InstallDate),
		RevenueType:           revenueType(raw.IAPRevenue, raw.AdRevenue),
	}, true
}

// CleanAll applies Clean to every row, preserving input order. The output
// has exactly one row per input row inside the window.
func CleanAll(raws []models.RawUserMetric, window DateWindow) []models.CleanedUserMetric {
	cleaned := make([]models.CleanedUserMetric, 0, len(raws))
	for _, raw := range raws {
		row, ok := Clean(raw, window)
		if !ok {
			continue
		}
		cleaned = append(cleaned, row)
	}
	return cleaned
}

// qualityFlag evaluates the anomaly checks as an ordered chain; the first
// matching check wins and later checks are not evaluated. Keep this an
// if/else-if ladder: the checks are not independent flags.
func qualityFlag(raw models.RawUserMetric) models.DataQualityFlag {
	switch {
	case raw.TotalSessionCount == 0 && raw.TotalSessionDuration > 0:
		return models.FlagSessionDurationWithoutSessions
	case raw.MatchStartCount < raw.MatchEndCount:
		return models.FlagMoreEndsThanStarts
	case raw.VictoryCount+raw.DefeatCount > raw.MatchEndCount:
		return models.FlagOutcomeCountMismatch
	default:
		return models.FlagNone
	}
}

// revenueType classifies the row by which revenue streams were active.
func revenueType(iapRevenue, adRevenue float64) models.RevenueType {
	switch {
	case iapRevenue > 0 && adRevenue > 0:
		return models.RevenueBoth
	case iapRevenue > 0:
		return models.RevenueIAPOnly
	case adRevenue > 0:
		return models.RevenueAdOnly
	default:
		return models.RevenueNoRevenue
	}
}

// userAgeDays returns the whole-day difference event_date - install_date.
// A negative result (install after event) is preserved as-is; clamping it
// would silently change the data contract. A missing install_date yields 0,
// the same convention empty numeric cells follow at ingest.
func userAgeDays(eventDate, installDate time.Time) int {
	if installDate.IsZero() {
		return 0
	}
	diff := toUTCDate(eventDate).Sub(toUTCDate(installDate))
	return int(diff / (24 * time.Hour))
}

// toUTCDate truncates t to its calendar date at UTC midnight, so that date
// arithmetic is exact regardless of time zone or time-of-day noise upstream.
func toUTCDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
