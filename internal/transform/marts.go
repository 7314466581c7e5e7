// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package transform

import (
	"sort"

	"github.com/tomtom215/playmetrics/internal/models"
)

// groupKey identifies one daily_metrics output row. The date is kept as an
// ISO yyyy-mm-dd string so the key is comparable and lexicographic order
// matches chronological order.
type groupKey struct {
	date     string
	country  string
	platform string
}

// groupAccumulator collects per-group running aggregates during a single
// pass over the cleaned rows. DAU uses an exact per-group user set, not an
// approximate cardinality estimator.
type groupAccumulator struct {
	users           map[string]struct{}
	iapRevenue      float64
	adRevenue       float64
	matchesStarted  int
	matchEnds       int
	victories       int
	defeats         int
	serverErrors    int
	sessions        int
	sessionDuration float64 // seconds
}

// Aggregate computes the daily_metrics row set from the cleaned rows.
//
// Grouping is exact over (event_date, country, platform). Groups with zero
// distinct users are dropped; every surviving row therefore has DAU >= 1 and
// the DAU-denominated metrics are never null. Output is sorted by
// (event_date, country, platform) ascending so that repeated runs over the
// same snapshot produce byte-identical results.
func Aggregate(rows []models.CleanedUserMetric) []models.DailyMetric {
	groups := make(map[groupKey]*groupAccumulator)

	for _, row := range rows {
		key := groupKey{
			date:     row.EventDate.Format("2006-01-02"),
			country:  row.Country,
			platform: row.Platform,
		}
		acc, ok := groups[key]
		if !ok {
			acc = &groupAccumulator{users: make(map[string]struct{})}
			groups[key] = acc
		}
		acc.users[row.UserID] = struct{}{}
		acc.iapRevenue += row.IAPRevenue
		acc.adRevenue += row.AdRevenue
		acc.matchesStarted += row.MatchStartCount
		acc.matchEnds += row.MatchEndCount
		acc.victories += row.VictoryCount
		acc.defeats += row.DefeatCount
		acc.serverErrors += row.ServerConnectionError
		acc.sessions += row.TotalSessionCount
		acc.sessionDuration += row.TotalSessionDuration
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.date != b.date {
			return a.date < b.date
		}
		if a.country != b.country {
			return a.country < b.country
		}
		return a.platform < b.platform
	})

	metrics := make([]models.DailyMetric, 0, len(keys))
	for _, key := range keys {
		acc := groups[key]
		dau := len(acc.users)
		if dau == 0 {
			// Cannot occur structurally (every row carries a user), but the
			// dau >= 1 output invariant is enforced here regardless.
			continue
		}

		fdau := float64(dau)
		metrics = append(metrics, models.DailyMetric{
			EventDate:                 mustParseDate(key.date),
			Country:                   key.country,
			Platform:                  key.platform,
			DAU:                       dau,
			TotalIAPRevenue:           acc.iapRevenue,
			TotalAdRevenue:            acc.adRevenue,
			ARPDAU:                    orZero(safeDivide(acc.iapRevenue+acc.adRevenue, fdau, 4)),
			MatchesStarted:            acc.matchesStarted,
			MatchPerDAU:               orZero(safeDivide(float64(acc.matchesStarted), fdau, 2)),
			WinRatio:                  safeDivide(float64(acc.victories), float64(acc.matchEnds), 4),
			DefeatRatio:               safeDivide(float64(acc.defeats), float64(acc.matchEnds), 4),
			ServerErrorPerDAU:         orZero(safeDivide(float64(acc.serverErrors), fdau, 4)),
			AvgSessionDurationMinutes: safeDivide(acc.sessionDuration/60, float64(acc.sessions), 2),
			SessionsPerUser:           orZero(safeDivide(float64(acc.sessions), fdau, 2)),
		})
	}

	return metrics
}
