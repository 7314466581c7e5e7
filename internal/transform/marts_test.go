// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package transform

import (
	"reflect"
	"testing"

	"github.com/tomtom215/playmetrics/internal/models"
)

// turkeyAndroidRows is the reference scenario: two users on the same
// (date, country, platform) group with known expected aggregates.
func turkeyAndroidRows() []models.CleanedUserMetric {
	return []models.CleanedUserMetric{
		{
			UserID: "user-a", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformAndroid,
			TotalSessionCount: 2, TotalSessionDuration: 600,
			MatchStartCount: 3, MatchEndCount: 2, VictoryCount: 1, DefeatCount: 1,
			ServerConnectionError: 0, IAPRevenue: 10, AdRevenue: 5,
		},
		{
			UserID: "user-b", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformAndroid,
			TotalSessionCount: 1, TotalSessionDuration: 300,
			MatchStartCount: 2, MatchEndCount: 2, VictoryCount: 2, DefeatCount: 0,
			ServerConnectionError: 1, IAPRevenue: 0, AdRevenue: 2,
		},
	}
}

// TestAggregate_ReferenceScenario checks every output metric for a two-user
// group against hand-computed values.
func TestAggregate_ReferenceScenario(t *testing.T) {
	metrics := Aggregate(turkeyAndroidRows())
	if len(metrics) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(metrics))
	}

	m := metrics[0]
	if !m.EventDate.Equal(date(2024, 2, 15)) {
		t.Errorf("Expected event_date 2024-02-15, got %s", m.EventDate.Format("2006-01-02"))
	}
	if m.Country != "Turkey" || m.Platform != models.PlatformAndroid {
		t.Errorf("Expected Turkey/android, got %s/%s", m.Country, m.Platform)
	}
	if m.DAU != 2 {
		t.Errorf("Expected dau 2, got %d", m.DAU)
	}
	if m.TotalIAPRevenue != 10 {
		t.Errorf("Expected total_iap_revenue 10, got %f", m.TotalIAPRevenue)
	}
	if m.TotalAdRevenue != 7 {
		t.Errorf("Expected total_ad_revenue 7, got %f", m.TotalAdRevenue)
	}
	if m.ARPDAU != 8.5 {
		t.Errorf("Expected arpdau 8.5, got %f", m.ARPDAU)
	}
	if m.MatchesStarted != 5 {
		t.Errorf("Expected matches_started 5, got %d", m.MatchesStarted)
	}
	if m.MatchPerDAU != 2.5 {
		t.Errorf("Expected match_per_dau 2.5, got %f", m.MatchPerDAU)
	}
	if m.WinRatio == nil || *m.WinRatio != 0.75 {
		t.Errorf("Expected win_ratio 0.75, got %v", m.WinRatio)
	}
	if m.DefeatRatio == nil || *m.DefeatRatio != 0.25 {
		t.Errorf("Expected defeat_ratio 0.25, got %v", m.DefeatRatio)
	}
	if m.ServerErrorPerDAU != 0.5 {
		t.Errorf("Expected server_error_per_dau 0.5, got %f", m.ServerErrorPerDAU)
	}
	// 900s total across 3 sessions -> (900/60)/3 = 5.0 minutes.
	if m.AvgSessionDurationMinutes == nil || *m.AvgSessionDurationMinutes != 5.0 {
		t.Errorf("Expected avg_session_duration_minutes 5.0, got %v", m.AvgSessionDurationMinutes)
	}
	if m.SessionsPerUser != 1.5 {
		t.Errorf("Expected sessions_per_user 1.5, got %f", m.SessionsPerUser)
	}
}

// TestAggregate_NullSafeRatios verifies that a group with zero match ends
// yields null ratios rather than an error, NaN or Inf.
func TestAggregate_NullSafeRatios(t *testing.T) {
	rows := []models.CleanedUserMetric{
		{
			UserID: "user-a", EventDate: date(2024, 2, 15), Country: "Japan", Platform: models.PlatformIOS,
			TotalSessionCount: 1, TotalSessionDuration: 120,
		},
	}

	metrics := Aggregate(rows)
	if len(metrics) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(metrics))
	}

	m := metrics[0]
	if m.WinRatio != nil {
		t.Errorf("Expected null win_ratio, got %v", *m.WinRatio)
	}
	if m.DefeatRatio != nil {
		t.Errorf("Expected null defeat_ratio, got %v", *m.DefeatRatio)
	}
}

// TestAggregate_NullSessionAverage verifies zero sessions yield a null
// average session duration.
func TestAggregate_NullSessionAverage(t *testing.T) {
	rows := []models.CleanedUserMetric{
		{
			UserID: "user-a", EventDate: date(2024, 2, 15), Country: "Japan", Platform: models.PlatformIOS,
			TotalSessionCount: 0, TotalSessionDuration: 0,
			MatchStartCount: 1, MatchEndCount: 1, VictoryCount: 1,
		},
	}

	metrics := Aggregate(rows)
	if len(metrics) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(metrics))
	}
	if metrics[0].AvgSessionDurationMinutes != nil {
		t.Errorf("Expected null avg_session_duration_minutes, got %v", *metrics[0].AvgSessionDurationMinutes)
	}
}

// TestAggregate_DistinctUsers verifies DAU counts distinct users, not rows.
func TestAggregate_DistinctUsers(t *testing.T) {
	rows := []models.CleanedUserMetric{
		{UserID: "user-a", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformAndroid, TotalSessionCount: 1},
		{UserID: "user-a", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformAndroid, TotalSessionCount: 2},
		{UserID: "user-b", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformAndroid, TotalSessionCount: 1},
	}

	metrics := Aggregate(rows)
	if len(metrics) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(metrics))
	}
	if metrics[0].DAU != 2 {
		t.Errorf("Expected dau 2 with duplicate user rows, got %d", metrics[0].DAU)
	}
	// Sums still cover every row including the duplicate user's rows.
	if metrics[0].SessionsPerUser != 2.0 {
		t.Errorf("Expected sessions_per_user 2.0, got %f", metrics[0].SessionsPerUser)
	}
}

// TestAggregate_OutputOrdering verifies (event_date, country, platform)
// ascending ordering across groups.
func TestAggregate_OutputOrdering(t *testing.T) {
	rows := []models.CleanedUserMetric{
		{UserID: "u1", EventDate: date(2024, 2, 16), Country: "Brazil", Platform: models.PlatformIOS},
		{UserID: "u2", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformIOS},
		{UserID: "u3", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformAndroid},
		{UserID: "u4", EventDate: date(2024, 2, 15), Country: "Brazil", Platform: models.PlatformAndroid},
	}

	metrics := Aggregate(rows)
	if len(metrics) != 4 {
		t.Fatalf("Expected 4 groups, got %d", len(metrics))
	}

	type key struct {
		day, country, platform string
	}
	var got []key
	for _, m := range metrics {
		got = append(got, key{m.EventDate.Format("2006-01-02"), m.Country, m.Platform})
	}
	want := []key{
		{"2024-02-15", "Brazil", models.PlatformAndroid},
		{"2024-02-15", "Turkey", models.PlatformAndroid},
		{"2024-02-15", "Turkey", models.PlatformIOS},
		{"2024-02-16", "Brazil", models.PlatformIOS},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

// TestAggregate_Idempotent verifies two runs over the same snapshot produce
// identical output.
func TestAggregate_Idempotent(t *testing.T) {
	rows := turkeyAndroidRows()
	first := Aggregate(rows)
	second := Aggregate(rows)
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output from repeated aggregation over the same snapshot")
	}
}

// TestAggregate_UniqueKeys verifies the output key invariant and the output
// cardinality bound.
func TestAggregate_UniqueKeys(t *testing.T) {
	rows := []models.CleanedUserMetric{
		{UserID: "u1", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformAndroid},
		{UserID: "u2", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformAndroid},
		{UserID: "u3", EventDate: date(2024, 2, 15), Country: "Turkey", Platform: models.PlatformIOS},
	}

	metrics := Aggregate(rows)

	seen := make(map[string]bool)
	for _, m := range metrics {
		k := m.EventDate.Format("2006-01-02") + "|" + m.Country + "|" + m.Platform
		if seen[k] {
			t.Errorf("Duplicate output key %s", k)
		}
		seen[k] = true
	}
	if len(metrics) > 2 {
		t.Errorf("Expected at most 2 groups for 2 distinct key combinations, got %d", len(metrics))
	}
}

// TestSafeDivide covers the shared helper directly.
func TestSafeDivide(t *testing.T) {
	if v := safeDivide(1, 3, 4); v == nil || *v != 0.3333 {
		t.Errorf("Expected 0.3333, got %v", v)
	}
	if v := safeDivide(1, 3, 2); v == nil || *v != 0.33 {
		t.Errorf("Expected 0.33, got %v", v)
	}
	if v := safeDivide(5, 0, 4); v != nil {
		t.Errorf("Expected nil for zero denominator, got %v", *v)
	}
	if v := safeDivide(0, 4, 2); v == nil || *v != 0 {
		t.Errorf("Expected 0 for zero numerator, got %v", v)
	}
}
