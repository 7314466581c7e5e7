// Playmetrics - Mobile Game Daily Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmetrics

package transform

import (
	"math"
	"time"
)

// safeDivide is the single shared null-safe division used by every derived
// metric, so rounding and zero-denominator handling cannot diverge between
// metrics. A zero denominator yields nil, never an error, Inf or NaN. The
// quotient is rounded half-away-from-zero to the given number of decimal
// places before being returned.
func safeDivide(numerator, denominator float64, places int) *float64 {
	if denominator == 0 {
		return nil
	}
	v := roundTo(numerator/denominator, places)
	return &v
}

// roundTo rounds x to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(x*factor) / factor
}

// orZero unwraps a safeDivide result that is known to be non-nil because the
// denominator was already guarded (DAU > 0 for every surviving group). The
// zero fallback keeps the unwrap total anyway.
func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// mustParseDate parses an ISO date produced by groupKey. The input is always
// a value this package formatted itself, so a parse failure is a programming
// error and panics.
func mustParseDate(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic("transform: invalid group date " + s)
	}
	return t
}
