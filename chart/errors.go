package chart

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptySeries is returned for a series with no samples.
	ErrEmptySeries = errors.New("chart: empty series")
	// ErrNegativeValue is returned when a sample is below zero or not finite.
	ErrNegativeValue = errors.New("chart: negative or invalid sample")
	// ErrZeroMax is returned when every sample is zero; values are drawn
	// relative to the maximum so there is nothing to scale against.
	ErrZeroMax = errors.New("chart: series maximum is zero")
	// ErrTooFewLabels is returned when fewer than two labels are configured.
	ErrTooFewLabels = errors.New("chart: at least two labels are required")
	// ErrViewportNotConfigured is returned when rendering before a Resize
	// has committed a usable plot area.
	ErrViewportNotConfigured = errors.New("chart: viewport not configured")
)

// ValidateSeries checks the preconditions of the coordinate mapper: at least
// one sample, no negative or non-finite values and a positive maximum. It returns
// the maximum on success.
func ValidateSeries(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, ErrEmptySeries
	}
	peak := 0.0
	for i, v := range series {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("sample %d (%v): %w", i, v, ErrNegativeValue)
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return 0, ErrZeroMax
	}
	return peak, nil
}
