package chart

import "math"

// Mapper converts sample indices and values into viewport pixels.
type Mapper struct {
	Metrics Metrics
	Padding Padding
}

// XAt returns the x position of category i.
func (m Mapper) XAt(i int) float64 {
	return float64(i*m.Metrics.Spacing + m.Metrics.LeftRightOffset + m.Padding.Left)
}

// YAt returns the y position of value v when the series maximum is peak.
// The maximum maps to the top of the plot area and zero to its bottom.
// peak must be positive; see ValidateSeries.
func (m Mapper) YAt(v, peak float64) float64 {
	h := m.Metrics.MaxColumnHeight
	column := int(math.Round(v / peak * float64(h)))
	return float64(m.Metrics.ColumnTopOffset + m.Padding.Top + h - column)
}

// Point returns the anchor of sample i.
func (m Mapper) Point(series []float64, i int, peak float64) Point {
	return Point{X: m.XAt(i), Y: m.YAt(series[i], peak)}
}
