package chart

import "image/color"

// Gradient is a vertical linear gradient running from Top at Y0 to Bottom at
// Y1, clamped outside that span.
type Gradient struct {
	Y0, Y1      float64
	Top, Bottom color.Color
}

// Canvas is the drawing surface a host hands to Render. Coordinates are
// viewport pixels; text is positioned by its left edge and baseline.
type Canvas interface {
	FillRect(r Rect, c color.Color)
	FillGradient(r Rect, g Gradient)
	FillPath(p Path, c color.Color)
	StrokeCurve(cv Curve, c color.Color, width float64)
	DrawText(text string, x, y, size float64, c color.Color)
	MeasureText(text string, size float64) (w, h float64)
}

// Component is the capability a host container drives: measure, commit a
// size, feed samples and render once per frame.
type Component interface {
	Measure(w, h Constraint) Size
	Resize(width, height int) error
	Render(c Canvas) error
	OnSamplesChanged(series []float64) error
}
