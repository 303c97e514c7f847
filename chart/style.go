package chart

import "image/color"

// Default palette.
var (
	DefaultBackground    = color.RGBA{0x00, 0x00, 0x00, 0xff}
	DefaultText          = color.RGBA{0xff, 0xff, 0xff, 0xff}
	DefaultLine          = color.RGBA{0x8a, 0xc5, 0x3f, 0xff}
	DefaultGradientStart = color.RGBA{0x00, 0x00, 0x00, 0xff}
	DefaultGradientEnd   = color.RGBA{0x8a, 0xc5, 0x3f, 0xff}
)

// Style holds the palette and typography of the chart.
type Style struct {
	Background    color.RGBA
	Text          color.RGBA
	Line          color.RGBA
	GradientStart color.RGBA // bottom of the backdrop
	GradientEnd   color.RGBA // top of the backdrop
	TextSize      float64    // pixels
	LineWidth     float64    // pixels
}

// DefaultStyle returns the default palette with sizes scaled by density.
func DefaultStyle(density float64) Style {
	return Style{
		Background:    DefaultBackground,
		Text:          DefaultText,
		Line:          DefaultLine,
		GradientStart: DefaultGradientStart,
		GradientEnd:   DefaultGradientEnd,
		TextSize:      float64(dp(defaultTextSizeDP, density)),
		LineWidth:     float64(dp(defaultLineWidthDP, density)),
	}
}
