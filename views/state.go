package views

import "github.com/deevus/weekchart/chart"

// SamplesLoaded is a custom vaxis event posted when a fetch from the sample
// source finishes. It is sent from background goroutines via PostEvent so
// the samples reach the chart on the UI goroutine.
type SamplesLoaded struct {
	Samples []float64
	Err     error
}

// RevealTicked carries one reveal animation step from the animator
// goroutine to the UI goroutine.
type RevealTicked struct {
	Tick chart.RevealTick
}
