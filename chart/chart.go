package chart

import (
	"context"
	"fmt"
	"image/color"
	"slices"
	"time"
)

// AnimationParams configures the reveal animation.
type AnimationParams struct {
	Enabled  bool
	Duration time.Duration // zero means DefaultRevealDuration
	Interval time.Duration // zero means DefaultRevealInterval
}

// Params configures a Chart.
type Params struct {
	// Labels names the categories along the x axis; at least two.
	Labels []string
	// Metrics holds the fixed offsets and initial spacing/height. The zero
	// value means DefaultMetrics(1).
	Metrics Metrics
	Padding Padding
	// Style is the palette and typography. The zero value means
	// DefaultStyle(1).
	Style      Style
	Animation AnimationParams
	// Smoothness is the control point factor. Nil means DefaultSmoothness;
	// zero draws straight segments.
	Smoothness *float64

	// Invalidate requests a redraw from the host. Optional.
	Invalidate func()
	// Emit forwards reveal ticks to the host's draw thread, which hands them
	// back through ApplyTick. Without it no reveal is scheduled.
	Emit func(RevealTick)
}

// Chart is the weekly line chart component. It is not safe for concurrent
// use: every method must be called from the host's draw thread.
type Chart struct {
	layout     Layout
	labels     []string
	style      Style
	smoothness float64

	samples []float64
	curve   Curve
	fill    Path

	animate  bool
	instant  bool
	animator Animator
	reveal   *Reveal
	seq      uint64
	tick     RevealTick
	masking  bool

	invalidate func()
	emit       func(RevealTick)
}

var _ Component = (*Chart)(nil)

// New creates a Chart for the given labels.
func New(p Params) (*Chart, error) {
	if len(p.Labels) < 2 {
		return nil, fmt.Errorf("new chart with %d labels: %w", len(p.Labels), ErrTooFewLabels)
	}
	m := p.Metrics
	if m == (Metrics{}) {
		m = DefaultMetrics(1)
	}
	st := p.Style
	if st == (Style{}) {
		st = DefaultStyle(1)
	}
	smooth := DefaultSmoothness
	if p.Smoothness != nil {
		smooth = *p.Smoothness
	}
	c := &Chart{
		layout:     Layout{Metrics: m, Padding: p.Padding, Labels: len(p.Labels)},
		labels:     slices.Clone(p.Labels),
		style:      st,
		smoothness: smooth,
		animate:    p.Animation.Enabled,
		animator: Animator{
			Duration: p.Animation.Duration,
			Interval: p.Animation.Interval,
		},
		invalidate: p.Invalidate,
		emit:       p.Emit,
	}
	return c, nil
}

func (c *Chart) redraw() {
	if c.invalidate != nil {
		c.invalidate()
	}
}

// Measure reports the size the chart wants under the host's constraints.
func (c *Chart) Measure(w, h Constraint) Size {
	return c.layout.Measure(w, h)
}

// Resize commits the final viewport, recomputes spacing and column height
// and rebuilds the geometry against them.
func (c *Chart) Resize(width, height int) error {
	if err := c.layout.Resize(width, height); err != nil {
		return err
	}
	c.rebuild()
	return nil
}

// rebuild recomputes curve and fill from the samples and current layout.
// Both come from a single smoothing pass.
func (c *Chart) rebuild() {
	c.curve, c.fill = Curve{}, Path{}
	if len(c.samples) == 0 || !c.layout.Configured() {
		return
	}
	curve, err := BuildCurve(c.layout.Mapper(), c.samples, c.smoothness)
	if err != nil {
		// samples were validated in SetSamples
		return
	}
	c.curve = curve
	c.fill = BuildFill(curve, &c.layout)
}

// OnSamplesChanged implements Component; it is SetSamples.
func (c *Chart) OnSamplesChanged(series []float64) error {
	return c.SetSamples(series)
}

// SetSamples replaces the data. A rejected series leaves the chart as it
// was. With animation enabled a new reveal starts and any running one is
// cancelled; otherwise a redraw is requested.
func (c *Chart) SetSamples(series []float64) error {
	if _, err := ValidateSeries(series); err != nil {
		return fmt.Errorf("set samples: %w", err)
	}
	c.samples = slices.Clone(series)
	c.rebuild()

	if c.animate && !c.instant && c.emit != nil {
		c.startReveal()
	} else {
		c.stopReveal()
	}
	c.redraw()
	return nil
}

func (c *Chart) startReveal() {
	c.stopReveal()
	c.seq++
	c.tick = RevealTick{Seq: c.seq}
	c.masking = true
	c.reveal = c.animator.Start(context.Background(), c.seq, c.emit)
}

func (c *Chart) stopReveal() {
	if c.reveal != nil {
		c.reveal.Cancel()
		c.reveal = nil
	}
	c.masking = false
}

// ApplyTick installs a tick from the running reveal and reports whether the
// chart needs a redraw. Ticks from cancelled or finished sequences are
// ignored.
func (c *Chart) ApplyTick(t RevealTick) bool {
	if !c.masking || t.Seq != c.seq || t.Progress < c.tick.Progress {
		return false
	}
	c.tick = t
	if t.Done || t.Progress >= 100 {
		c.masking = false
		c.reveal = nil
	}
	return true
}

// SetRevealProgress shows the reveal frozen at progress without running the
// animator. Any running reveal is cancelled. Used for frame export.
func (c *Chart) SetRevealProgress(progress int) {
	c.stopReveal()
	c.seq++
	progress = min(max(progress, 0), 100)
	c.tick = RevealTick{Seq: c.seq, Progress: progress, Done: progress >= 100}
	c.masking = progress < 100
	c.redraw()
}

// Revealing reports whether a reveal is in flight.
func (c *Chart) Revealing() bool {
	return c.masking
}

// Tick returns the last applied reveal tick.
func (c *Chart) Tick() RevealTick {
	return c.tick
}

// RevealBoundary returns the rectangle still hidden by the reveal, computed
// against the current viewport. ok is false when nothing is hidden.
func (c *Chart) RevealBoundary() (r Rect, ok bool) {
	if !c.animate || !c.masking {
		return Rect{}, false
	}
	return RevealBoundary(c.tick.Progress, c.layout.ViewWidth, c.layout.ViewHeight)
}

// Close cancels a running reveal.
func (c *Chart) Close() {
	c.stopReveal()
}

// Render draws the chart: background, gradient, overlay, line, the reveal
// mask and finally the labels.
func (c *Chart) Render(cv Canvas) error {
	if !c.layout.Configured() {
		return fmt.Errorf("render %dx%d: %w", c.layout.ViewWidth, c.layout.ViewHeight, ErrViewportNotConfigured)
	}

	cv.FillRect(c.layout.Viewport(), c.style.Background)

	if len(c.samples) > 0 {
		cv.FillGradient(c.layout.PlotArea(), Gradient{
			Y0:     0,
			Y1:     float64(c.layout.ViewHeight),
			Top:    c.style.GradientEnd,
			Bottom: c.style.GradientStart,
		})
		if c.fill.Fillable() {
			cv.FillPath(c.fill, c.style.Background)
		}
		if len(c.curve.Segments) > 0 {
			cv.StrokeCurve(c.curve, c.style.Line, c.style.LineWidth)
		}
	}

	if r, ok := c.RevealBoundary(); ok {
		cv.FillRect(r, c.style.Background)
	}

	c.renderLabels(cv)
	return nil
}

func (c *Chart) renderLabels(cv Canvas) {
	m := c.layout.Metrics
	pad := c.layout.Padding
	for i, label := range c.labels {
		w, h := cv.MeasureText(label, c.style.TextSize)
		x := float64(pad.Left+m.LeftRightOffset+i*m.Spacing) - w/2
		y := float64(m.ViewHeight) - (h + float64(m.TextBottomOffset+pad.Bottom))
		cv.DrawText(label, x, y, c.style.TextSize, c.style.Text)
	}
}

// SetEmit replaces the tick delivery callback. Without one, later samples
// are drawn at once.
func (c *Chart) SetEmit(emit func(RevealTick)) {
	c.emit = emit
}

// SetAnimationEnabled turns the reveal on or off for later SetSamples calls.
// While disabled no mask is drawn.
func (c *Chart) SetAnimationEnabled(enabled bool) {
	c.animate = enabled
}

// AnimationEnabled reports whether reveals are enabled.
func (c *Chart) AnimationEnabled() bool {
	return c.animate
}

// SetAnimationDuration sets the length of later reveals. A duration of zero
// or less shows later samples at once, without a reveal.
func (c *Chart) SetAnimationDuration(d time.Duration) {
	c.instant = d <= 0
	if !c.instant {
		c.animator.Duration = d
	}
}

// SetSmoothness changes the control point factor and rebuilds the curve.
func (c *Chart) SetSmoothness(s float64) {
	c.smoothness = s
	c.rebuild()
	c.redraw()
}

// SetBackgroundColor sets the background and overlay colour.
func (c *Chart) SetBackgroundColor(col color.Color) {
	c.style.Background = rgba(col)
	c.redraw()
}

// SetTextColor sets the label colour.
func (c *Chart) SetTextColor(col color.Color) {
	c.style.Text = rgba(col)
	c.redraw()
}

// SetLineColor sets the stroke colour.
func (c *Chart) SetLineColor(col color.Color) {
	c.style.Line = rgba(col)
	c.redraw()
}

// SetGradientStartColor sets the colour at the bottom of the backdrop.
func (c *Chart) SetGradientStartColor(col color.Color) {
	c.style.GradientStart = rgba(col)
	c.redraw()
}

// SetGradientEndColor sets the colour at the top of the backdrop.
func (c *Chart) SetGradientEndColor(col color.Color) {
	c.style.GradientEnd = rgba(col)
	c.redraw()
}

// SetTextSize sets the label size in pixels.
func (c *Chart) SetTextSize(px float64) {
	c.style.TextSize = px
	c.redraw()
}

// SetLineWidth sets the stroke width in pixels.
func (c *Chart) SetLineWidth(px float64) {
	c.style.LineWidth = px
	c.redraw()
}

// Style returns the current style.
func (c *Chart) Style() Style {
	return c.style
}

// Metrics returns the current layout metrics.
func (c *Chart) Metrics() Metrics {
	return c.layout.Metrics
}

// Layout returns a copy of the layout.
func (c *Chart) Layout() Layout {
	return c.layout
}

// Labels returns the category labels.
func (c *Chart) Labels() []string {
	return slices.Clone(c.labels)
}

// Samples returns the current series, nil before the first SetSamples.
func (c *Chart) Samples() []float64 {
	return slices.Clone(c.samples)
}

// Curve returns the stroke geometry.
func (c *Chart) Curve() Curve {
	return c.curve
}

// Fill returns the overlay polygon.
func (c *Chart) Fill() Path {
	return c.fill
}

func rgba(col color.Color) color.RGBA {
	if c, ok := col.(color.RGBA); ok {
		return c
	}
	return color.RGBAModel.Convert(col).(color.RGBA)
}
