package views

import (
	"fmt"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/weekchart/chart"
	"github.com/deevus/weekchart/widgets"
	"github.com/dustin/go-humanize"
)

// WeekViewParams holds configuration for creating a WeekView.
type WeekViewParams struct {
	Chart *chart.Chart
	// HistorySize is how many weekly totals the sparkline keeps. Zero
	// means 60.
	HistorySize int
}

// WeekView shows the chart with a reveal gauge and a history of weekly
// totals underneath.
//
//	┌ chart ─────────────────────────┐
//	Reveal [██████░░░░]  60%  animating
//	Totals ▂▃▅▇█▅  total 29
type WeekView struct {
	chart    *widgets.WeekChart
	history  *widgets.Sparkline
	loaded   bool
	loadedAt time.Time
	err      error
}

// NewWeekView creates a WeekView around the given chart.
func NewWeekView(p WeekViewParams) *WeekView {
	size := p.HistorySize
	if size == 0 {
		size = 60
	}
	history := widgets.NewSparkline(size)
	history.Color = widgets.RGB(p.Chart.Style().Line)
	return &WeekView{
		chart:   widgets.NewWeekChart(p.Chart),
		history: history,
	}
}

// Chart returns the chart shown by the view.
func (wv *WeekView) Chart() *chart.Chart {
	return wv.chart.Chart()
}

// SetSamples hands a new series to the chart and records its total. A
// rejected series leaves the view unchanged.
func (wv *WeekView) SetSamples(samples []float64) error {
	if err := wv.chart.Chart().SetSamples(samples); err != nil {
		return err
	}
	var total float64
	for _, v := range samples {
		total += v
	}
	wv.history.Push(total)
	wv.loaded = true
	wv.loadedAt = time.Now()
	wv.err = nil
	return nil
}

// SetError records a failed fetch. It is shown in place of the chart until
// the first successful load, and in the status row afterwards.
func (wv *WeekView) SetError(err error) {
	wv.err = err
}

// Loaded reports whether samples have been successfully set.
func (wv *WeekView) Loaded() bool {
	return wv.loaded
}

// LoadedAt returns when samples were last set.
func (wv *WeekView) LoadedAt() time.Time {
	return wv.loadedAt
}

// History returns the weekly totals recorded so far, oldest first.
func (wv *WeekView) History() []float64 {
	return wv.history.Values()
}

// ApplyTick forwards a reveal tick to the chart.
func (wv *WeekView) ApplyTick(t chart.RevealTick) bool {
	return wv.chart.Chart().ApplyTick(t)
}

func (wv *WeekView) revealGauge() *widgets.Gauge {
	c := wv.chart.Chart()
	g := &widgets.Gauge{
		Label:    "Reveal",
		Value:    100,
		BarWidth: 20,
		Color:    widgets.RGB(c.Style().Line),
	}
	switch {
	case !c.AnimationEnabled():
		g.Suffix = "animation off"
	case c.Revealing():
		g.Value = float64(c.Tick().Progress)
		g.Suffix = "animating"
	default:
		g.Suffix = "done"
	}
	if wv.err != nil {
		g.Suffix = "refresh failed: " + wv.err.Error()
	}
	return g
}

// Draw renders the chart above the two status rows, or a loading state if
// no samples have arrived.
func (wv *WeekView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if !wv.loaded {
		return drawLoadingState(ctx, wv, wv.err)
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, wv)
	if ctx.Max.Height < 3 {
		return s, nil
	}
	chartRows := ctx.Max.Height - 2

	chartSurf, err := wv.chart.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: chartRows}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, chartSurf)

	rowCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})
	gaugeSurf, err := wv.revealGauge().Draw(rowCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, int(chartRows), gaugeSurf)

	last, _ := wv.history.Last()
	label := richtext.New([]vaxis.Segment{
		{Text: "Totals ", Style: vaxis.Style{Attribute: vaxis.AttrBold}},
	})
	labelSurf, err := label.Draw(ctx.WithMax(vxfw.Size{Width: 7, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, int(chartRows)+1, labelSurf)

	summary := fmt.Sprintf("  total %s", humanize.Ftoa(last))
	sparkWidth := max(int(ctx.Max.Width)-7-len(summary), 0)
	sparkSurf, err := wv.history.Draw(ctx.WithMax(vxfw.Size{Width: uint16(sparkWidth), Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(7, int(chartRows)+1, sparkSurf)

	sumSurf, err := richtext.New([]vaxis.Segment{
		{Text: summary, Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	}).Draw(ctx.WithMax(vxfw.Size{Width: uint16(len(summary)), Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(7+min(wv.history.Count(), sparkWidth), int(chartRows)+1, sumSurf)

	return s, nil
}
