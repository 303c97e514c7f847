package views

import (
	"fmt"
	"slices"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/weekchart/widgets"
	"github.com/dustin/go-humanize"
)

// ValuesViewParams holds configuration for creating a ValuesView.
type ValuesViewParams struct {
	Labels   []string
	BarColor vaxis.Color
	// Now stamps loads and ages them in the summary. Defaults to time.Now.
	Now func() time.Time
}

// ValuesView lists the current samples as a table with a summary line.
type ValuesView struct {
	table    widgets.DayTable
	loaded   bool
	loadedAt time.Time
	err      error
	now      func() time.Time
}

// NewValuesView creates an empty ValuesView.
func NewValuesView(p ValuesViewParams) *ValuesView {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return &ValuesView{
		table: widgets.DayTable{
			Labels:   p.Labels,
			BarColor: p.BarColor,
			Selected: -1,
		},
		now: now,
	}
}

// SetSamples replaces the listed values.
func (vv *ValuesView) SetSamples(samples []float64) {
	vv.table.Values = slices.Clone(samples)
	vv.loaded = true
	vv.loadedAt = vv.now()
	vv.err = nil
}

// SetError records a failed fetch.
func (vv *ValuesView) SetError(err error) {
	vv.err = err
}

// Loaded reports whether samples have been set.
func (vv *ValuesView) Loaded() bool {
	return vv.loaded
}

// Values returns the listed values.
func (vv *ValuesView) Values() []float64 {
	return vv.table.Values
}

// Selected returns the highlighted row, or -1.
func (vv *ValuesView) Selected() int {
	return vv.table.Selected
}

// Summary describes the series in one line: total, peak day, mean and how
// long ago it was loaded.
func (vv *ValuesView) Summary() string {
	vals := vv.table.Values
	if len(vals) == 0 {
		return "no samples"
	}
	var total float64
	peak := 0
	for i, v := range vals {
		total += v
		if v > vals[peak] {
			peak = i
		}
	}
	peakLabel := fmt.Sprintf("#%d", peak+1)
	if peak < len(vv.table.Labels) {
		peakLabel = vv.table.Labels[peak]
	}
	return fmt.Sprintf("total %s  peak %s %s  mean %s  updated %s",
		humanize.Ftoa(total),
		peakLabel, humanize.Ftoa(vals[peak]),
		humanize.CommafWithDigits(total/float64(len(vals)), 2),
		humanize.RelTime(vv.loadedAt, vv.now(), "ago", "from now"),
	)
}

// Draw renders the summary line above the table.
func (vv *ValuesView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if !vv.loaded {
		return drawLoadingState(ctx, vv, vv.err)
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, vv)

	segs := []vaxis.Segment{{Text: vv.Summary(), Style: vaxis.Style{Attribute: vaxis.AttrBold}}}
	if vv.err != nil {
		segs = append(segs, vaxis.Segment{
			Text:  "  refresh failed: " + vv.err.Error(),
			Style: vaxis.Style{Foreground: vaxis.IndexColor(1)},
		})
	}
	summarySurf, err := richtext.New(segs).Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, summarySurf)

	if ctx.Max.Height < 3 {
		return s, nil
	}
	tableSurf, err := vv.table.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 2}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 2, tableSurf)

	return s, nil
}

// HandleEvent moves the row highlight with j/k or the arrow keys.
func (vv *ValuesView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok || len(vv.table.Labels) == 0 {
		return nil, nil
	}
	sel := vv.table.Selected
	switch {
	case key.Matches('j'), key.Matches(vaxis.KeyDown):
		sel = min(sel+1, len(vv.table.Labels)-1)
	case key.Matches('k'), key.Matches(vaxis.KeyUp):
		sel = max(sel-1, 0)
	case key.Matches(vaxis.KeyEsc):
		sel = -1
	default:
		return nil, nil
	}
	vv.table.Selected = sel
	return vxfw.ConsumeAndRedraw(), nil
}
