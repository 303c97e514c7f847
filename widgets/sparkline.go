package widgets

import (
	"math"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Block characters for sparkline rendering (8 levels).
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a 1-row history of non-negative values, such as weekly
// totals across refreshes, scaled from zero to the largest value shown.
type Sparkline struct {
	Color vaxis.Color // zero means cyan

	values []float64
	head   int
	count  int
}

// NewSparkline creates a Sparkline keeping the last capacity values.
func NewSparkline(capacity int) *Sparkline {
	return &Sparkline{
		values: make([]float64, max(capacity, 1)),
	}
}

// Push records v, evicting the oldest value once full.
func (sl *Sparkline) Push(v float64) {
	sl.values[sl.head] = v
	sl.head = (sl.head + 1) % len(sl.values)
	if sl.count < len(sl.values) {
		sl.count++
	}
}

// Count returns the number of values currently stored.
func (sl *Sparkline) Count() int {
	return sl.count
}

// Last returns the most recent value, or false when empty.
func (sl *Sparkline) Last() (float64, bool) {
	if sl.count == 0 {
		return 0, false
	}
	return sl.values[(sl.head-1+len(sl.values))%len(sl.values)], true
}

// Values returns the stored values oldest first.
func (sl *Sparkline) Values() []float64 {
	out := make([]float64, sl.count)
	start := (sl.head - sl.count + len(sl.values)) % len(sl.values)
	for i := range out {
		out[i] = sl.values[(start+i)%len(sl.values)]
	}
	return out
}

// level maps v onto the eight blocks of a zero-based scale.
func level(v, peak float64) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	return min(int(math.Round(v/peak*7)), 7)
}

// Draw renders the newest values that fit the width, one cell each.
func (sl *Sparkline) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sl)

	vals := sl.Values()
	if width := int(ctx.Max.Width); len(vals) > width {
		vals = vals[len(vals)-width:]
	}
	if len(vals) == 0 {
		return s, nil
	}

	var peak float64
	for _, v := range vals {
		peak = max(peak, v)
	}

	fg := sl.Color
	if fg == 0 {
		fg = vaxis.IndexColor(6)
	}
	for i, v := range vals {
		for _, c := range ctx.Characters(string(sparkBlocks[level(v, peak)])) {
			s.WriteCell(uint16(i), 0, vaxis.Cell{
				Character: c,
				Style:     vaxis.Style{Foreground: fg},
			})
		}
	}
	return s, nil
}
