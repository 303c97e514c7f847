package widgets

import (
	"fmt"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Gauge is a horizontal percentage bar.
//
//	Reveal [████████░░░░░░░░░░░░]  42%  animating
type Gauge struct {
	Label    string
	Value    float64     // 0-100, clamped
	Suffix   string      // dim text after the percentage
	BarWidth int         // cells between the brackets
	Color    vaxis.Color // zero means green
}

const (
	barFilled = "█" // U+2588
	barEmpty  = "░" // U+2591
)

// writeBar draws a width-cell bar filled to pct and returns the next column.
func writeBar(ctx vxfw.DrawContext, s *vxfw.Surface, col, row uint16, width int, pct float64, fg vaxis.Color) uint16 {
	filled := int(pct / 100 * float64(width))
	for i := 0; i < width; i++ {
		ch, style := barEmpty, vaxis.Style{Foreground: vaxis.IndexColor(8)}
		if i < filled {
			ch, style = barFilled, vaxis.Style{Foreground: fg}
		}
		col = writeString(ctx, s, col, row, ch, style)
	}
	return col
}

func clampPct(v float64) float64 {
	return min(max(v, 0), 100)
}

// Draw renders the gauge as a single row.
func (g *Gauge) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, g)

	fg := g.Color
	if fg == 0 {
		fg = vaxis.IndexColor(2)
	}
	v := clampPct(g.Value)

	col := uint16(0)
	if g.Label != "" {
		col = writeString(ctx, &s, col, 0, g.Label+" ", vaxis.Style{Attribute: vaxis.AttrBold})
	}
	col = writeString(ctx, &s, col, 0, "[", vaxis.Style{})
	col = writeBar(ctx, &s, col, 0, g.BarWidth, v, fg)
	col = writeString(ctx, &s, col, 0, fmt.Sprintf("] %3.0f%%", v), vaxis.Style{})
	if g.Suffix != "" {
		writeString(ctx, &s, col, 0, "  "+g.Suffix, vaxis.Style{Attribute: vaxis.AttrDim})
	}
	return s, nil
}
