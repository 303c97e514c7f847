package widgets

import (
	"fmt"
	"slices"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/dustin/go-humanize"
)

// DayTable lists one row per category: the label, its value and the
// value's share of the series peak as an inline bar.
//
//	DAY   VALUE  SHARE
//	Mon       2  [███░░░░░░░░░]
type DayTable struct {
	Labels   []string
	Values   []float64
	BarWidth int         // zero means 12
	BarColor vaxis.Color // zero means green
	Selected int         // row drawn in reverse video; -1 for none
}

const (
	dayColWidth   = 5
	valueColWidth = 7
	dayTableGap   = 2
)

// writeCell writes text inside a fixed-width column, right-aligned when
// asked. Text wider than the column is cut.
func writeCell(ctx vxfw.DrawContext, s *vxfw.Surface, col, row uint16, width int, text string, style vaxis.Style, alignRight bool) {
	chars := ctx.Characters(text)
	textWidth := 0
	for _, ch := range chars {
		textWidth += ch.Width
	}
	pos := 0
	if alignRight && textWidth < width {
		pos = width - textWidth
	}
	for _, ch := range chars {
		if pos+ch.Width > width || int(col)+pos+ch.Width > int(s.Size.Width) {
			break
		}
		s.WriteCell(col+uint16(pos), row, vaxis.Cell{Character: ch, Style: style})
		pos += ch.Width
	}
}

// Draw renders the header and one row per label. Rows beyond the available
// height are dropped.
func (dt *DayTable) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	barWidth := dt.BarWidth
	if barWidth == 0 {
		barWidth = 12
	}
	fg := dt.BarColor
	if fg == 0 {
		fg = vaxis.IndexColor(2)
	}

	height := min(uint16(len(dt.Labels)+1), ctx.Max.Height)
	s := vxfw.NewSurface(ctx.Max.Width, height, dt)
	if height == 0 {
		return s, nil
	}

	valueCol := uint16(dayColWidth + dayTableGap)
	barCol := valueCol + valueColWidth + dayTableGap

	dim := vaxis.Style{Attribute: vaxis.AttrDim}
	writeCell(ctx, &s, 0, 0, dayColWidth, "DAY", dim, false)
	writeCell(ctx, &s, valueCol, 0, valueColWidth, "VALUE", dim, true)
	writeCell(ctx, &s, barCol, 0, barWidth+2, "SHARE", dim, false)

	var peak float64
	if len(dt.Values) > 0 {
		peak = slices.Max(dt.Values)
	}

	for i, label := range dt.Labels {
		row := uint16(i + 1)
		if row >= height {
			break
		}
		style := vaxis.Style{}
		if i == dt.Selected {
			style.Attribute |= vaxis.AttrReverse
		}
		writeCell(ctx, &s, 0, row, dayColWidth, label, style, false)
		if i >= len(dt.Values) {
			writeCell(ctx, &s, valueCol, row, valueColWidth, "-", dim, true)
			continue
		}
		v := dt.Values[i]
		writeCell(ctx, &s, valueCol, row, valueColWidth, humanize.Ftoa(v), style, true)

		share := 0.0
		if peak > 0 {
			share = clampPct(v / peak * 100)
		}
		if int(barCol)+barWidth+2 <= int(ctx.Max.Width) {
			col := writeString(ctx, &s, barCol, row, "[", vaxis.Style{})
			col = writeBar(ctx, &s, col, row, barWidth, share, fg)
			writeString(ctx, &s, col, row, fmt.Sprintf("] %3.0f%%", share), dim)
		}
	}
	return s, nil
}
