package widgets

import (
	"image/color"
	"math"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/weekchart/chart"
	"github.com/deevus/weekchart/render"
)

const halfBlock = "▀" // U+2580

// WeekChart draws a chart.Chart into terminal cells. Each cell above the
// bottom row carries two pixels stacked as an upper half block; the bottom
// row holds the labels as text.
//
// The chart is sized to one pixel per column and two per row, so the
// terminal density in config should scale its dp metrics down accordingly.
type WeekChart struct {
	chart  *chart.Chart
	width  int
	height int
}

// NewWeekChart wraps c. The widget owns layout: it resizes c whenever the
// available cells change.
func NewWeekChart(c *chart.Chart) *WeekChart {
	return &WeekChart{chart: c}
}

// Chart returns the wrapped chart.
func (wc *WeekChart) Chart() *chart.Chart {
	return wc.chart
}

// PixelSize returns the pixel viewport used for a cols x rows cell area.
func PixelSize(cols, rows uint16) (int, int) {
	if rows < 2 {
		return int(cols), 0
	}
	return int(cols), int(rows-1) * 2
}

// cellCanvas rasterises shapes and collects labels for the text row.
type cellCanvas struct {
	*render.Raster
	labels []cellLabel
}

type cellLabel struct {
	text  string
	col   int
	color color.Color
}

func (c *cellCanvas) DrawText(text string, x, y, size float64, col color.Color) {
	c.labels = append(c.labels, cellLabel{text: text, col: int(math.Round(x)), color: col})
}

// MeasureText counts one pixel per rune, which is one column.
func (c *cellCanvas) MeasureText(text string, size float64) (float64, float64) {
	return float64(len([]rune(text))), 1
}

func (wc *WeekChart) resize(w, h int) error {
	if w == wc.width && h == wc.height {
		return nil
	}
	size := wc.chart.Measure(chart.Exact(w), chart.Exact(h))
	if err := wc.chart.Resize(size.Width, size.Height); err != nil {
		return err
	}
	wc.width, wc.height = size.Width, size.Height
	return nil
}

// Draw renders the chart, or a dim notice when the area is too small to
// hold a plot.
func (wc *WeekChart) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, wc)

	w, h := PixelSize(ctx.Max.Width, ctx.Max.Height)
	if h == 0 || w == 0 {
		return s, nil
	}
	if err := wc.resize(w, h); err != nil {
		return vxfw.Surface{}, err
	}
	if l := wc.chart.Layout(); !l.Configured() {
		writeString(ctx, &s, 0, 0, "window too small for the chart", vaxis.Style{Attribute: vaxis.AttrDim})
		return s, nil
	}

	cv := &cellCanvas{Raster: render.NewRaster(w, h)}
	if err := wc.chart.Render(cv); err != nil {
		return vxfw.Surface{}, err
	}

	img := cv.Image()
	for row := 0; row < h/2; row++ {
		for col := 0; col < w; col++ {
			s.WriteCell(uint16(col), uint16(row), vaxis.Cell{
				Character: vaxis.Character{Grapheme: halfBlock, Width: 1},
				Style: vaxis.Style{
					Foreground: RGB(img.At(col, row*2)),
					Background: RGB(img.At(col, row*2+1)),
				},
			})
		}
	}

	labelRow := uint16(h / 2)
	bg := RGB(wc.chart.Style().Background)
	for col := 0; col < w; col++ {
		s.WriteCell(uint16(col), labelRow, vaxis.Cell{
			Character: vaxis.Character{Grapheme: " ", Width: 1},
			Style:     vaxis.Style{Background: bg},
		})
	}
	for _, l := range cv.labels {
		col := min(max(l.col, 0), w-1)
		writeString(ctx, &s, uint16(col), labelRow, l.text, vaxis.Style{Foreground: RGB(l.color), Background: bg})
	}
	return s, nil
}

// writeString writes text from (col, row), clipped to the surface width.
func writeString(ctx vxfw.DrawContext, s *vxfw.Surface, col, row uint16, text string, style vaxis.Style) uint16 {
	for _, ch := range ctx.Characters(text) {
		if col+uint16(ch.Width) > s.Size.Width {
			break
		}
		s.WriteCell(col, row, vaxis.Cell{Character: ch, Style: style})
		col += uint16(ch.Width)
	}
	return col
}
