package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/deevus/weekchart/chart"
	"github.com/fogleman/gg"
)

// Raster is a chart.Canvas drawing into an RGBA image with gg.
type Raster struct {
	dc    *gg.Context
	faces *Faces
}

var _ chart.Canvas = (*Raster)(nil)

// NewRaster creates a width x height raster canvas.
func NewRaster(width, height int) *Raster {
	return &Raster{
		dc:    gg.NewContext(width, height),
		faces: NewFaces(),
	}
}

// FillRect paints r in c.
func (r *Raster) FillRect(rect chart.Rect, c color.Color) {
	if rect.Empty() {
		return
	}
	r.dc.DrawRectangle(rect.Left, rect.Top, rect.Width(), rect.Height())
	r.dc.SetColor(c)
	r.dc.Fill()
}

// FillGradient paints rect with a vertical gradient.
func (r *Raster) FillGradient(rect chart.Rect, g chart.Gradient) {
	if rect.Empty() {
		return
	}
	grad := gg.NewLinearGradient(0, g.Y0, 0, g.Y1)
	grad.AddColorStop(0, g.Top)
	grad.AddColorStop(1, g.Bottom)
	r.dc.DrawRectangle(rect.Left, rect.Top, rect.Width(), rect.Height())
	r.dc.SetFillStyle(grad)
	r.dc.Fill()
}

func (r *Raster) tracePath(cv chart.Curve) {
	r.dc.ClearPath()
	r.dc.MoveTo(cv.Start.X, cv.Start.Y)
	for _, s := range cv.Segments {
		r.dc.CubicTo(s.C1.X, s.C1.Y, s.C2.X, s.C2.Y, s.End.X, s.End.Y)
	}
}

// FillPath fills the closed path p.
func (r *Raster) FillPath(p chart.Path, c color.Color) {
	r.tracePath(p.Curve)
	for _, pt := range p.Lines {
		r.dc.LineTo(pt.X, pt.Y)
	}
	if p.Closed {
		r.dc.ClosePath()
	}
	r.dc.SetColor(c)
	r.dc.Fill()
}

// StrokeCurve strokes the curve with round joins.
func (r *Raster) StrokeCurve(cv chart.Curve, c color.Color, width float64) {
	r.tracePath(cv)
	r.dc.SetLineWidth(width)
	r.dc.SetLineJoinRound()
	r.dc.SetColor(c)
	r.dc.Stroke()
}

// DrawText draws text with its baseline at y.
func (r *Raster) DrawText(text string, x, y, size float64, c color.Color) {
	r.dc.SetFontFace(r.faces.Face(size))
	r.dc.SetColor(c)
	r.dc.DrawString(text, x, y)
}

// MeasureText returns the advance width and ascent of text.
func (r *Raster) MeasureText(text string, size float64) (float64, float64) {
	return measure(r.faces.Face(size), text)
}

// Image returns the rendered image.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SavePNG writes the image to path.
func (r *Raster) SavePNG(path string) error {
	if err := r.dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
