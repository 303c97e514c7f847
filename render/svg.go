package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/deevus/weekchart/chart"
	"golang.org/x/net/html"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// SVG is a chart.Canvas that builds an SVG document. Text is measured with
// the same Go Regular faces as Raster, and the document asks for that
// family first.
type SVG struct {
	root      *html.Node
	defs      *html.Node
	faces     *Faces
	gradients int
}

var _ chart.Canvas = (*SVG)(nil)

// NewSVG creates an empty width x height document.
func NewSVG(width, height int) *SVG {
	root := createSVG("svg", nil,
		html.Attribute{Key: "xmlns", Val: svgNamespace},
		html.Attribute{Key: "width", Val: strconv.Itoa(width)},
		html.Attribute{Key: "height", Val: strconv.Itoa(height)},
		html.Attribute{Key: "viewBox", Val: fmt.Sprintf("0 0 %d %d", width, height)},
	)
	return &SVG{
		root:  root,
		defs:  createSVG("defs", root),
		faces: NewFaces(),
	}
}

func createSVG(tag string, inside *html.Node, attr ...html.Attribute) *html.Node {
	e := &html.Node{
		Type:      html.ElementNode,
		Namespace: "svg",
		Data:      tag,
		Attr:      attr,
	}
	if inside != nil {
		inside.AppendChild(e)
	}
	return e
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// paintAttrs returns the paint attributes for c, adding an opacity only for
// translucent colours.
func paintAttrs(key string, c color.Color) []html.Attribute {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	attrs := []html.Attribute{{Key: key, Val: hexColor(nc)}}
	if nc.A != 0xff {
		attrs = append(attrs, html.Attribute{Key: key + "-opacity", Val: num(float64(nc.A) / 255)})
	}
	return attrs
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func rectAttrs(r chart.Rect) []html.Attribute {
	return []html.Attribute{
		{Key: "x", Val: num(r.Left)},
		{Key: "y", Val: num(r.Top)},
		{Key: "width", Val: num(r.Width())},
		{Key: "height", Val: num(r.Height())},
	}
}

// FillRect adds a filled rect.
func (s *SVG) FillRect(r chart.Rect, c color.Color) {
	if r.Empty() {
		return
	}
	createSVG("rect", s.root, append(rectAttrs(r), paintAttrs("fill", c)...)...)
}

// FillGradient adds a linear gradient definition and a rect using it.
func (s *SVG) FillGradient(r chart.Rect, g chart.Gradient) {
	if r.Empty() {
		return
	}
	s.gradients++
	id := fmt.Sprintf("backdrop-%d", s.gradients)
	grad := createSVG("linearGradient", s.defs,
		html.Attribute{Key: "id", Val: id},
		html.Attribute{Key: "gradientUnits", Val: "userSpaceOnUse"},
		html.Attribute{Key: "x1", Val: "0"},
		html.Attribute{Key: "x2", Val: "0"},
		html.Attribute{Key: "y1", Val: num(g.Y0)},
		html.Attribute{Key: "y2", Val: num(g.Y1)},
	)
	createSVG("stop", grad, append([]html.Attribute{{Key: "offset", Val: "0"}}, paintAttrs("stop-color", g.Top)...)...)
	createSVG("stop", grad, append([]html.Attribute{{Key: "offset", Val: "1"}}, paintAttrs("stop-color", g.Bottom)...)...)

	attrs := append(rectAttrs(r), html.Attribute{Key: "fill", Val: "url(#" + id + ")"})
	createSVG("rect", s.root, attrs...)
}

// pathData renders the curve as SVG path data.
func pathData(cv chart.Curve) *strings.Builder {
	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s", num(cv.Start.X), num(cv.Start.Y))
	for _, seg := range cv.Segments {
		fmt.Fprintf(&b, " C%s,%s %s,%s %s,%s",
			num(seg.C1.X), num(seg.C1.Y),
			num(seg.C2.X), num(seg.C2.Y),
			num(seg.End.X), num(seg.End.Y))
	}
	return &b
}

// FillPath adds a filled path.
func (s *SVG) FillPath(p chart.Path, c color.Color) {
	b := pathData(p.Curve)
	for _, pt := range p.Lines {
		fmt.Fprintf(b, " L%s,%s", num(pt.X), num(pt.Y))
	}
	if p.Closed {
		b.WriteString(" Z")
	}
	attrs := append([]html.Attribute{{Key: "d", Val: b.String()}}, paintAttrs("fill", c)...)
	createSVG("path", s.root, attrs...)
}

// StrokeCurve adds a stroked, unfilled path.
func (s *SVG) StrokeCurve(cv chart.Curve, c color.Color, width float64) {
	attrs := []html.Attribute{
		{Key: "d", Val: pathData(cv).String()},
		{Key: "fill", Val: "none"},
		{Key: "stroke-width", Val: num(width)},
		{Key: "stroke-linejoin", Val: "round"},
	}
	createSVG("path", s.root, append(attrs, paintAttrs("stroke", c)...)...)
}

// DrawText adds a text element with its baseline at y.
func (s *SVG) DrawText(text string, x, y, size float64, c color.Color) {
	attrs := []html.Attribute{
		{Key: "x", Val: num(x)},
		{Key: "y", Val: num(y)},
		{Key: "font-family", Val: "Go, sans-serif"},
		{Key: "font-size", Val: num(size)},
	}
	t := createSVG("text", s.root, append(attrs, paintAttrs("fill", c)...)...)
	t.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// MeasureText returns the advance width and ascent of text in Go Regular.
func (s *SVG) MeasureText(text string, size float64) (float64, float64) {
	return measure(s.faces.Face(size), text)
}

// WriteTo writes the document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := html.Render(cw, s.root); err != nil {
		return cw.n, fmt.Errorf("rendering svg: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
