// Package chart implements the geometry and rendering pipeline of the weekly
// line chart: coordinate mapping, spline smoothing, the overlay fill polygon,
// layout and the reveal animation. It draws through the Canvas interface and
// has no knowledge of the host surface.
package chart

// Point is a position in viewport pixels, y growing downwards.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Rect is an axis-aligned rectangle in viewport pixels.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of r.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Segment is one cubic Bézier piece. Its start is the end of the previous
// segment (or the curve start).
type Segment struct {
	C1, C2, End Point
}

// Curve is a smoothed polyline: a start anchor followed by cubic segments.
type Curve struct {
	Start    Point
	Segments []Segment
}

// Anchors returns the on-curve points, start first.
func (c Curve) Anchors() []Point {
	out := make([]Point, 0, len(c.Segments)+1)
	out = append(out, c.Start)
	for _, s := range c.Segments {
		out = append(out, s.End)
	}
	return out
}

// Path is a curve optionally extended by straight edges and closed.
type Path struct {
	Curve
	Lines  []Point
	Closed bool
}

// Fillable reports whether the path encloses an area worth filling.
func (p Path) Fillable() bool {
	return p.Closed && len(p.Segments) > 0
}
