package chart

// BuildFill closes the stroke curve into the overlay region above it: from
// the last anchor straight to the top-right corner of the plot area, across
// to the top-left corner and back to the first anchor. Painting this region
// in the background colour leaves the gradient visible only below the curve.
//
// The curve must be the one used for the stroke so fill and line never
// diverge. A curve without segments gives an open single-point path.
func BuildFill(c Curve, l *Layout) Path {
	p := Path{Curve: c}
	if len(c.Segments) == 0 {
		return p
	}
	area := l.PlotArea()
	p.Lines = []Point{
		{X: area.Right, Y: area.Top},
		{X: area.Left, Y: area.Top},
		c.Start,
	}
	p.Closed = true
	return p
}
