package chart

// DefaultSmoothness is the share of the neighbour-to-neighbour vector used to
// place Bézier control points. Larger values bend the curve more.
const DefaultSmoothness = 0.15

// BuildCurve smooths the mapped series into cubic segments, one per pair of
// consecutive samples. Control points for segment i -> i+1 come from the
// points before i and after i+1, clamped to the ends of the series so the
// first and last segments use their own endpoints as neighbours.
//
// A single sample yields a curve with a start point and no segments.
func BuildCurve(m Mapper, series []float64, smoothness float64) (Curve, error) {
	peak, err := ValidateSeries(series)
	if err != nil {
		return Curve{}, err
	}

	pts := make([]Point, len(series))
	for i := range series {
		pts[i] = m.Point(series, i, peak)
	}

	last := len(pts) - 1
	at := func(i int) Point {
		return pts[min(max(i, 0), last)]
	}

	c := Curve{Start: pts[0]}
	if last == 0 {
		return c, nil
	}
	c.Segments = make([]Segment, 0, last)
	for i := 0; i < last; i++ {
		this, next := pts[i], pts[i+1]
		startDiff := next.Sub(at(i - 1))
		endDiff := at(i + 2).Sub(this)
		c.Segments = append(c.Segments, Segment{
			C1:  this.Add(startDiff.Scale(smoothness)),
			C2:  next.Sub(endDiff.Scale(smoothness)),
			End: next,
		})
	}
	return c, nil
}
