package chart

import "fmt"

// Default sizes in density-independent pixels.
const (
	defaultTextSizeDP        = 18
	defaultLineWidthDP       = 4
	defaultColumnHeightDP    = 20
	defaultSpacingDP         = 8
	defaultColumnTopOffsetDP = 30
	defaultLeftRightOffsetDP = 16
	defaultTextBottomDP      = 2
)

// MeasureMode says how a proposed size constrains one axis.
type MeasureMode int

const (
	// Unspecified lets the chart take its desired size.
	Unspecified MeasureMode = iota
	// AtMost caps the desired size at the proposed one.
	AtMost
	// Exactly forces the proposed size.
	Exactly
)

func (m MeasureMode) String() string {
	switch m {
	case Unspecified:
		return "unspecified"
	case AtMost:
		return "at-most"
	case Exactly:
		return "exactly"
	}
	return fmt.Sprintf("MeasureMode(%d)", int(m))
}

// Constraint is the size proposed by a host for one axis.
type Constraint struct {
	Mode MeasureMode
	Size int
}

// Exact returns a constraint forcing size n.
func Exact(n int) Constraint { return Constraint{Mode: Exactly, Size: n} }

// Max returns a constraint capping the size at n.
func Max(n int) Constraint { return Constraint{Mode: AtMost, Size: n} }

// Free returns an unconstrained axis.
func Free() Constraint { return Constraint{Mode: Unspecified} }

// resolve picks the final size for one axis.
func (c Constraint) resolve(desired int) int {
	switch c.Mode {
	case Exactly:
		return c.Size
	case AtMost:
		return min(desired, c.Size)
	default:
		return desired
	}
}

// Size is a width and height in pixels.
type Size struct {
	Width, Height int
}

// Padding is the host-imposed inset on each side of the viewport.
type Padding struct {
	Left, Top, Right, Bottom int
}

// Horizontal returns Left+Right.
func (p Padding) Horizontal() int { return p.Left + p.Right }

// Vertical returns Top+Bottom.
func (p Padding) Vertical() int { return p.Top + p.Bottom }

// Metrics is the derived layout of the chart in pixels.
type Metrics struct {
	ViewWidth        int
	ViewHeight       int
	LeftRightOffset  int
	ColumnTopOffset  int
	TextBottomOffset int
	Spacing          int // horizontal distance between two categories
	MaxColumnHeight  int // vertical extent of the value range
}

// DefaultMetrics returns the fixed offsets and initial spacing scaled by the
// display density. The viewport itself stays zero until Resize.
func DefaultMetrics(density float64) Metrics {
	return Metrics{
		LeftRightOffset:  dp(defaultLeftRightOffsetDP, density),
		ColumnTopOffset:  dp(defaultColumnTopOffsetDP, density),
		TextBottomOffset: dp(defaultTextBottomDP, density),
		Spacing:          dp(defaultSpacingDP, density),
		MaxColumnHeight:  dp(defaultColumnHeightDP, density),
	}
}

func dp(v int, density float64) int {
	return int(float64(v) * density)
}

// Layout turns host constraints into Metrics. Labels is the number of
// categories along the x axis.
type Layout struct {
	Metrics
	Padding Padding
	Labels  int
}

// Measure computes the size the chart wants under the given constraints.
// Each axis is resolved independently.
func (l *Layout) Measure(w, h Constraint) Size {
	gaps := max(l.Labels-1, 0)
	desiredW := gaps*l.Spacing + 2*l.LeftRightOffset + l.Padding.Horizontal()
	desiredH := l.MaxColumnHeight + l.ColumnTopOffset + l.Padding.Vertical()
	return Size{
		Width:  w.resolve(desiredW),
		Height: h.resolve(desiredH),
	}
}

// Resize commits the final viewport and recomputes spacing and column height
// together. Sizes smaller than the fixed offsets are accepted and leave the
// layout unconfigured.
func (l *Layout) Resize(width, height int) error {
	if l.Labels < 2 {
		return fmt.Errorf("resize with %d labels: %w", l.Labels, ErrTooFewLabels)
	}
	l.ViewWidth = width
	l.ViewHeight = height
	l.Spacing = (width - 2*l.LeftRightOffset - l.Padding.Horizontal()) / (l.Labels - 1)
	l.MaxColumnHeight = height - l.ColumnTopOffset - l.Padding.Vertical()
	return nil
}

// Configured reports whether the committed viewport leaves a drawable plot
// area.
func (l *Layout) Configured() bool {
	return l.ViewWidth > 0 && l.ViewHeight > 0 && l.Spacing > 0 && l.MaxColumnHeight > 0
}

// PlotArea returns the rectangle between the side offsets, from the top
// padding down to the bottom padding.
func (l *Layout) PlotArea() Rect {
	return Rect{
		Left:   float64(l.LeftRightOffset + l.Padding.Left),
		Top:    float64(l.Padding.Top),
		Right:  float64(l.ViewWidth - l.LeftRightOffset - l.Padding.Right),
		Bottom: float64(l.ViewHeight - l.Padding.Bottom),
	}
}

// Viewport returns the full committed viewport.
func (l *Layout) Viewport() Rect {
	return Rect{Right: float64(l.ViewWidth), Bottom: float64(l.ViewHeight)}
}

// Mapper returns a coordinate mapper bound to the current metrics.
func (l *Layout) Mapper() Mapper {
	return Mapper{Metrics: l.Metrics, Padding: l.Padding}
}
