package chart_test

import (
	"testing"

	"github.com/deevus/weekchart/chart"
)

func weekLayout(t *testing.T) chart.Layout {
	t.Helper()
	l := newLayout(7)
	if err := l.Resize(364, 50); err != nil {
		t.Fatalf("resize: %v", err)
	}
	return l
}

func TestMapper_XAt_Monotonic(t *testing.T) {
	l := weekLayout(t)
	m := l.Mapper()
	prev := m.XAt(0)
	if prev != 16 {
		t.Errorf("expected first x at the left offset 16, got %v", prev)
	}
	for i := 1; i < 7; i++ {
		x := m.XAt(i)
		if x < prev {
			t.Errorf("x decreased at %d: %v < %v", i, x, prev)
		}
		prev = x
	}
	if m.XAt(6) != 6*55+16 {
		t.Errorf("expected last x %d, got %v", 6*55+16, m.XAt(6))
	}
}

func TestMapper_YAt_Monotonic(t *testing.T) {
	l := weekLayout(t)
	m := l.Mapper()
	prev := m.YAt(0, 8)
	for v := 0.25; v <= 8; v += 0.25 {
		y := m.YAt(v, 8)
		if y > prev {
			t.Errorf("y increased for v=%v: %v > %v", v, y, prev)
		}
		prev = y
	}
}

func TestMapper_YAt_Extremes(t *testing.T) {
	l := weekLayout(t)
	m := l.Mapper()

	top := float64(l.ColumnTopOffset)
	if got := m.YAt(8, 8); got != top {
		t.Errorf("expected the maximum at y=%v, got %v", top, got)
	}
	bottom := float64(l.ColumnTopOffset + l.MaxColumnHeight)
	if got := m.YAt(0, 8); got != bottom {
		t.Errorf("expected zero at y=%v, got %v", bottom, got)
	}
	// 1/8 of 20px rounds to 3px above the bottom.
	if got := m.YAt(1, 8); got != bottom-3 {
		t.Errorf("expected y=%v for 1 of 8, got %v", bottom-3, got)
	}
}

func TestMapper_Padding(t *testing.T) {
	l := newLayout(7)
	l.Padding = chart.Padding{Left: 7, Top: 9}
	if err := l.Resize(364, 80); err != nil {
		t.Fatal(err)
	}
	m := l.Mapper()
	if m.XAt(0) != 16+7 {
		t.Errorf("expected left padding in x, got %v", m.XAt(0))
	}
	if m.YAt(5, 5) != 30+9 {
		t.Errorf("expected top padding in y, got %v", m.YAt(5, 5))
	}
}
