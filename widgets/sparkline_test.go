package widgets_test

import (
	"testing"

	"github.com/deevus/weekchart/widgets"
)

func TestSparkline_New(t *testing.T) {
	sl := widgets.NewSparkline(60)
	if sl.Count() != 0 {
		t.Errorf("expected count=0, got %d", sl.Count())
	}
	if _, ok := sl.Last(); ok {
		t.Error("expected no last value when empty")
	}
}

func TestSparkline_Push_WrapsAround(t *testing.T) {
	sl := widgets.NewSparkline(3)
	sl.Push(10)
	sl.Push(20)
	sl.Push(30)
	sl.Push(40) // overwrites 10
	if sl.Count() != 3 {
		t.Errorf("expected count=3 after overflow, got %d", sl.Count())
	}
	got := sl.Values()
	want := []float64{20, 30, 40}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if last, _ := sl.Last(); last != 40 {
		t.Errorf("expected last=40, got %v", last)
	}
}

func TestSparkline_Draw_Empty(t *testing.T) {
	sl := widgets.NewSparkline(10)
	s, err := sl.Draw(testDrawContext(20, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Height != 1 {
		t.Errorf("expected height=1, got %d", s.Size.Height)
	}
}

func TestSparkline_Draw_ScalesFromZero(t *testing.T) {
	sl := widgets.NewSparkline(10)
	for _, v := range []float64{0, 14, 28} {
		sl.Push(v)
	}
	s, err := sl.Draw(testDrawContext(20, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"▁", "▅", "█"} {
		if g := cellText(s.Buffer[i]); g != want {
			t.Errorf("cell %d: expected %q, got %q", i, want, g)
		}
	}
}

func TestSparkline_Draw_MoreDataThanWidth(t *testing.T) {
	sl := widgets.NewSparkline(60)
	for i := 0; i < 60; i++ {
		sl.Push(float64(i))
	}
	s, err := sl.Draw(testDrawContext(10, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Newest value is the peak of the visible window.
	if g := cellText(s.Buffer[9]); g != "█" {
		t.Errorf("expected full block for newest value, got %q", g)
	}
}

func TestSparkline_Draw_FlatZero(t *testing.T) {
	sl := widgets.NewSparkline(10)
	for i := 0; i < 5; i++ {
		sl.Push(0)
	}
	s, err := sl.Draw(testDrawContext(20, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := cellText(s.Buffer[0]); g != "▁" {
		t.Errorf("expected lowest block, got %q", g)
	}
}
