package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/weekchart/app"
	"github.com/deevus/weekchart/chart"
	"github.com/deevus/weekchart/internal"
	"github.com/deevus/weekchart/views"
)

var week = []float64{2, 5, 3, 8, 1, 6, 4}

func testDrawContext(w, h uint16) vxfw.DrawContext {
	return vxfw.DrawContext{
		Max: vxfw.Size{Width: w, Height: h},
		Min: vxfw.Size{},
		Characters: func(s string) []vaxis.Character {
			chars := make([]vaxis.Character, 0, len(s))
			for _, r := range s {
				chars = append(chars, vaxis.Character{Grapheme: string(r), Width: 1})
			}
			return chars
		},
	}
}

func newTestServices() *internal.Services {
	return internal.NewServices(&internal.MockSource{
		SamplesFunc: func(ctx context.Context) ([]float64, error) {
			return week, nil
		},
	})
}

func chartParams(animate bool) chart.Params {
	return chart.Params{
		Labels:  []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Metrics: chart.DefaultMetrics(0.25),
		Style:   chart.DefaultStyle(0.25),
		Animation: chart.AnimationParams{
			Enabled:  animate,
			Duration: 40 * time.Millisecond,
			Interval: 2 * time.Millisecond,
		},
	}
}

func newApp(t *testing.T, svc *internal.Services) *app.App {
	t.Helper()
	a, err := app.New(app.Params{Services: svc, Chart: chartParams(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

// eventQueue stands in for the vaxis event loop.
type eventQueue struct {
	ch chan vaxis.Event
}

func newEventQueue() *eventQueue {
	return &eventQueue{ch: make(chan vaxis.Event, 1024)}
}

func (q *eventQueue) post(ev vaxis.Event) {
	q.ch <- ev
}

func (q *eventQueue) next(t *testing.T) vaxis.Event {
	t.Helper()
	select {
	case ev := <-q.ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestApp_New(t *testing.T) {
	a := newApp(t, newTestServices())
	if a.ActiveTab() != 0 {
		t.Errorf("expected initial tab 0, got %d", a.ActiveTab())
	}
}

func TestApp_New_TooFewLabels(t *testing.T) {
	p := chartParams(false)
	p.Labels = []string{"Mon"}
	_, err := app.New(app.Params{Services: newTestServices(), Chart: p})
	if !errors.Is(err, chart.ErrTooFewLabels) {
		t.Errorf("expected ErrTooFewLabels, got %v", err)
	}
}

func TestApp_SetTab(t *testing.T) {
	a := newApp(t, newTestServices())
	a.SetTab(1)
	if a.ActiveTab() != 1 {
		t.Errorf("expected tab 1, got %d", a.ActiveTab())
	}
	a.SetTab(5)
	if a.ActiveTab() != 1 {
		t.Errorf("expected out-of-range tab to be ignored, got %d", a.ActiveTab())
	}
}

func TestApp_Load(t *testing.T) {
	a := newApp(t, newTestServices())
	if err := a.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.WeekView().Loaded() || !a.ValuesView().Loaded() {
		t.Error("expected both views loaded")
	}
	if got := a.Chart().Samples(); len(got) != 7 || got[3] != 8 {
		t.Errorf("unexpected chart samples %v", got)
	}
}

func TestApp_Load_Error_Propagation(t *testing.T) {
	svc := internal.NewServices(&internal.MockSource{
		SamplesFunc: func(ctx context.Context) ([]float64, error) {
			return nil, context.DeadlineExceeded
		},
	})
	a := newApp(t, svc)

	err := a.Load(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if a.WeekView().Loaded() {
		t.Error("expected week view not loaded")
	}
}

func TestApp_Load_InvalidSamples(t *testing.T) {
	svc := internal.NewServices(&internal.MockSource{
		SamplesFunc: func(ctx context.Context) ([]float64, error) {
			return []float64{0, 0, 0}, nil
		},
	})
	a := newApp(t, svc)

	err := a.Load(context.Background())
	if !errors.Is(err, chart.ErrZeroMax) {
		t.Fatalf("expected ErrZeroMax, got %v", err)
	}
	if a.ValuesView().Loaded() {
		t.Error("expected values view not to take a rejected series")
	}
}

func TestApp_Load_NoServices(t *testing.T) {
	a, err := app.New(app.Params{Chart: chartParams(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()
	if err := a.Load(context.Background()); err == nil {
		t.Fatal("expected error without a sample source")
	}
}

func TestApp_Load_Timeout(t *testing.T) {
	svc := internal.NewServices(&internal.MockSource{
		SamplesFunc: func(ctx context.Context) ([]float64, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})
	a, err := app.New(app.Params{Services: svc, Chart: chartParams(false), FetchTimeout: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()
	if err := a.Load(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestApp_Draw(t *testing.T) {
	a := newApp(t, newTestServices())
	_ = a.Load(context.Background())

	for tab := 0; tab < 2; tab++ {
		a.SetTab(tab)
		s, err := a.Draw(testDrawContext(80, 24))
		if err != nil {
			t.Fatalf("unexpected error drawing tab %d: %v", tab, err)
		}
		if s.Size.Width != 80 || s.Size.Height != 24 {
			t.Errorf("tab %d: expected 80x24, got %dx%d", tab, s.Size.Width, s.Size.Height)
		}
	}
}

func TestApp_Draw_BeforeLoad(t *testing.T) {
	a := newApp(t, newTestServices())
	if _, err := a.Draw(testDrawContext(80, 24)); err != nil {
		t.Fatalf("unexpected error drawing before load: %v", err)
	}
}

func TestApp_Draw_OneRow(t *testing.T) {
	a := newApp(t, newTestServices())
	if _, err := a.Draw(testDrawContext(80, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApp_CaptureEvent_Quit(t *testing.T) {
	a := newApp(t, newTestServices())

	cmd, err := a.CaptureEvent(vaxis.Key{Keycode: 'q'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cmd.(vxfw.QuitCmd); !ok {
		t.Errorf("expected QuitCmd, got %T", cmd)
	}
}

func TestApp_CaptureEvent_NumberKeys(t *testing.T) {
	a := newApp(t, newTestServices())

	tests := []struct {
		key      rune
		expected int
	}{
		{'2', 1},
		{'1', 0},
	}

	for _, tc := range tests {
		cmd, err := a.CaptureEvent(vaxis.Key{Keycode: tc.key})
		if err != nil {
			t.Fatalf("unexpected error for key '%c': %v", tc.key, err)
		}
		if cmd == nil {
			t.Fatalf("expected non-nil command for key '%c'", tc.key)
		}
		if a.ActiveTab() != tc.expected {
			t.Errorf("key '%c': expected tab %d, got %d", tc.key, tc.expected, a.ActiveTab())
		}
	}
}

func TestApp_CaptureEvent_Tab(t *testing.T) {
	a := newApp(t, newTestServices())

	if _, err := a.CaptureEvent(vaxis.Key{Keycode: vaxis.KeyTab}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ActiveTab() != 1 {
		t.Errorf("expected tab 1 after Tab, got %d", a.ActiveTab())
	}
	if _, err := a.CaptureEvent(vaxis.Key{Keycode: vaxis.KeyTab}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ActiveTab() != 0 {
		t.Errorf("expected wrap to tab 0, got %d", a.ActiveTab())
	}
}

func TestApp_CaptureEvent_ShiftTab(t *testing.T) {
	a := newApp(t, newTestServices())

	cmd, err := a.CaptureEvent(vaxis.Key{Keycode: vaxis.KeyTab, Modifiers: vaxis.ModShift})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd == nil {
		t.Fatal("expected non-nil command for Shift+Tab")
	}
	if a.ActiveTab() != 1 {
		t.Errorf("expected tab 1 after Shift+Tab, got %d", a.ActiveTab())
	}
}

func TestApp_CaptureEvent_ToggleAnimation(t *testing.T) {
	a := newApp(t, newTestServices())
	if a.Chart().AnimationEnabled() {
		t.Fatal("expected animation off")
	}
	if _, err := a.CaptureEvent(vaxis.Key{Keycode: 'a'}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Chart().AnimationEnabled() {
		t.Error("expected animation on after 'a'")
	}
}

func TestApp_CaptureEvent_Refresh_Sync(t *testing.T) {
	a := newApp(t, newTestServices())

	cmd, err := a.CaptureEvent(vaxis.Key{Keycode: 'r'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd == nil {
		t.Fatal("expected non-nil command for 'r' key")
	}
	if !a.WeekView().Loaded() {
		t.Error("expected 'r' to load samples without an event loop")
	}
}

func TestApp_CaptureEvent_Refresh_Async(t *testing.T) {
	a := newApp(t, newTestServices())
	q := newEventQueue()
	a.SetPostEvent(q.post)

	if _, err := a.CaptureEvent(vaxis.Key{Keycode: 'r'}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev, ok := q.next(t).(views.SamplesLoaded)
	if !ok {
		t.Fatalf("expected SamplesLoaded, got %T", ev)
	}
	if ev.Err != nil || len(ev.Samples) != 7 {
		t.Fatalf("unexpected event %+v", ev)
	}
	cmd, err := a.HandleEvent(ev, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cmd.(vxfw.RedrawCmd); !ok {
		t.Errorf("expected RedrawCmd, got %T", cmd)
	}
	if !a.ValuesView().Loaded() {
		t.Error("expected values view loaded")
	}
}

func TestApp_CaptureEvent_UnhandledKey(t *testing.T) {
	a := newApp(t, newTestServices())

	cmd, err := a.CaptureEvent(vaxis.Key{Keycode: 'x'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != nil {
		t.Errorf("expected nil command for unhandled key, got %T", cmd)
	}
}

func TestApp_CaptureEvent_NonKeyEvent(t *testing.T) {
	a := newApp(t, newTestServices())

	cmd, err := a.CaptureEvent(vaxis.Redraw{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != nil {
		t.Errorf("expected nil command for non-key event, got %T", cmd)
	}
}

func TestApp_HandleEvent_Init_NoEventLoop(t *testing.T) {
	a := newApp(t, newTestServices())

	cmd, err := a.HandleEvent(vxfw.Init{}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cmd.(vxfw.RedrawCmd); !ok {
		t.Errorf("expected RedrawCmd, got %T", cmd)
	}
	if !a.WeekView().Loaded() {
		t.Error("expected samples loaded on Init")
	}
}

func TestApp_HandleEvent_Init_NoEventLoop_Animated(t *testing.T) {
	a, err := app.New(app.Params{Services: newTestServices(), Chart: chartParams(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()

	if _, err := a.HandleEvent(vxfw.Init{}, vxfw.EventPhase(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.WeekView().Loaded() {
		t.Fatal("expected samples loaded on Init")
	}
	if a.Chart().Revealing() {
		t.Error("expected no reveal without an event loop to deliver ticks")
	}
	if _, ok := a.Chart().RevealBoundary(); ok {
		t.Error("expected the chart to be drawn unmasked")
	}
}

func TestApp_SetPostEvent_Nil(t *testing.T) {
	a, err := app.New(app.Params{Services: newTestServices(), Chart: chartParams(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()
	q := newEventQueue()
	a.SetPostEvent(q.post)
	a.SetPostEvent(nil)

	if err := a.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Chart().Revealing() {
		t.Error("expected detaching the event loop to stop later reveals")
	}
}

func TestApp_HandleEvent_SamplesLoaded_WithError(t *testing.T) {
	a := newApp(t, newTestServices())

	cmd, err := a.HandleEvent(views.SamplesLoaded{Err: context.DeadlineExceeded}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cmd.(vxfw.RedrawCmd); !ok {
		t.Errorf("expected RedrawCmd even on load error, got %T", cmd)
	}
}

func TestApp_HandleEvent_StaleTick(t *testing.T) {
	a := newApp(t, newTestServices())

	cmd, err := a.HandleEvent(views.RevealTicked{Tick: chart.RevealTick{Seq: 42, Progress: 10}}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != nil {
		t.Errorf("expected stale tick to be dropped, got %T", cmd)
	}
}

func TestApp_HandleEvent_DelegatesToValues(t *testing.T) {
	a := newApp(t, newTestServices())
	_ = a.Load(context.Background())
	a.SetTab(1)

	cmd, err := a.HandleEvent(vaxis.Key{Keycode: 'j'}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd == nil {
		t.Error("expected the values view to consume j")
	}
	if a.ValuesView().Selected() != 0 {
		t.Errorf("expected row 0 selected, got %d", a.ValuesView().Selected())
	}
}

// Init loads in the background; the reveal ticks come back through the
// event queue and drive the chart to the end of the animation.
func TestApp_Reveal_EndToEnd(t *testing.T) {
	a, err := app.New(app.Params{Services: newTestServices(), Chart: chartParams(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()
	q := newEventQueue()
	a.SetPostEvent(q.post)

	if _, err := a.HandleEvent(vxfw.Init{}, vxfw.EventPhase(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := -1
	for {
		ev := q.next(t)
		if _, err := a.HandleEvent(ev, vxfw.EventPhase(0)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tick, ok := ev.(views.RevealTicked)
		if !ok {
			continue
		}
		if tick.Tick.Progress < last {
			t.Fatalf("progress went backwards: %d after %d", tick.Tick.Progress, last)
		}
		last = tick.Tick.Progress
		if tick.Tick.Done {
			break
		}
	}
	if last != 100 {
		t.Errorf("expected reveal to end at 100, got %d", last)
	}
	if a.Chart().Revealing() {
		t.Error("expected reveal finished")
	}
	if _, err := a.Draw(testDrawContext(80, 24)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApp_StartRefresh(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	svc := internal.NewServices(&internal.MockSource{
		SamplesFunc: func(ctx context.Context) ([]float64, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return week, nil
		},
	})
	a, err := app.New(app.Params{Services: svc, Chart: chartParams(false), Refresh: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := newEventQueue()
	a.SetPostEvent(q.post)
	a.StartRefresh(context.Background())

	for i := 0; i < 3; i++ {
		if _, ok := q.next(t).(views.SamplesLoaded); !ok {
			t.Fatal("expected SamplesLoaded from the refresh loop")
		}
	}
	a.Close()

	mu.Lock()
	defer mu.Unlock()
	if calls < 3 {
		t.Errorf("expected at least 3 fetches, got %d", calls)
	}
}

func TestApp_StartRefresh_Disabled(t *testing.T) {
	a := newApp(t, newTestServices())
	q := newEventQueue()
	a.SetPostEvent(q.post)
	a.StartRefresh(context.Background())

	select {
	case ev := <-q.ch:
		t.Errorf("expected no events with refresh disabled, got %T", ev)
	case <-time.After(20 * time.Millisecond):
	}
}
