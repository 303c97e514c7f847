package app

import (
	"context"
	"fmt"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/weekchart/chart"
	"github.com/deevus/weekchart/internal"
	"github.com/deevus/weekchart/views"
	"github.com/deevus/weekchart/widgets"
	"github.com/sirupsen/logrus"
)

const (
	tabChart = iota
	tabValues
)

// Params holds configuration for creating an App.
type Params struct {
	Services *internal.Services
	// Chart configures the chart. Emit and Invalidate are owned by the App
	// and overwritten; ticks are delivered only once SetPostEvent is called.
	Chart chart.Params
	// Refresh is how often samples are fetched again. Zero disables it.
	Refresh time.Duration
	// FetchTimeout bounds a single fetch. Zero means 10s.
	FetchTimeout time.Duration
}

// App is the root vxfw widget for weekchart.
type App struct {
	services  *internal.Services
	tabBar    *widgets.TabBar
	week      *views.WeekView
	values    *views.ValuesView
	postEvent func(vaxis.Event)

	refresh time.Duration
	timeout time.Duration
	cancel  context.CancelFunc
}

// New creates the root App widget reading from the given services.
func New(p Params) (*App, error) {
	a := &App{
		services: p.Services,
		refresh:  p.Refresh,
		timeout:  p.FetchTimeout,
	}
	if a.timeout == 0 {
		a.timeout = 10 * time.Second
	}

	cp := p.Chart
	cp.Invalidate = nil
	cp.Emit = nil
	c, err := chart.New(cp)
	if err != nil {
		return nil, fmt.Errorf("creating chart: %w", err)
	}

	accent := widgets.RGB(c.Style().Line)
	a.tabBar = widgets.NewTabBar([]string{"Chart", "Values"})
	a.tabBar.Accent = accent
	a.week = views.NewWeekView(views.WeekViewParams{Chart: c})
	a.values = views.NewValuesView(views.ValuesViewParams{Labels: c.Labels(), BarColor: accent})
	return a, nil
}

// SetPostEvent sets the function used to post events to the vaxis event loop.
// Must be called before the app is run. Reveals run only while there is an
// event loop to carry their ticks.
func (a *App) SetPostEvent(fn func(vaxis.Event)) {
	a.postEvent = fn
	if fn == nil {
		a.week.Chart().SetEmit(nil)
		return
	}
	a.week.Chart().SetEmit(a.emitTick)
}

// emitTick runs on the animator goroutine and hands the tick to the event
// loop.
func (a *App) emitTick(t chart.RevealTick) {
	if a.postEvent != nil {
		a.postEvent(views.RevealTicked{Tick: t})
	}
}

// ActiveTab returns the current tab index.
func (a *App) ActiveTab() int {
	return a.tabBar.Active()
}

// SetTab switches to the given tab index.
func (a *App) SetTab(i int) {
	a.tabBar.SetActive(i)
}

// Chart returns the chart shown on the first tab.
func (a *App) Chart() *chart.Chart {
	return a.week.Chart()
}

// WeekView returns the chart tab.
func (a *App) WeekView() *views.WeekView {
	return a.week
}

// ValuesView returns the values tab.
func (a *App) ValuesView() *views.ValuesView {
	return a.values
}

func (a *App) fetch(ctx context.Context) ([]float64, error) {
	if a.services == nil || a.services.Samples == nil {
		return nil, fmt.Errorf("no sample source configured")
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	samples, err := a.services.Samples.Samples(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching samples: %w", err)
	}
	return samples, nil
}

// Load fetches samples and applies them on the calling goroutine, which must
// be the UI goroutine.
func (a *App) Load(ctx context.Context) error {
	samples, err := a.fetch(ctx)
	return a.apply(samples, err)
}

// LoadAsync fetches samples in the background and posts a SamplesLoaded
// event with the result.
func (a *App) LoadAsync(ctx context.Context) {
	go a.fetchAndPost(ctx)
}

func (a *App) fetchAndPost(ctx context.Context) {
	samples, err := a.fetch(ctx)
	if ctx.Err() != nil {
		return
	}
	if a.postEvent != nil {
		a.postEvent(views.SamplesLoaded{Samples: samples, Err: err})
	}
}

// apply hands samples to both views. Errors are logged and shown, never
// fatal.
func (a *App) apply(samples []float64, err error) error {
	if err == nil {
		err = a.week.SetSamples(samples)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			logrus.ErrorKey: err,
			"samples":       samples,
		}).Warn("failed to load samples")
		a.week.SetError(err)
		a.values.SetError(err)
		return err
	}
	a.values.SetSamples(samples)
	logrus.WithField("samples", samples).Debug("samples loaded")
	return nil
}

// StartRefresh fetches new samples every Refresh interval until ctx is
// cancelled or Close is called. It does nothing when refresh is disabled or
// there is no event loop to post to.
func (a *App) StartRefresh(ctx context.Context) {
	if a.refresh <= 0 || a.postEvent == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	go func() {
		ticker := time.NewTicker(a.refresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.fetchAndPost(ctx)
			}
		}
	}()
}

// Close stops the refresh loop and any running reveal.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.week.Chart().Close()
}

// ToggleAnimation turns the reveal on or off. Turning it off drops any
// mask in flight.
func (a *App) ToggleAnimation() bool {
	c := a.week.Chart()
	c.SetAnimationEnabled(!c.AnimationEnabled())
	return c.AnimationEnabled()
}

func (a *App) activeView() vxfw.Widget {
	switch a.tabBar.Active() {
	case tabValues:
		return a.values
	default:
		return a.week
	}
}

// Draw renders the tab bar and active view.
func (a *App) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)

	// Tab bar (1 row)
	tabCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})
	tabSurf, err := a.tabBar.Draw(tabCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, tabSurf)

	if ctx.Max.Height < 2 {
		return s, nil
	}

	// Active view (remaining space)
	viewCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 1})
	viewSurf, err := a.activeView().Draw(viewCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, viewSurf)

	return s, nil
}

// CaptureEvent handles global keybindings before views process them.
func (a *App) CaptureEvent(ev vaxis.Event) (vxfw.Command, error) {
	switch ev := ev.(type) {
	case vaxis.Key:
		switch {
		case ev.Matches('q'):
			a.Close()
			return vxfw.QuitCmd{}, nil
		case ev.Matches('r'):
			if a.postEvent != nil {
				a.LoadAsync(context.Background())
			} else {
				_ = a.Load(context.Background())
			}
		case ev.Matches('a'):
			enabled := a.ToggleAnimation()
			logrus.WithField("enabled", enabled).Debug("animation toggled")
		case ev.Matches('1'):
			a.tabBar.SetActive(tabChart)
		case ev.Matches('2'):
			a.tabBar.SetActive(tabValues)
		case ev.Matches(vaxis.KeyTab):
			a.tabBar.Next()
		case ev.Matches(vaxis.KeyTab, vaxis.ModShift):
			a.tabBar.Prev()
		default:
			return nil, nil
		}
		return vxfw.ConsumeAndRedraw(), nil
	}
	return nil, nil
}

// HandleEvent starts loading on Init, applies background results, and
// delegates everything else to the active view.
func (a *App) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	switch ev := ev.(type) {
	case vxfw.Init:
		if a.postEvent == nil {
			_ = a.Load(context.Background())
			return vxfw.RedrawCmd{}, nil
		}
		a.LoadAsync(context.Background())
		a.StartRefresh(context.Background())
		return nil, nil
	case views.SamplesLoaded:
		_ = a.apply(ev.Samples, ev.Err)
		return vxfw.RedrawCmd{}, nil
	case views.RevealTicked:
		if a.week.ApplyTick(ev.Tick) {
			return vxfw.RedrawCmd{}, nil
		}
		logrus.WithFields(logrus.Fields{
			"seq":      ev.Tick.Seq,
			"progress": ev.Tick.Progress,
		}).Trace("stale reveal tick dropped")
		return nil, nil
	default:
		type handler interface {
			HandleEvent(vaxis.Event, vxfw.EventPhase) (vxfw.Command, error)
		}
		if h, ok := a.activeView().(handler); ok {
			return h.HandleEvent(ev, phase)
		}
	}
	return nil, nil
}
