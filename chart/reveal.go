package chart

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultRevealDuration is how long a reveal takes to sweep the viewport.
	DefaultRevealDuration = 3000 * time.Millisecond
	// DefaultRevealInterval is the cadence of reveal ticks, roughly one per
	// frame at 60Hz.
	DefaultRevealInterval = 16 * time.Millisecond
)

// Easing maps linear time t in [0,1] to animation progress in [0,1].
type Easing func(t float64) float64

// Decelerate starts fast and slows towards the end: 1-(1-t)^2.
func Decelerate(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// RevealTick is one step of a reveal sequence. Seq identifies the sequence so
// a host can drop ticks from a sequence that has been superseded.
type RevealTick struct {
	Seq      uint64
	Progress int // 0..100
	Done     bool
}

// RevealBoundary returns the not-yet-revealed part of a width x height
// viewport at the given progress. At 100 nothing is hidden and ok is false.
func RevealBoundary(progress, width, height int) (r Rect, ok bool) {
	if progress >= 100 {
		return Rect{}, false
	}
	progress = max(progress, 0)
	left := float64(int(float64(progress) / 100 * float64(width)))
	return Rect{Left: left, Top: 0, Right: float64(width), Bottom: float64(height)}, true
}

// Animator produces reveal sequences. The zero value uses the defaults.
type Animator struct {
	Duration time.Duration
	Interval time.Duration
	Easing   Easing
	Now      func() time.Time
}

func (a Animator) duration() time.Duration {
	if a.Duration == 0 {
		return DefaultRevealDuration
	}
	return a.Duration
}

func (a Animator) interval() time.Duration {
	if a.Interval <= 0 {
		return DefaultRevealInterval
	}
	return a.Interval
}

func (a Animator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Progress returns the eased progress after elapsed time, 0..100. It is
// exactly 100 once the duration has passed.
func (a Animator) Progress(elapsed time.Duration) int {
	d := a.duration()
	if d <= 0 || elapsed >= d {
		return 100
	}
	if elapsed <= 0 {
		return 0
	}
	ease := a.Easing
	if ease == nil {
		ease = Decelerate
	}
	p := int(ease(float64(elapsed)/float64(d)) * 100)
	return min(max(p, 0), 100)
}

// Reveal is a handle on a running reveal sequence.
type Reveal struct {
	Seq    uint64
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Cancel stops the sequence. A tick already handed to emit may still reach
// the host afterwards; hosts drop it by Seq. Safe to call more than once.
func (r *Reveal) Cancel() {
	r.once.Do(r.cancel)
}

// Done is closed when the sequence has finished or was cancelled.
func (r *Reveal) Done() <-chan struct{} {
	return r.done
}

// Start runs a reveal sequence in its own goroutine, calling emit for every
// tick. Progress never decreases and the last tick has Progress 100 and Done
// set. emit is called from the animator goroutine; hosts forward the tick to
// their draw thread.
func (a Animator) Start(ctx context.Context, seq uint64, emit func(RevealTick)) *Reveal {
	ctx, cancel := context.WithCancel(ctx)
	r := &Reveal{Seq: seq, cancel: cancel, done: make(chan struct{})}
	go a.run(ctx, r, emit)
	return r
}

func (a Animator) run(ctx context.Context, r *Reveal, emit func(RevealTick)) {
	defer close(r.done)
	defer r.Cancel()

	start := a.now()
	ticker := time.NewTicker(a.interval())
	defer ticker.Stop()

	last := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		p := max(a.Progress(a.now().Sub(start)), last)
		last = p
		if ctx.Err() != nil {
			return
		}
		tick := RevealTick{Seq: r.Seq, Progress: p, Done: p >= 100}
		emit(tick)
		if tick.Done {
			return
		}
	}
}
