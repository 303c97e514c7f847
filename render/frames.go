package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/deevus/weekchart/chart"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Scene is everything needed to draw one chart off-screen. A zero Width or
// Height lets the chart take its desired size on that axis.
type Scene struct {
	Params  chart.Params
	Samples []float64
	Width   int
	Height  int
}

func constraint(n int) chart.Constraint {
	if n > 0 {
		return chart.Exact(n)
	}
	return chart.Free()
}

// Build creates a laid-out chart for the scene, frozen at the given reveal
// progress. The returned chart never starts an animator.
func (s Scene) Build(progress int) (*chart.Chart, chart.Size, error) {
	p := s.Params
	p.Animation.Enabled = true
	p.Emit = nil
	p.Invalidate = nil

	c, err := chart.New(p)
	if err != nil {
		return nil, chart.Size{}, err
	}
	size := c.Measure(constraint(s.Width), constraint(s.Height))
	if err := c.Resize(size.Width, size.Height); err != nil {
		return nil, chart.Size{}, err
	}
	if err := c.SetSamples(s.Samples); err != nil {
		return nil, chart.Size{}, err
	}
	c.SetRevealProgress(progress)
	return c, size, nil
}

// RasterFrame renders the scene at the given reveal progress.
func RasterFrame(s Scene, progress int) (*Raster, error) {
	c, size, err := s.Build(progress)
	if err != nil {
		return nil, err
	}
	r := NewRaster(size.Width, size.Height)
	if err := c.Render(r); err != nil {
		return nil, err
	}
	return r, nil
}

// SVGFrame renders the scene at the given reveal progress as SVG.
func SVGFrame(s Scene, progress int) (*SVG, error) {
	c, size, err := s.Build(progress)
	if err != nil {
		return nil, err
	}
	doc := NewSVG(size.Width, size.Height)
	if err := c.Render(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FrameProgress returns the reveal progress of frame i out of count evenly
// timed frames over duration.
func FrameProgress(i, count int, duration time.Duration) int {
	if count <= 1 {
		return 100
	}
	a := chart.Animator{Duration: duration}
	elapsed := time.Duration(int64(duration) * int64(i) / int64(count-1))
	return a.Progress(elapsed)
}

// ExportOptions configures ExportFrames.
type ExportOptions struct {
	Dir      string
	Count    int
	Duration time.Duration // zero means chart.DefaultRevealDuration
	Workers  int           // zero means GOMAXPROCS
}

// ExportFrames writes count PNG frames of the reveal animation into
// opts.Dir, rendering them in parallel. It returns the frame paths in order.
func ExportFrames(ctx context.Context, s Scene, opts ExportOptions) ([]string, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", opts.Count)
	}
	if opts.Duration == 0 {
		opts.Duration = chart.DefaultRevealDuration
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", opts.Dir, err)
	}

	paths := make([]string, opts.Count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < opts.Count; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			progress := FrameProgress(i, opts.Count, opts.Duration)
			r, err := RasterFrame(s, progress)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			path := filepath.Join(opts.Dir, fmt.Sprintf("frame-%03d.png", i))
			if err := r.SavePNG(path); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			logrus.WithFields(logrus.Fields{
				"frame":    i,
				"progress": progress,
				"path":     path,
			}).Debug("wrote frame")
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
