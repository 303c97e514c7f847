package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/weekchart/app"
	"github.com/deevus/weekchart/config"
	"github.com/deevus/weekchart/internal"
	"github.com/deevus/weekchart/render"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries the loaded config between the root command and subcommands.
type cli struct {
	configPath string
	cfg        *config.Config
	logFile    io.Closer
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "weekchart",
		Short: "Weekly line chart in the terminal, as PNG or as SVG",
		Long: `weekchart draws seven daily values as a smoothed line over a gradient,
revealing it left to right whenever new values arrive.

Without a subcommand it opens the terminal view.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logFile != nil {
				c.logFile.Close()
			}
		},
		RunE: c.runTUI,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath(), "path to config file")

	root.AddCommand(c.newRenderCmd(), c.newFramesCmd())
	return root
}

// setupLogging points logrus at the log file while the terminal is owned by
// the UI, and at stderr otherwise. A log file that cannot be opened
// silences logging rather than failing.
func (c *cli) setupLogging(toFile bool) {
	logrus.SetLevel(c.cfg.LogLevel())
	if !toFile {
		logrus.SetOutput(os.Stderr)
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	path := c.cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logrus.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logrus.SetOutput(io.Discard)
		return
	}
	logrus.SetOutput(f)
	c.logFile = f
}

func newSampleSource(cfg *config.Config) (internal.SampleSource, error) {
	switch cfg.Source.Kind {
	case config.SourceFile:
		return internal.FileSource{Path: cfg.Source.Path}, nil
	default:
		src, err := internal.NewRandomSource(len(cfg.Labels), cfg.Source.Max, nil)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	c.setupLogging(true)

	src, err := newSampleSource(c.cfg)
	if err != nil {
		return err
	}
	params, err := c.cfg.ChartParams(c.cfg.Terminal.Density)
	if err != nil {
		return err
	}
	refresh, err := c.cfg.RefreshInterval()
	if err != nil {
		return err
	}

	root, err := app.New(app.Params{
		Services: internal.NewServices(src),
		Chart:    params,
		Refresh:  refresh,
	})
	if err != nil {
		return err
	}
	defer root.Close()

	vxApp, err := vxfw.NewApp(vaxis.Options{})
	if err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}
	root.SetPostEvent(vxApp.PostEvent)

	logrus.WithFields(logrus.Fields{
		"source":  c.cfg.Source.Kind,
		"refresh": refresh,
	}).Info("starting weekchart")
	return vxApp.Run(root)
}

// parseSamples parses a comma-separated list of numbers.
func parseSamples(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("sample %d %q: %w", i, f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// sceneFlags are shared by render and frames.
type sceneFlags struct {
	width   int
	height  int
	density float64
	samples string
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "image width in pixels (default: the chart's desired width)")
	cmd.Flags().IntVar(&f.height, "height", 0, "image height in pixels (default: the chart's desired height)")
	cmd.Flags().Float64Var(&f.density, "density", 0, "pixel density for dp metrics (default: config density)")
	cmd.Flags().StringVar(&f.samples, "samples", "", `comma-separated values, e.g. "2,5,3,8,1,6,4" (default: read from the configured source)`)
}

func (c *cli) scene(ctx context.Context, f *sceneFlags) (render.Scene, error) {
	density := f.density
	if density == 0 {
		density = c.cfg.Density
	}
	params, err := c.cfg.ChartParams(density)
	if err != nil {
		return render.Scene{}, err
	}

	var samples []float64
	if f.samples != "" {
		samples, err = parseSamples(f.samples)
	} else {
		var src internal.SampleSource
		src, err = newSampleSource(c.cfg)
		if err == nil {
			samples, err = src.Samples(ctx)
		}
	}
	if err != nil {
		return render.Scene{}, err
	}
	return render.Scene{Params: params, Samples: samples, Width: f.width, Height: f.height}, nil
}

func (c *cli) newRenderCmd() *cobra.Command {
	var (
		sf       sceneFlags
		out      string
		progress int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame of the chart to PNG or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.setupLogging(false)
			scene, err := c.scene(cmd.Context(), &sf)
			if err != nil {
				return err
			}
			if err := writeFrame(scene, progress, out); err != nil {
				return err
			}
			info, err := os.Stat(out)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"path":     out,
				"size":     humanize.Bytes(uint64(info.Size())),
				"progress": progress,
			}).Info("chart written")
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, .png or .svg")
	cmd.Flags().IntVar(&progress, "progress", 100, "reveal progress to freeze at, 0-100")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// writeFrame picks the canvas from the output extension.
func writeFrame(scene render.Scene, progress int, out string) error {
	switch strings.ToLower(filepath.Ext(out)) {
	case ".png":
		r, err := render.RasterFrame(scene, progress)
		if err != nil {
			return err
		}
		return r.SavePNG(out)
	case ".svg":
		doc, err := render.SVGFrame(scene, progress)
		if err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		if _, err := doc.WriteTo(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported output %q: want .png or .svg", out)
	}
}

func (c *cli) newFramesCmd() *cobra.Command {
	var (
		sf      sceneFlags
		dir     string
		count   int
		workers int
	)
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Write the reveal animation as numbered PNG frames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.setupLogging(false)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			scene, err := c.scene(ctx, &sf)
			if err != nil {
				return err
			}
			paths, err := render.ExportFrames(ctx, scene, render.ExportOptions{
				Dir:      dir,
				Count:    count,
				Duration: scene.Params.Animation.Duration,
				Workers:  workers,
			})
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"dir":    dir,
				"frames": humanize.Comma(int64(len(paths))),
			}).Info("frames written")
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&dir, "dir", "", "output directory")
	cmd.Flags().IntVar(&count, "count", 30, "number of frames")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel renderers (default: GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
