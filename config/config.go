package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/deevus/weekchart/chart"
	"github.com/sirupsen/logrus"
)

// Config is the top-level configuration.
type Config struct {
	Labels    []string        `toml:"labels"`
	Density   float64         `toml:"density"`
	Style     StyleConfig     `toml:"style"`
	Padding   PaddingConfig   `toml:"padding"`
	Animation AnimationConfig `toml:"animation"`
	Source    SourceConfig    `toml:"source"`
	Terminal  TerminalConfig  `toml:"terminal"`
	Log       LogConfig       `toml:"log"`
}

// StyleConfig holds the palette as hex strings and sizes in dp.
type StyleConfig struct {
	Background    string  `toml:"background"`
	Text          string  `toml:"text"`
	Line          string  `toml:"line"`
	GradientStart string  `toml:"gradient_start"`
	GradientEnd   string  `toml:"gradient_end"`
	TextSize      float64 `toml:"text_size"`
	LineWidth     float64 `toml:"line_width"`
}

// PaddingConfig is the chart padding in pixels.
type PaddingConfig struct {
	Left   int `toml:"left"`
	Top    int `toml:"top"`
	Right  int `toml:"right"`
	Bottom int `toml:"bottom"`
}

// AnimationConfig controls the reveal and curve shape.
type AnimationConfig struct {
	Enabled    bool    `toml:"enabled"`
	DurationMS int     `toml:"duration_ms"`
	IntervalMS int     `toml:"interval_ms"`
	Smoothness float64 `toml:"smoothness"`
}

// SourceConfig selects where samples come from.
type SourceConfig struct {
	Kind            string `toml:"kind"` // "random" or "file"
	Path            string `toml:"path"`
	Max             int    `toml:"max"`
	RefreshInterval string `toml:"refresh_interval"`
}

// TerminalConfig tunes the terminal front end. Density scales the dp
// metrics down to one pixel per column.
type TerminalConfig struct {
	Density float64 `toml:"density"`
}

// LogConfig sets where logs go. An empty File means DefaultLogPath.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// DefaultLabels are the English short weekday names.
var DefaultLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

const (
	SourceRandom = "random"
	SourceFile   = "file"
)

// Default returns the configuration used when no file exists. Loaded files
// are decoded on top of it, so absent keys keep these values.
func Default() *Config {
	return &Config{
		Labels:  append([]string(nil), DefaultLabels...),
		Density: 1,
		Style: StyleConfig{
			Background:    "#000000",
			Text:          "#FFFFFF",
			Line:          "#8AC53F",
			GradientStart: "#000000",
			GradientEnd:   "#8AC53F",
			TextSize:      18,
			LineWidth:     4,
		},
		Animation: AnimationConfig{
			Enabled:    true,
			DurationMS: int(chart.DefaultRevealDuration / time.Millisecond),
			IntervalMS: int(chart.DefaultRevealInterval / time.Millisecond),
			Smoothness: chart.DefaultSmoothness,
		},
		Source: SourceConfig{
			Kind:            SourceRandom,
			Max:             10,
			RefreshInterval: "4s",
		},
		Terminal: TerminalConfig{Density: 0.25},
		Log:      LogConfig{Level: "info"},
	}
}

// DefaultPath returns the default config file path using XDG conventions.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "weekchart", "config.toml")
}

// DefaultLogPath returns the log file path under XDG_STATE_HOME.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(dir, "weekchart", "weekchart.log")
}

// Load reads the config at path. A missing file at the default path is not
// an error and yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg, err := LoadFrom(path)
	if err != nil && path == DefaultPath() && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFrom reads and parses the config file at the given path on top of
// the defaults, then validates it.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("loading config from %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.Source.Path = expandPath(cfg.Source.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// expandPath expands ~ to $HOME and then expands all environment variables.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	return os.ExpandEnv(path)
}

// Validate checks every value that has a constrained range.
func (c *Config) Validate() error {
	if len(c.Labels) < 2 {
		return fmt.Errorf("labels: %w", chart.ErrTooFewLabels)
	}
	if c.Density <= 0 {
		return fmt.Errorf("density must be positive, got %v", c.Density)
	}
	if c.Terminal.Density <= 0 {
		return fmt.Errorf("terminal.density must be positive, got %v", c.Terminal.Density)
	}
	if _, err := c.ChartStyle(c.Density); err != nil {
		return err
	}
	if c.Animation.DurationMS <= 0 {
		return fmt.Errorf("animation.duration_ms must be positive, got %d (set enabled = false to skip the reveal)", c.Animation.DurationMS)
	}
	if c.Animation.IntervalMS <= 0 {
		return fmt.Errorf("animation.interval_ms must be positive, got %d", c.Animation.IntervalMS)
	}
	if c.Animation.Smoothness < 0 {
		return fmt.Errorf("animation.smoothness must not be negative, got %v", c.Animation.Smoothness)
	}
	switch c.Source.Kind {
	case SourceRandom:
		if c.Source.Max < 2 {
			return fmt.Errorf("source.max must be at least 2, got %d", c.Source.Max)
		}
	case SourceFile:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for kind %q", SourceFile)
		}
	default:
		return fmt.Errorf("source.kind must be %q or %q, got %q", SourceRandom, SourceFile, c.Source.Kind)
	}
	if _, err := c.RefreshInterval(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ParseColor parses "#RRGGBB" or "#AARRGGBB".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if hex == s || (len(hex) != 6 && len(hex) != 8) {
		return color.RGBA{}, fmt.Errorf("colour %q: want #RRGGBB or #AARRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	a := uint8(0xff)
	if len(hex) == 8 {
		a = uint8(v >> 24)
	}
	n := color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: a}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}

// ChartStyle builds the chart palette and typography for the given pixel
// density.
func (c *Config) ChartStyle(density float64) (chart.Style, error) {
	st := chart.DefaultStyle(density)
	for _, f := range []struct {
		key string
		val string
		dst *color.RGBA
	}{
		{"style.background", c.Style.Background, &st.Background},
		{"style.text", c.Style.Text, &st.Text},
		{"style.line", c.Style.Line, &st.Line},
		{"style.gradient_start", c.Style.GradientStart, &st.GradientStart},
		{"style.gradient_end", c.Style.GradientEnd, &st.GradientEnd},
	} {
		if f.val == "" {
			continue
		}
		col, err := ParseColor(f.val)
		if err != nil {
			return chart.Style{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = col
	}
	if c.Style.TextSize > 0 {
		st.TextSize = c.Style.TextSize * density
	}
	if c.Style.LineWidth > 0 {
		st.LineWidth = max(c.Style.LineWidth*density, 1)
	}
	return st, nil
}

// ChartParams returns the chart parameters for the given pixel density.
// Host callbacks are left for the caller to set. A smoothness of zero is
// passed through and draws straight segments.
func (c *Config) ChartParams(density float64) (chart.Params, error) {
	st, err := c.ChartStyle(density)
	if err != nil {
		return chart.Params{}, err
	}
	smoothness := c.Animation.Smoothness
	return chart.Params{
		Labels:  append([]string(nil), c.Labels...),
		Metrics: chart.DefaultMetrics(density),
		Padding: chart.Padding{
			Left:   c.Padding.Left,
			Top:    c.Padding.Top,
			Right:  c.Padding.Right,
			Bottom: c.Padding.Bottom,
		},
		Style: st,
		Animation: chart.AnimationParams{
			Enabled:  c.Animation.Enabled,
			Duration: time.Duration(c.Animation.DurationMS) * time.Millisecond,
			Interval: time.Duration(c.Animation.IntervalMS) * time.Millisecond,
		},
		Smoothness: &smoothness,
	}, nil
}

// RefreshInterval parses source.refresh_interval. Zero disables refresh.
func (c *Config) RefreshInterval() (time.Duration, error) {
	if c.Source.RefreshInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Source.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("source.refresh_interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("source.refresh_interval must not be negative, got %s", d)
	}
	return d, nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// LogPath returns the configured log file or the default one.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return DefaultLogPath()
}
