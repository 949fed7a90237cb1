package loom

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration, loaded from loom.toml.
// Zero-valued tuning fields fall back to built-in defaults at the point
// of use, so a partial file only overrides what it names.
type Config struct {
	Window WindowConfig `toml:"window"`
	Grid   GridConfig   `toml:"grid"`
	Scroll ScrollConfig `toml:"scroll"`
	Input  InputConfig  `toml:"input"`
	Text   TextConfig   `toml:"text"`
}

// WindowConfig controls the logical window.
type WindowConfig struct {
	Title  string  `toml:"title"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// GridConfig defines the application tile grid that app-relative hints
// ("2aw", "3ah") multiply against.
type GridConfig struct {
	Cols int `toml:"cols"`
	Rows int `toml:"rows"`
}

// ScrollConfig tunes the scroll controller.
type ScrollConfig struct {
	// Decay is the velocity fraction surviving one reference interval of
	// coasting; DecayRefMs is that interval.
	Decay      float64 `toml:"decay"`
	DecayRefMs float64 `toml:"decay_ref_ms"`

	// MinVelocity is the coasting cutoff in content units per millisecond.
	MinVelocity float64 `toml:"min_velocity"`

	// MaxZoom caps pinch zoom; 0 = uncapped.
	MaxZoom float64 `toml:"max_zoom"`
}

// InputConfig tunes gesture recognition.
type InputConfig struct {
	DoubleTapMs   float64 `toml:"double_tap_ms"`
	DoubleTapSlop float64 `toml:"double_tap_slop"`

	// HitSlop is the half-extent of the rectangle hit-tested around each
	// pointer position; 0 hit-tests the bare point.
	HitSlop float64 `toml:"hit_slop"`
}

// TextConfig tunes the auto-fit sizer.
type TextConfig struct {
	FitIterations int     `toml:"fit_iterations"`
	FitTolerance  float64 `toml:"fit_tolerance"`
	MinFontSize   float64 `toml:"min_font_size"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Title: "loom", Width: 800, Height: 600},
		Grid:   GridConfig{Cols: 16, Rows: 12},
		Scroll: ScrollConfig{
			Decay:       0.95,
			DecayRefMs:  defaultDecayRefMs,
			MinVelocity: defaultMinVelocity,
			MaxZoom:     0,
		},
		Input: InputConfig{DoubleTapMs: 300, DoubleTapSlop: 20},
		Text: TextConfig{
			FitIterations: defaultFitIterations,
			FitTolerance:  defaultFitTolerance,
			MinFontSize:   defaultMinFontSize,
		},
	}
}

// LoadConfig reads a TOML file over the defaults. A missing file is not
// an error; a malformed one is reported immediately with its cause.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("loom: reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("loom: parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("loom: invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size must be non-negative, got %gx%g", c.Window.Width, c.Window.Height)
	}
	if c.Grid.Cols < 0 || c.Grid.Rows < 0 {
		return fmt.Errorf("grid divisions must be non-negative, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	}
	if c.Scroll.Decay < 0 || c.Scroll.Decay >= 1 {
		if c.Scroll.Decay != 0 {
			return fmt.Errorf("scroll decay must be in (0, 1), got %g", c.Scroll.Decay)
		}
	}
	if c.Input.HitSlop < 0 {
		return fmt.Errorf("input hit slop must be non-negative, got %g", c.Input.HitSlop)
	}
	if c.Text.MinFontSize < 0 {
		return fmt.Errorf("min font size must be non-negative, got %g", c.Text.MinFontSize)
	}
	return nil
}

// Save writes the configuration as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("loom: encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("loom: writing config %s: %w", path, err)
	}
	return nil
}
