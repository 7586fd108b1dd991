package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/attractor/internal/viz"
)

const (
	DefaultAttractor  = "lorenz"
	DefaultIntegrator = "rk4"
	DefaultIterations = 100000
	DefaultStepSize   = 0.01
	DefaultLineWidth  = 0.002
	DefaultCanvas     = 1200
)

var ErrInvalid = errors.New("config: invalid")

type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ColorConfig selects the ink. Policy is "constant" (RGBA used as-is) or
// "pulse" (red to blue by |sin(2πt)|, with the alpha of RGBA).
type ColorConfig struct {
	Policy string    `yaml:"policy"`
	RGBA   []float64 `yaml:"rgba,flow"`
}

type Config struct {
	Attractor    string             `yaml:"attractor"`
	Integrator   string             `yaml:"integrator"`
	Iterations   int                `yaml:"iterations"`
	StepSize     float64            `yaml:"step_size"`
	Viewport     viz.Viewport       `yaml:"viewport"`
	Canvas       CanvasConfig       `yaml:"canvas"`
	InitialState []float64          `yaml:"initial_state,flow"`
	OutputPath   string             `yaml:"output_path"`
	Params       map[string]float64 `yaml:"params,omitempty"`
	Color        ColorConfig        `yaml:"color"`
	Background   []float64          `yaml:"background,flow"`
	LineWidth    float64            `yaml:"line_width"`
	// Emission is "segments" or "stamps"; empty picks by system mode.
	Emission      string `yaml:"emission,omitempty"`
	Axes          []int  `yaml:"axes,flow,omitempty"`
	ValidateState bool   `yaml:"validate_state"`
	// RecordEvery keeps every n-th state for storage; 0 records nothing.
	RecordEvery int `yaml:"record_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Attractor:     DefaultAttractor,
		Integrator:    DefaultIntegrator,
		Iterations:    DefaultIterations,
		StepSize:      DefaultStepSize,
		Viewport:      viz.Viewport{XLeft: -20, XRight: 20, YBottom: -30, YTop: 30},
		Canvas:        CanvasConfig{Width: DefaultCanvas, Height: DefaultCanvas},
		OutputPath:    "attractor.png",
		Color:         ColorConfig{Policy: "constant", RGBA: []float64{0, 0, 0, 1}},
		Background:    []float64{1, 1, 1, 1},
		LineWidth:     DefaultLineWidth,
		ValidateState: true,
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that does not depend on the chosen model.
// The initial state's length is checked against the model when the
// tracer is built.
func (c *Config) Validate() error {
	if c.Attractor == "" {
		return fmt.Errorf("%w: attractor is empty", ErrInvalid)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalid, c.Iterations)
	}
	if c.StepSize < 0 {
		return fmt.Errorf("%w: step_size must not be negative, got %g", ErrInvalid, c.StepSize)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if err := c.Viewport.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.LineWidth <= 0 {
		return fmt.Errorf("%w: line_width must be positive, got %g", ErrInvalid, c.LineWidth)
	}
	switch c.Color.Policy {
	case "", "constant", "pulse":
	default:
		return fmt.Errorf("%w: unknown color policy %q", ErrInvalid, c.Color.Policy)
	}
	switch c.Emission {
	case "", "segments", "stamps":
	default:
		return fmt.Errorf("%w: unknown emission %q", ErrInvalid, c.Emission)
	}
	if len(c.Axes) != 0 && len(c.Axes) != 2 {
		return fmt.Errorf("%w: axes needs two entries, got %d", ErrInvalid, len(c.Axes))
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("%w: record_every must not be negative", ErrInvalid)
	}
	if _, err := c.Ink(); err != nil {
		return fmt.Errorf("%w: color: %w", ErrInvalid, err)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return fmt.Errorf("%w: background: %w", ErrInvalid, err)
	}
	return nil
}

// Ink is the configured RGBA, black if unset.
func (c *Config) Ink() (viz.Color, error) {
	if len(c.Color.RGBA) == 0 {
		return viz.Black, nil
	}
	return viz.ColorFromSlice(c.Color.RGBA)
}

func (c *Config) BackgroundColor() (viz.Color, error) {
	if len(c.Background) == 0 {
		return viz.White, nil
	}
	return viz.ColorFromSlice(c.Background)
}

// Clone returns a deep copy, so presets can be overridden safely.
func (c *Config) Clone() *Config {
	out := *c
	out.InitialState = append([]float64(nil), c.InitialState...)
	out.Background = append([]float64(nil), c.Background...)
	out.Color.RGBA = append([]float64(nil), c.Color.RGBA...)
	out.Axes = append([]int(nil), c.Axes...)
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	if c.Viewport.Translate != nil {
		t := *c.Viewport.Translate
		out.Viewport.Translate = &t
	}
	return &out
}
