package config

import (
	"sort"

	"github.com/san-kum/attractor/internal/viz"
)

// DefaultPreset is the reference rendering of each attractor.
const DefaultPreset = "classic"

var (
	white = []float64{1, 1, 1, 1}
	black = []float64{0, 0, 0, 1}
)

func dejong(out string, params map[string]float64) *Config {
	return &Config{
		Attractor: "dejong", Iterations: 10000000,
		Viewport:     viz.Viewport{XLeft: -2.1, XRight: 2.1, YBottom: -2.1, YTop: 2.1},
		Canvas:       CanvasConfig{Width: 900, Height: 900},
		InitialState: []float64{0.5, 0.5},
		OutputPath:   out,
		Params:       params,
		Color:        ColorConfig{Policy: "constant", RGBA: white},
		Background:   black,
		LineWidth:    0.002,
		Emission:     "stamps", ValidateState: true,
	}
}

func lorenz(out string, params map[string]float64) *Config {
	return &Config{
		Attractor: "lorenz", Integrator: "rk4", Iterations: 500000, StepSize: 0.02,
		Viewport:     viz.Viewport{XLeft: -20, XRight: 20, YBottom: -30, YTop: 30},
		Canvas:       CanvasConfig{Width: 1200, Height: 1200},
		InitialState: []float64{0.1, 0.1, 0.1},
		OutputPath:   out,
		Params:       params,
		Color:        ColorConfig{Policy: "constant", RGBA: black},
		Background:   white,
		LineWidth:    0.002,
		Emission:     "segments", ValidateState: true,
	}
}

var Presets = map[string]map[string]*Config{
	"duffing": {
		"classic": {
			Attractor: "duffing", Integrator: "rk4", Iterations: 200000, StepSize: 0.03,
			Viewport:     viz.Viewport{XLeft: -1.5, XRight: 1.5, YBottom: -1, YTop: 1},
			Canvas:       CanvasConfig{Width: 1350, Height: 900},
			InitialState: []float64{0.1, 0.1},
			OutputPath:   "duffing.png",
			Color:        ColorConfig{Policy: "pulse", RGBA: []float64{0, 0, 0, 0.4}},
			Background:   white,
			LineWidth:    0.002,
			Emission:     "segments", ValidateState: true,
		},
	},
	"lorenz": {
		"classic": lorenz("images/lorenz.png", nil),
		"alt":     lorenz("images/lorenz-alt.png", map[string]float64{"a": 28, "b": 46.92, "c": 4}),
	},
	"rossler": {
		"classic": {
			Attractor: "rossler", Integrator: "rk4", Iterations: 1000000, StepSize: 0.01,
			Viewport: viz.Viewport{
				XLeft: -10, XRight: 12, YBottom: -12, YTop: 10,
				Translate: &viz.Point{X: 10, Y: -10},
			},
			Canvas:       CanvasConfig{Width: 1200, Height: 1200},
			InitialState: []float64{0.1, 0.1, 0.1},
			OutputPath:   "rossler.png",
			Color:        ColorConfig{Policy: "constant", RGBA: white},
			Background:   black,
			LineWidth:    0.002,
			Emission:     "segments", ValidateState: true,
		},
	},
	"dejong": {
		"classic": dejong("images/peterdejong.png", nil),
		"alt1":    dejong("images/peterdejong-alt1.png", map[string]float64{"a": 1.4, "b": -2.3, "c": 2.4, "d": -2.1}),
		"alt2":    dejong("images/peterdejong-alt2.png", map[string]float64{"a": 2.01, "b": -2.53, "c": 1.61, "d": -0.33}),
		"alt3":    dejong("images/peterdejong-alt3.png", map[string]float64{"a": -2.7, "b": -0.09, "c": -0.86, "d": -2.2}),
		"alt4":    dejong("images/peterdejong-alt4.png", map[string]float64{"a": -2.24, "b": 0.43, "c": -0.65, "d": -2.43}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(attractor, preset string) *Config {
	presets, ok := Presets[attractor]
	if !ok {
		return nil
	}
	cfg, ok := presets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(attractor string) []string {
	presets, ok := Presets[attractor]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Attractors() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
