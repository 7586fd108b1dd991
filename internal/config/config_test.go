package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/attractor/internal/viz"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Attractor != "lorenz" {
		t.Errorf("expected attractor lorenz, got %s", cfg.Attractor)
	}
	if cfg.StepSize <= 0 {
		t.Error("step size should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("rossler", DefaultPreset)
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.StepSize != 0.01 || cfg.Iterations != 1000000 {
		t.Errorf("unexpected rossler run: h=%g n=%d", cfg.StepSize, cfg.Iterations)
	}
	if cfg.Viewport.Translate == nil || *cfg.Viewport.Translate != (viz.Point{X: 10, Y: -10}) {
		t.Errorf("expected translate (10,-10), got %v", cfg.Viewport.Translate)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("lorenz", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", DefaultPreset); cfg != nil {
		t.Error("expected nil for nonexistent attractor")
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("dejong", "alt1")
	a.InitialState[0] = 99
	a.Params["a"] = 99
	a.Viewport.XLeft = 99

	b := GetPreset("dejong", "alt1")
	if b.InitialState[0] != 0.5 || b.Params["a"] != 1.4 || b.Viewport.XLeft != -2.1 {
		t.Errorf("preset was mutated through a copy: %+v", b)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range Attractors() {
		for _, p := range ListPresets(name) {
			cfg := GetPreset(name, p)
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", name, p, err)
			}
			if cfg.Attractor != name {
				t.Errorf("%s/%s: attractor is %q", name, p, cfg.Attractor)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets("dejong")
	want := []string{"alt1", "alt2", "alt3", "alt4", "classic"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent attractor")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"no attractor", func(c *Config) { c.Attractor = "" }},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"negative step", func(c *Config) { c.StepSize = -1 }},
		{"empty canvas", func(c *Config) { c.Canvas.Height = 0 }},
		{"degenerate viewport", func(c *Config) { c.Viewport.YTop = c.Viewport.YBottom }},
		{"zero line width", func(c *Config) { c.LineWidth = 0 }},
		{"unknown policy", func(c *Config) { c.Color.Policy = "rainbow" }},
		{"unknown emission", func(c *Config) { c.Emission = "dots" }},
		{"one axis", func(c *Config) { c.Axes = []int{0} }},
		{"short color", func(c *Config) { c.Color.RGBA = []float64{1, 0} }},
		{"long background", func(c *Config) { c.Background = []float64{1, 1, 1, 1, 1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte(`attractor: rossler
iterations: 5000
viewport: {x_left: -10, x_right: 12, y_bottom: -12, y_top: 10, translate: {x: 10, y: -10}}
initial_state: [1, 2, 3]
params: {c: 9}
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Attractor != "rossler" || cfg.Iterations != 5000 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Integrator != DefaultIntegrator || cfg.LineWidth != DefaultLineWidth {
		t.Errorf("defaults not kept: integrator=%s width=%g", cfg.Integrator, cfg.LineWidth)
	}
	if cfg.Viewport.Translate == nil || cfg.Viewport.Translate.X != 10 {
		t.Errorf("translate not loaded: %v", cfg.Viewport.Translate)
	}
	if cfg.Params["c"] != 9 || len(cfg.InitialState) != 3 {
		t.Errorf("params or state not loaded: %v %v", cfg.Params, cfg.InitialState)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cfg.yaml")
	want := GetPreset("duffing", DefaultPreset)
	if err := Save(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Color.Policy != "pulse" || got.Color.RGBA[3] != 0.4 {
		t.Errorf("color lost: %+v", got.Color)
	}
	if got.Canvas != want.Canvas || got.Viewport.XRight != 1.5 {
		t.Errorf("geometry lost: %+v %+v", got.Canvas, got.Viewport)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("iterations: [oops"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
