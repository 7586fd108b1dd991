package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/export"
	"github.com/san-kum/attractor/internal/metrics"
	"github.com/san-kum/attractor/internal/render"
	"github.com/san-kum/attractor/internal/sim"
	"github.com/san-kum/attractor/internal/viz"
)

var ErrUnsupportedOutput = errors.New("experiment: unsupported output format")

// Output is a surface that can be written to a file.
type Output interface {
	viz.Surface
	viz.Saver
}

// Experiment is one configured trace: a model, its stepper and the run
// settings derived from a config.Config.
type Experiment struct {
	cfg      *config.Config
	sys      dynamo.System
	tracer   *sim.Tracer
	simCfg   sim.Config
	recorder *sim.Recorder
	metrics  []metrics.Metric
	thumb    int
}

func New(reg *Registry, cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sys, err := reg.GetModel(cfg.Attractor, cfg.Params)
	if err != nil {
		return nil, err
	}

	var stepper dynamo.Stepper
	if sys.Mode() == dynamo.Integrate {
		stepper, err = reg.GetIntegrator(cfg.Integrator, sys.Dim())
		if err != nil {
			return nil, err
		}
	}

	simCfg, err := buildSimConfig(sys, cfg)
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:     cfg,
		sys:     sys,
		tracer:  sim.New(sys, stepper),
		simCfg:  simCfg,
		metrics: metrics.Defaults(simCfg.Axes, simCfg.Viewport),
	}
	for _, m := range e.metrics {
		e.tracer.AddObserver(m)
	}
	if cfg.RecordEvery > 0 {
		e.recorder = sim.NewRecorder(cfg.RecordEvery)
		e.tracer.AddObserver(e.recorder)
	}
	return e, nil
}

func buildSimConfig(sys dynamo.System, cfg *config.Config) (sim.Config, error) {
	sc := sim.DefaultConfig()
	sc.Iterations = cfg.Iterations
	sc.StepSize = cfg.StepSize
	sc.Viewport = cfg.Viewport
	sc.Width, sc.Height = cfg.Canvas.Width, cfg.Canvas.Height
	sc.LineWidth = cfg.LineWidth
	sc.ValidateState = cfg.ValidateState

	sc.Initial = dynamo.State(cfg.InitialState).Clone()
	if len(sc.Initial) == 0 {
		if in, ok := sys.(dynamo.Initializer); ok {
			sc.Initial = in.DefaultState()
		}
	}
	if len(sc.Initial) != sys.Dim() {
		return sc, fmt.Errorf("%w: initial_state has %d components, %s needs %d",
			dynamo.ErrDimensionMismatch, len(sc.Initial), sys.Name(), sys.Dim())
	}
	if sys.Mode() == dynamo.Integrate && sc.StepSize <= 0 {
		return sc, fmt.Errorf("%w: %s is a flow and needs step_size > 0, got %g",
			config.ErrInvalid, sys.Name(), sc.StepSize)
	}
	if len(cfg.Axes) == 2 {
		sc.Axes = [2]int{cfg.Axes[0], cfg.Axes[1]}
	}
	for _, a := range sc.Axes {
		if a < 0 || a >= sys.Dim() {
			return sc, fmt.Errorf("%w: axis %d out of range for %s (dim %d)",
				dynamo.ErrDimensionMismatch, a, sys.Name(), sys.Dim())
		}
	}

	switch cfg.Emission {
	case "stamps":
		sc.Emission = sim.Stamps
	case "segments":
		sc.Emission = sim.Segments
	default:
		if sys.Mode() == dynamo.Iterate {
			sc.Emission = sim.Stamps
		}
	}

	ink, err := cfg.Ink()
	if err != nil {
		return sc, err
	}
	if cfg.Color.Policy == "pulse" {
		sc.Color = sim.SinePulse(ink.A)
	} else {
		sc.Color = sim.Constant(ink)
	}
	if sc.Background, err = cfg.BackgroundColor(); err != nil {
		return sc, err
	}
	return sc, nil
}

func (e *Experiment) Config() *config.Config  { return e.cfg }
func (e *Experiment) System() dynamo.System   { return e.sys }
func (e *Experiment) Tracer() *sim.Tracer     { return e.tracer }
func (e *Experiment) SimConfig() sim.Config   { return e.simCfg }
func (e *Experiment) Recorder() *sim.Recorder { return e.recorder }

// Metrics reads the run metrics gathered so far.
func (e *Experiment) Metrics() map[string]float64 { return metrics.Collect(e.metrics) }

func (e *Experiment) AddObserver(o sim.Observer) { e.tracer.AddObserver(o) }

// SetThumbnail makes Run also write a preview, scaled so its longer side
// is maxSide, next to raster outputs. 0 disables it.
func (e *Experiment) SetThumbnail(maxSide int) { e.thumb = maxSide }

// ThumbnailPath is where Run writes the preview for output path p.
func ThumbnailPath(p string) string {
	ext := filepath.Ext(p)
	return strings.TrimSuffix(p, ext) + ".thumb" + ext
}

// NewOutput picks the surface from the path's extension: .png rasterizes,
// .svg writes vector paths.
func NewOutput(path string, width, height int) (Output, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		r, err := render.NewRaster(width, height)
		if err != nil {
			return nil, err
		}
		return r, nil
	case ".svg":
		return export.NewSVG(width, height), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedOutput, path)
}

// Run traces onto a fresh output surface and writes it to the configured
// path. The surface is released on every path out.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	out, err := NewOutput(e.cfg.OutputPath, e.simCfg.Width, e.simCfg.Height)
	if err != nil {
		return nil, err
	}
	defer release(out)

	res, err := e.tracer.Run(ctx, out, e.simCfg)
	if err != nil {
		return res, err
	}
	if err := out.Save(e.cfg.OutputPath); err != nil {
		return res, err
	}
	if r, ok := out.(*render.Raster); ok && e.thumb > 0 {
		if err := r.SaveThumbnail(ThumbnailPath(e.cfg.OutputPath), e.thumb); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Trace runs without drawing, for bounds and analysis.
func (e *Experiment) Trace(ctx context.Context) (*sim.Result, error) {
	return e.tracer.Run(ctx, nil, e.simCfg)
}

// Job packages the experiment for an Ensemble. The output is created
// up front and saved when the trace finishes.
func (e *Experiment) Job(name string) (sim.Job, func(), error) {
	out, err := NewOutput(e.cfg.OutputPath, e.simCfg.Width, e.simCfg.Height)
	if err != nil {
		return sim.Job{}, nil, err
	}
	job := sim.Job{
		Name:    name,
		Tracer:  e.tracer,
		Surface: out,
		Config:  e.simCfg,
		Finish: func(*sim.Result) error {
			return out.Save(e.cfg.OutputPath)
		},
	}
	return job, func() { release(out) }, nil
}

func release(out Output) {
	if c, ok := out.(io.Closer); ok {
		c.Close()
	}
}
