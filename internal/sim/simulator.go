package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/viz"
)

// Tracer drives a system for a fixed number of iterations, tracking the
// bounding box and drawing each step on a surface.
type Tracer struct {
	sys       dynamo.System
	stepper   dynamo.Stepper
	observers []Observer
}

// New builds a tracer. stepper may be nil for maps.
func New(sys dynamo.System, stepper dynamo.Stepper) *Tracer {
	return &Tracer{
		sys:       sys,
		stepper:   stepper,
		observers: make([]Observer, 0),
	}
}

func (tr *Tracer) System() dynamo.System  { return tr.sys }
func (tr *Tracer) AddObserver(o Observer) { tr.observers = append(tr.observers, o) }

// Observers returns the attached observers in registration order.
func (tr *Tracer) Observers() []Observer { return tr.observers }

// Run traces cfg.Iterations steps onto surf, which may be nil to only
// compute bounds. ctx is checked once per iteration. On cancellation or an
// invalid state the partial result is returned with the error.
func (tr *Tracer) Run(ctx context.Context, surf viz.Surface, cfg Config) (*Result, error) {
	start := time.Now()
	s, err := tr.Start(surf, cfg)
	if err != nil {
		return nil, err
	}

	for !s.Done() {
		if err := ctx.Err(); err != nil {
			res := s.Finish()
			res.Elapsed = time.Since(start)
			return res, &dynamo.SimulationError{
				Step:    s.i,
				Time:    s.Time(),
				State:   s.y.Clone(),
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err),
			}
		}
		if err := s.step(); err != nil {
			res := s.Finish()
			res.Elapsed = time.Since(start)
			return res, err
		}
	}

	res := s.Finish()
	res.Elapsed = time.Since(start)
	return res, nil
}

func (tr *Tracer) validateConfig(cfg Config, drawing bool) error {
	n := tr.sys.Dim()
	if err := dynamo.CheckDim(n); err != nil {
		return err
	}
	if cfg.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}
	if len(cfg.Initial) != n {
		return fmt.Errorf("%w: initial state has %d components, %s needs %d",
			dynamo.ErrDimensionMismatch, len(cfg.Initial), tr.sys.Name(), n)
	}
	switch tr.sys.Mode() {
	case dynamo.Integrate:
		if _, ok := tr.sys.(dynamo.Flow); !ok {
			return fmt.Errorf("%s is not a flow", tr.sys.Name())
		}
		if tr.stepper == nil {
			return fmt.Errorf("%s needs a stepper", tr.sys.Name())
		}
		if cfg.StepSize <= 0 {
			return fmt.Errorf("step size must be positive, got %f", cfg.StepSize)
		}
	case dynamo.Iterate:
		if _, ok := tr.sys.(dynamo.Map); !ok {
			return fmt.Errorf("%s is not a map", tr.sys.Name())
		}
	}
	if drawing {
		for _, a := range cfg.Axes {
			if a < 0 || a >= n {
				return fmt.Errorf("%w: axis %d out of range for %s", dynamo.ErrDimensionMismatch, a, tr.sys.Name())
			}
		}
	}
	return nil
}
