package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/viz"
)

// SweepPoint holds the long-run values of one component at a parameter value.
type SweepPoint struct {
	Param  float64
	Values []float64
}

type SweepOptions struct {
	Param    string
	From, To float64
	Samples  int
	// Component is the state index recorded.
	Component int
	StepSize  float64
	Transient int
	Record    int
}

// Sweep steps the parameter across [From, To] and records where the
// trajectory settles. Flows record local maxima of the component (the
// Lorenz-map reading of an orbit diagram); maps record visited values.
// Values closer than 1e-3 are merged. The parameter is restored afterwards.
func Sweep(sys dynamo.System, stepper dynamo.Stepper, x0 dynamo.State, opt SweepOptions) ([]SweepPoint, error) {
	tunable, ok := sys.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("%s has no parameters", sys.Name())
	}
	orig, ok := tunable.GetParams()[opt.Param]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q", dynamo.ErrUnknownParam, sys.Name(), opt.Param)
	}
	if opt.Component < 0 || opt.Component >= sys.Dim() {
		return nil, fmt.Errorf("%w: component %d", dynamo.ErrDimensionMismatch, opt.Component)
	}
	if len(x0) != sys.Dim() {
		return nil, fmt.Errorf("%w: %d components for %s", dynamo.ErrDimensionMismatch, len(x0), sys.Name())
	}
	adv, err := newAdvancer(sys, stepper, opt.StepSize)
	if err != nil {
		return nil, err
	}
	defer tunable.SetParam(opt.Param, orig)

	samples := opt.Samples
	if samples < 2 {
		samples = 2
	}
	step := (opt.To - opt.From) / float64(samples-1)
	h := timeStep(sys, opt.StepSize)
	flow := sys.Mode() == dynamo.Integrate
	k := opt.Component

	results := make([]SweepPoint, 0, samples)
	x, buf := make(dynamo.State, len(x0)), make(dynamo.State, len(x0))

	for i := 0; i < samples; i++ {
		param := opt.From + float64(i)*step
		if err := tunable.SetParam(opt.Param, param); err != nil {
			return nil, err
		}

		copy(x, x0)
		t := 0.0
		for j := 0; j < opt.Transient; j++ {
			adv(t, x, buf)
			x, buf = buf, x
			t += h
		}

		values := make([]float64, 0, 64)
		seen := make(map[int64]bool)
		keep := func(v float64) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return
			}
			key := int64(math.Round(v * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, v)
			}
		}

		prev2, prev1 := math.NaN(), x[k]
		for j := 0; j < opt.Record; j++ {
			adv(t, x, buf)
			x, buf = buf, x
			t += h

			if !flow {
				keep(x[k])
				continue
			}
			if prev1 > prev2 && prev1 >= x[k] {
				keep(prev1)
			}
			prev2, prev1 = prev1, x[k]
		}

		results = append(results, SweepPoint{Param: param, Values: values})
	}

	return results, nil
}

// DrawSweep plots sweep results on a braille canvas, parameter along x.
func DrawSweep(data []SweepPoint, c *viz.Canvas) {
	if len(data) == 0 {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return
	}
	if hi == lo {
		hi = lo + 1
	}

	w, h := c.PixelSize()
	for i, p := range data {
		col := i * w / len(data)
		for _, v := range p.Values {
			row := h - 1 - int((v-lo)/(hi-lo)*float64(h-1))
			c.Set(col, row)
		}
	}
}
