package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/attractor/internal/dynamo"
)

type LyapunovOptions struct {
	StepSize float64
	// Transient iterations are discarded before measuring.
	Transient    int
	Steps        int
	Perturbation float64
}

func DefaultLyapunovOptions() LyapunovOptions {
	return LyapunovOptions{
		StepSize:     0.01,
		Transient:    1000,
		Steps:        20000,
		Perturbation: 1e-8,
	}
}

// LargestLyapunov estimates the largest Lyapunov exponent by trajectory
// separation. A positive value indicates chaos.
//
// Two trajectories start d0 apart. After every iteration the log growth of
// their separation is accumulated and the shadow trajectory is pulled back
// to distance d0 along the separation vector:
//
//	λ ≈ Σ ln(d_i/d0) / (n·h)
//
// For maps h is 1, so λ is per iteration.
func LargestLyapunov(sys dynamo.System, stepper dynamo.Stepper, x0 dynamo.State, opt LyapunovOptions) (float64, error) {
	if len(x0) != sys.Dim() {
		return 0, fmt.Errorf("%w: %d components for %s", dynamo.ErrDimensionMismatch, len(x0), sys.Name())
	}
	if opt.Steps <= 0 || opt.Perturbation <= 0 {
		return 0, fmt.Errorf("analysis: steps and perturbation must be positive")
	}
	adv, err := newAdvancer(sys, stepper, opt.StepSize)
	if err != nil {
		return 0, err
	}
	h := timeStep(sys, opt.StepSize)

	x, buf := x0.Clone(), make(dynamo.State, len(x0))
	t := 0.0
	for i := 0; i < opt.Transient; i++ {
		adv(t, x, buf)
		x, buf = buf, x
		t += h
	}

	d0 := opt.Perturbation
	xp := x.Clone()
	xp[0] += d0
	diff := make([]float64, len(x))

	sumLog := 0.0
	for i := 0; i < opt.Steps; i++ {
		adv(t, x, buf)
		x, buf = buf, x
		adv(t, xp, buf)
		xp, buf = buf, xp
		t += h

		d := floats.Distance(x, xp, 2)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, &dynamo.SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}
		sumLog += math.Log(d / d0)

		floats.SubTo(diff, xp, x)
		floats.Scale(d0/d, diff)
		floats.AddTo(xp, x, diff)
	}

	return sumLog / (float64(opt.Steps) * h), nil
}
