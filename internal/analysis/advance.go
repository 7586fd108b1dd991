package analysis

import (
	"fmt"

	"github.com/san-kum/attractor/internal/dynamo"
)

// advancer steps a system one iteration regardless of its mode.
type advancer func(t float64, y, next dynamo.State)

func newAdvancer(sys dynamo.System, stepper dynamo.Stepper, h float64) (advancer, error) {
	switch sys.Mode() {
	case dynamo.Integrate:
		f, ok := sys.(dynamo.Flow)
		if !ok {
			return nil, fmt.Errorf("%s is not a flow", sys.Name())
		}
		if stepper == nil {
			return nil, fmt.Errorf("%s needs a stepper", sys.Name())
		}
		if h <= 0 {
			return nil, fmt.Errorf("step size must be positive, got %g", h)
		}
		return func(t float64, y, next dynamo.State) { stepper.Step(f, t, h, y, next) }, nil
	default:
		m, ok := sys.(dynamo.Map)
		if !ok {
			return nil, fmt.Errorf("%s is not a map", sys.Name())
		}
		return func(_ float64, y, next dynamo.State) { m.Next(y, next) }, nil
	}
}

// timeStep is the time one iteration represents; maps count iterations.
func timeStep(sys dynamo.System, h float64) float64 {
	if sys.Mode() == dynamo.Iterate {
		return 1
	}
	return h
}
