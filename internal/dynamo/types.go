package dynamo

import (
	"math"
)

// MaxDim bounds the dimension of any state vector.
const MaxDim = 8

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Mode tells the driver how a system advances.
type Mode int

const (
	// Integrate advances a Flow through a stepper.
	Integrate Mode = iota
	// Iterate advances a Map by direct evaluation.
	Iterate
)

func (m Mode) String() string {
	if m == Iterate {
		return "map"
	}
	return "flow"
}

type System interface {
	Name() string
	Dim() int
	Mode() Mode
}

// Flow evaluates dY/dt at (t, y) into dy.
type Flow interface {
	System
	Eval(t float64, y, dy State)
}

// Map evaluates the next iterate of y into next.
type Map interface {
	System
	Next(y, next State)
}

// ScalarFunc returns one derivative component from the whole state.
type ScalarFunc func(t float64, y State) float64

// ScalarSystem exposes a flow as independent per-component functions.
type ScalarSystem interface {
	System
	Components() []ScalarFunc
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Initializer provides a model's reference initial condition.
type Initializer interface {
	DefaultState() State
}

// Stepper advances a flow by one fixed step h from y into next.
// next must not alias y.
type Stepper interface {
	Step(f Flow, t, h float64, y, next State)
}
