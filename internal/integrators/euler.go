package integrators

import "github.com/san-kum/attractor/internal/dynamo"

// Euler is the first-order explicit step. It is kept for comparing against
// RK4; none of the reference attractors are traced with it.
type Euler struct {
	dy dynamo.State
}

func NewEuler(n int) *Euler {
	return &Euler{dy: make(dynamo.State, n)}
}

func (e *Euler) Step(f dynamo.Flow, t, h float64, y, next dynamo.State) {
	if len(e.dy) != len(y) {
		e.dy = make(dynamo.State, len(y))
	}
	f.Eval(t, y, e.dy)
	for i := range y {
		next[i] = y[i] + h*e.dy[i]
	}
}
