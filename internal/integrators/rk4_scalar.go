package integrators

import "github.com/san-kum/attractor/internal/dynamo"

// RK4Scalar is RK4 over an array of scalar component functions. Every
// component of a stage sees the same intermediate state, so the result is
// bit-identical to RK4 for the same math.
type RK4Scalar struct {
	k, temp dynamo.State

	src dynamo.ScalarSystem
	fs  []dynamo.ScalarFunc
	vec *RK4
}

func NewRK4Scalar(n int) *RK4Scalar {
	r := &RK4Scalar{}
	r.ensureScratch(n)
	return r
}

func (r *RK4Scalar) ensureScratch(n int) {
	if len(r.k) != n {
		r.k = make(dynamo.State, n)
		r.temp = make(dynamo.State, n)
	}
}

// Step uses the flow's scalar components when it has them and falls back to
// its vector form otherwise. Components are fetched once per system.
func (r *RK4Scalar) Step(f dynamo.Flow, t, h float64, y, next dynamo.State) {
	ss, ok := f.(dynamo.ScalarSystem)
	if !ok {
		if r.vec == nil {
			r.vec = NewRK4(len(y))
		}
		r.vec.Step(f, t, h, y, next)
		return
	}
	if r.src != ss {
		r.src, r.fs = ss, ss.Components()
	}
	r.StepScalar(r.fs, t, h, y, next)
}

// StepScalar writes y(t+h) into next using one function per component.
func (r *RK4Scalar) StepScalar(fs []dynamo.ScalarFunc, t, h float64, y, next dynamo.State) {
	n := len(y)
	r.ensureScratch(n)
	k, temp := r.k, r.temp

	// k1 = h * f(t, y)
	for i := 0; i < n; i++ {
		k[i] = h * fs[i](t, y)
		next[i] = k[i]
	}

	// k2 = h * f(t + h/2, y + k1/2)
	for i := 0; i < n; i++ {
		temp[i] = y[i] + k[i]/2
	}
	for i := 0; i < n; i++ {
		k[i] = h * fs[i](t+h/2, temp)
		next[i] += k[i] * 2
	}

	// k3 = h * f(t + h/2, y + k2/2)
	for i := 0; i < n; i++ {
		temp[i] = y[i] + k[i]/2
	}
	for i := 0; i < n; i++ {
		k[i] = h * fs[i](t+h/2, temp)
		next[i] += k[i] * 2
	}

	// k4 = h * f(t + h, y + k3)
	for i := 0; i < n; i++ {
		temp[i] = y[i] + k[i]
	}
	for i := 0; i < n; i++ {
		k[i] = h * fs[i](t+h, temp)
		next[i] += k[i]
	}

	for i := 0; i < n; i++ {
		next[i] = y[i] + next[i]/6
	}
}
