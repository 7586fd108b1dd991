package integrators

import "github.com/san-kum/attractor/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta step for a vector-valued
// right-hand side. Scratch buffers are sized once; Step does not allocate.
type RK4 struct {
	k, temp dynamo.State
}

func NewRK4(n int) *RK4 {
	r := &RK4{}
	r.ensureScratch(n)
	return r
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k) != n {
		r.k = make(dynamo.State, n)
		r.temp = make(dynamo.State, n)
	}
}

// Step writes y(t+h) into next. The sum k1 + 2k2 + 2k3 + k4 is accumulated
// in next and divided by six at the end.
func (r *RK4) Step(f dynamo.Flow, t, h float64, y, next dynamo.State) {
	n := len(y)
	r.ensureScratch(n)
	k, temp := r.k, r.temp

	// k1 = h * f(t, y)
	f.Eval(t, y, k)
	for i := 0; i < n; i++ {
		k[i] *= h
		next[i] = k[i]
	}

	// k2 = h * f(t + h/2, y + k1/2)
	for i := 0; i < n; i++ {
		temp[i] = y[i] + k[i]/2
	}
	f.Eval(t+h/2, temp, k)
	for i := 0; i < n; i++ {
		k[i] *= h
		next[i] += k[i] * 2
	}

	// k3 = h * f(t + h/2, y + k2/2)
	for i := 0; i < n; i++ {
		temp[i] = y[i] + k[i]/2
	}
	f.Eval(t+h/2, temp, k)
	for i := 0; i < n; i++ {
		k[i] *= h
		next[i] += k[i] * 2
	}

	// k4 = h * f(t + h, y + k3)
	for i := 0; i < n; i++ {
		temp[i] = y[i] + k[i]
	}
	f.Eval(t+h, temp, k)
	for i := 0; i < n; i++ {
		k[i] *= h
		next[i] += k[i]
	}

	for i := 0; i < n; i++ {
		next[i] = y[i] + next[i]/6
	}
}
