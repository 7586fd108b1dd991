// Package dynamo provides the core primitives for tracing dynamical systems.
//
// The package defines the state vector and the capabilities a model exposes:
//
//   - [State]: vector representing the system state at one instant
//   - [Box]: running per-component bounding box of observed states
//   - [Flow]: continuous system, dY/dt = f(t, Y), integrated by a stepper
//   - [Map]: discrete system, Y' = g(Y), iterated directly
//   - [ScalarSystem]: flow exposed as one scalar function per component
//
// # Example
//
//	sys := physics.NewLorenz()
//	rk := integrators.NewRK4(sys.Dim())
//	y, next := sys.DefaultState(), make(dynamo.State, sys.Dim())
//	rk.Step(sys, 0, 0.02, y, next)
//
// # Thread Safety
//
// Models are safe for concurrent evaluation as long as their parameters are
// not changed. Steppers own scratch buffers and must not be shared between
// goroutines.
package dynamo
