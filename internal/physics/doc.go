// Package physics provides the attractor models traced by the driver.
//
// Flows implement [dynamo.Flow] and [dynamo.ScalarSystem], so either RK4
// calling convention can integrate them:
//
//   - [Duffing]: forced double-well oscillator
//   - [Lorenz]: butterfly attractor
//   - [Rossler]: spiral chaos
//
// Maps implement [dynamo.Map] and bypass the stepper:
//
//   - [DeJong]: Peter de Jong map
//
// Every model implements [dynamo.Configurable] so presets and config files
// can override the reference constants:
//
//	lz := physics.NewLorenz()
//	_ = lz.SetParam("b", 46.92)
package physics
