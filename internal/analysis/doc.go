// Package analysis characterizes attractors beyond drawing them.
//
//   - [LargestLyapunov]: largest Lyapunov exponent via trajectory separation
//   - [Sweep]: orbit diagram over one parameter
//   - [DrawSweep]: braille rendering of a sweep
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LargestLyapunov(sys, stepper, x0, analysis.DefaultLyapunovOptions())
//	if err == nil && lambda > 0 {
//	    // sensitive dependence on initial conditions
//	}
package analysis
