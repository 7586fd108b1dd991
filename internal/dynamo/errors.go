package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for tracing operations.
var (
	// ErrInvalidState indicates a state vector holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParam indicates a parameter name the model does not have.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrContextCanceled indicates the trace was interrupted.
	ErrContextCanceled = errors.New("dynamo: trace canceled by context")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with the iteration it happened at.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// CheckDim reports whether n is a usable state dimension.
func CheckDim(n int) error {
	if n < 1 || n > MaxDim {
		return fmt.Errorf("%w: dimension %d not in [1, %d]", ErrDimensionMismatch, n, MaxDim)
	}
	return nil
}
