package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration and propagation.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive step size fell below the minimum.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrTooManySteps indicates the step budget ran out before the end time.
	ErrTooManySteps = errors.New("dynamo: step budget exhausted")

	// ErrInvalidInterval indicates an empty, reversed or non-finite interval.
	ErrInvalidInterval = errors.New("dynamo: invalid time interval")

	// ErrInvalidSampleCount indicates fewer than two requested samples.
	ErrInvalidSampleCount = errors.New("dynamo: sample count must be at least 2")

	// ErrDimensionMismatch indicates mismatched state and system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with integration context.
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
