// Package propagate integrates a system across a time interval and reports
// the solution at evenly spaced sample times.
//
// Two propagators are provided. [Adaptive] drives an error-controlled
// embedded Runge-Kutta pair and lands exactly on every sample time, so its
// accuracy is set by tolerance and not by the number of samples. [Fixed]
// takes equal steps with a fixed-step scheme and is the cheap, less accurate
// propagator a Parareal coarse sweep needs.
package propagate

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/paraviz/internal/dynamo"
)

// Interval is the closed time span [Start, End].
type Interval struct {
	Start, End float64
}

func (iv Interval) Width() float64 { return iv.End - iv.Start }

func (iv Interval) Valid() bool {
	if math.IsNaN(iv.Start) || math.IsInf(iv.Start, 0) || math.IsNaN(iv.End) || math.IsInf(iv.End, 0) {
		return false
	}
	return iv.End > iv.Start
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%g, %g]", iv.Start, iv.End)
}

// Propagator solves the initial value problem x(span.Start) = x0 and returns
// the solution sampled at SampleTimes(span, samples).
type Propagator interface {
	Propagate(ctx context.Context, span Interval, x0 dynamo.State, samples int) (dynamo.Trajectory, error)
	Name() string
}

// SampleTimes returns samples evenly spaced times covering span, with the
// first exactly span.Start and the last exactly span.End.
func SampleTimes(span Interval, samples int) []float64 {
	ts := floats.Span(make([]float64, samples), span.Start, span.End)
	// Span accumulates l+step*i, which can land one ulp short of u.
	ts[len(ts)-1] = span.End
	return ts
}

func checkArgs(sys dynamo.System, span Interval, x0 dynamo.State, samples int) error {
	if !span.Valid() {
		return fmt.Errorf("propagate %v: %w", span, dynamo.ErrInvalidInterval)
	}
	if samples < 2 {
		return fmt.Errorf("propagate %d samples: %w", samples, dynamo.ErrInvalidSampleCount)
	}
	if len(x0) != sys.StateDim() {
		return fmt.Errorf("propagate state of length %d: %w", len(x0), dynamo.ErrDimensionMismatch)
	}
	if !x0.IsValid() {
		return &dynamo.SimulationError{Step: 0, Time: span.Start, State: x0.Clone(), Wrapped: dynamo.ErrInvalidState}
	}
	return nil
}
