package propagate

import (
	"context"
	"math"

	"github.com/san-kum/paraviz/internal/dynamo"
)

const (
	DefaultInitialStep = 0.01
	DefaultMinStep     = 1e-12
	DefaultMaxSteps    = 100000
)

// Adaptive integrates with an error-controlled integrator and lands exactly
// on every requested sample time. It is safe for concurrent use as long as
// the integrator's StepAdaptive is.
type Adaptive struct {
	sys         dynamo.System
	integ       dynamo.AdaptiveIntegrator
	name        string
	InitialStep float64
	MinStep     float64
	MaxSteps    int
}

func NewAdaptive(name string, sys dynamo.System, integ dynamo.AdaptiveIntegrator) *Adaptive {
	return &Adaptive{
		sys:         sys,
		integ:       integ,
		name:        name,
		InitialStep: DefaultInitialStep,
		MinStep:     DefaultMinStep,
		MaxSteps:    DefaultMaxSteps,
	}
}

func (a *Adaptive) Name() string { return a.name }

func (a *Adaptive) Propagate(ctx context.Context, span Interval, x0 dynamo.State, samples int) (dynamo.Trajectory, error) {
	if err := checkArgs(a.sys, span, x0, samples); err != nil {
		return nil, err
	}

	ts := SampleTimes(span, samples)
	traj := make(dynamo.Trajectory, 0, samples)
	traj = append(traj, dynamo.Sample{T: ts[0], X: x0.Clone()})

	x := x0.Clone()
	t := ts[0]
	h := math.Min(a.InitialStep, span.Width())
	if h <= 0 {
		h = span.Width()
	}
	steps := 0

	for j := 1; j < len(ts); j++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := ts[j]
		for t < target {
			step := h
			landing := false
			if t+step >= target {
				step = target - t
				landing = true
			}

			next, proposed, ok := a.integ.StepAdaptive(a.sys, x, t, step)
			steps++
			if a.MaxSteps > 0 && steps > a.MaxSteps {
				return nil, &dynamo.SimulationError{Step: steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrTooManySteps}
			}

			if !ok {
				h = proposed
				if h < a.MinStep {
					return nil, &dynamo.SimulationError{Step: steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrStepTooSmall}
				}
				continue
			}
			if !next.IsValid() {
				return nil, &dynamo.SimulationError{Step: steps, Time: t + step, State: next, Wrapped: dynamo.ErrInvalidState}
			}

			x = next
			if landing {
				t = target
				// a clipped step says little about the natural step size
				h = math.Max(h, proposed)
			} else {
				t += step
				h = proposed
			}
			h = math.Min(h, span.Width())
		}

		traj = append(traj, dynamo.Sample{T: target, X: x.Clone()})
	}

	return traj, nil
}
