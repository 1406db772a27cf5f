package propagate

import (
	"context"

	"github.com/san-kum/paraviz/internal/dynamo"
)

// Fixed takes Substeps equal steps between consecutive sample times with a
// fixed-step scheme. A fresh integrator is built per call, so integrators
// with scratch buffers are safe to use from several goroutines.
type Fixed struct {
	sys      dynamo.System
	factory  func() dynamo.Integrator
	name     string
	Substeps int
}

func NewFixed(name string, sys dynamo.System, factory func() dynamo.Integrator, substeps int) *Fixed {
	if substeps < 1 {
		substeps = 1
	}
	return &Fixed{sys: sys, factory: factory, name: name, Substeps: substeps}
}

func (f *Fixed) Name() string { return f.name }

func (f *Fixed) Propagate(ctx context.Context, span Interval, x0 dynamo.State, samples int) (dynamo.Trajectory, error) {
	if err := checkArgs(f.sys, span, x0, samples); err != nil {
		return nil, err
	}

	ts := SampleTimes(span, samples)
	integ := f.factory()

	traj := make(dynamo.Trajectory, 0, samples)
	traj = append(traj, dynamo.Sample{T: ts[0], X: x0.Clone()})

	x := x0.Clone()
	step := 0
	for j := 1; j < len(ts); j++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h := (ts[j] - ts[j-1]) / float64(f.Substeps)
		for s := 0; s < f.Substeps; s++ {
			t := ts[j-1] + float64(s)*h
			x = integ.Step(f.sys, x, t, h)
			step++
		}
		if !x.IsValid() {
			return nil, &dynamo.SimulationError{Step: step, Time: ts[j], State: x, Wrapped: dynamo.ErrInvalidState}
		}

		traj = append(traj, dynamo.Sample{T: ts[j], X: x.Clone()})
	}

	return traj, nil
}
