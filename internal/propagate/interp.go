package propagate

import (
	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/paraviz/internal/dynamo"
)

// Table evaluates a trajectory between its samples by piecewise-linear
// interpolation. Outside the sampled range it returns the nearest endpoint
// value. The trajectory times must be strictly increasing.
type Table struct {
	start, end float64
	comps      []interp.PiecewiseLinear
	constant   dynamo.State
}

func NewTable(traj dynamo.Trajectory) *Table {
	tb := &Table{}
	if len(traj) == 0 {
		return tb
	}

	tb.start, tb.end = traj.First().T, traj.Last().T
	if len(traj) == 1 {
		tb.constant = traj[0].X.Clone()
		return tb
	}

	ts := traj.Times()
	dim := len(traj[0].X)
	tb.comps = make([]interp.PiecewiseLinear, dim)
	for i := 0; i < dim; i++ {
		// Fit only fails on malformed input, which a Trajectory never is.
		_ = tb.comps[i].Fit(ts, traj.Component(i))
	}
	return tb
}

// Component returns component i at time t.
func (tb *Table) Component(i int, t float64) float64 {
	if tb.constant != nil {
		if i < len(tb.constant) {
			return tb.constant[i]
		}
		return 0
	}
	if i >= len(tb.comps) {
		return 0
	}
	return tb.comps[i].Predict(t)
}

// At returns the interpolated state at time t.
func (tb *Table) At(t float64) dynamo.State {
	if tb.constant != nil {
		return tb.constant.Clone()
	}
	x := make(dynamo.State, len(tb.comps))
	for i := range tb.comps {
		x[i] = tb.comps[i].Predict(t)
	}
	return x
}

// Span reports the sampled time range.
func (tb *Table) Span() Interval {
	return Interval{Start: tb.start, End: tb.end}
}

// Interp is a one-shot lookup of component i of traj at time t.
func Interp(traj dynamo.Trajectory, component int, t float64) float64 {
	return NewTable(traj).Component(component, t)
}
