package parareal

import (
	"github.com/san-kum/paraviz/internal/dynamo"
)

// Boundary holds one state per partition boundary. Entry 0 is always the
// initial condition.
type Boundary []dynamo.State

func (b Boundary) Clone() Boundary {
	c := make(Boundary, len(b))
	for i, x := range b {
		c[i] = x.Clone()
	}
	return c
}

func (b Boundary) Positions() []float64 { return b.component(0) }

func (b Boundary) Velocities() []float64 { return b.component(1) }

func (b Boundary) component(i int) []float64 {
	vs := make([]float64, len(b))
	for j, x := range b {
		if i < len(x) {
			vs[j] = x[i]
		}
	}
	return vs
}

// Segment is the straight piece an iteration draws across one sub-interval.
type Segment struct {
	Start, End dynamo.Sample
}

// At linearly interpolates the segment position at time t.
func (s Segment) At(t float64) float64 {
	w := s.End.T - s.Start.T
	if w == 0 {
		return s.End.X[0]
	}
	return s.Start.X[0] + (s.End.X[0]-s.Start.X[0])*(t-s.Start.T)/w
}

func segments(part Partition, b Boundary) []Segment {
	segs := make([]Segment, part.Count())
	for i := range segs {
		segs[i] = Segment{
			Start: dynamo.Sample{T: part.Time(i), X: b[i]},
			End:   dynamo.Sample{T: part.Time(i + 1), X: b[i+1]},
		}
	}
	return segs
}
