package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Lerp moves s toward target by weight w, component by component:
// s*(1-w) + target*w. Components missing from target are kept.
func (s State) Lerp(target State, w float64) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(target) {
			result[i] = s[i]*(1-w) + target[i]*w
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Equal reports exact component-wise equality.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// System is an autonomous or time-dependent ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator attempts a step of size dt and reports whether the local
// error estimate stayed inside tolerance. dtNext is the proposed next step
// size in either case.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt float64) (next State, dtNext float64, ok bool)
}

// Sample is a state observed at time T.
type Sample struct {
	T float64
	X State
}

// Trajectory is an ordered sequence of samples. Producers never modify a
// trajectory after returning it.
type Trajectory []Sample

func (tr Trajectory) Times() []float64 {
	ts := make([]float64, len(tr))
	for i, s := range tr {
		ts[i] = s.T
	}
	return ts
}

// Component extracts the i-th state component of every sample.
func (tr Trajectory) Component(i int) []float64 {
	vs := make([]float64, len(tr))
	for j, s := range tr {
		if i < len(s.X) {
			vs[j] = s.X[i]
		}
	}
	return vs
}

func (tr Trajectory) First() Sample {
	if len(tr) == 0 {
		return Sample{}
	}
	return tr[0]
}

func (tr Trajectory) Last() Sample {
	if len(tr) == 0 {
		return Sample{}
	}
	return tr[len(tr)-1]
}
