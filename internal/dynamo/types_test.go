package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}
}

func TestState_Lerp(t *testing.T) {
	a := State{1, 0}
	b := State{3, -2}

	tests := []struct {
		w    float64
		want State
	}{
		{0, State{1, 0}},
		{1, State{3, -2}},
		{0.5, State{2, -1}},
		{0.25, State{1.5, -0.5}},
	}

	for _, tt := range tests {
		got := a.Lerp(b, tt.w)
		if math.Abs(got[0]-tt.want[0]) > 1e-12 || math.Abs(got[1]-tt.want[1]) > 1e-12 {
			t.Errorf("Lerp(w=%v) = %v, want %v", tt.w, got, tt.want)
		}
	}

	if a[0] != 1 || a[1] != 0 {
		t.Errorf("Lerp modified receiver: %v", a)
	}
}

func TestState_CloneIndependent(t *testing.T) {
	src := State{1, 2}
	c := src.Clone()
	c[0] = 99
	if src[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
	if !src.Equal(State{1, 2}) {
		t.Errorf("Equal failed for identical states")
	}
	if src.Equal(State{1}) {
		t.Errorf("Equal should fail on length mismatch")
	}
}

func TestTrajectoryAccessors(t *testing.T) {
	tr := Trajectory{
		{T: 0, X: State{1, 0}},
		{T: 0.5, X: State{0.9, -0.2}},
		{T: 1, X: State{0.7, -0.4}},
	}

	times := tr.Times()
	if len(times) != 3 || times[2] != 1 {
		t.Errorf("Times() = %v", times)
	}

	vel := tr.Component(1)
	if vel[1] != -0.2 {
		t.Errorf("Component(1) = %v", vel)
	}

	if tr.First().T != 0 || tr.Last().T != 1 {
		t.Errorf("First/Last wrong: %v %v", tr.First(), tr.Last())
	}

	var empty Trajectory
	if empty.Last().X != nil {
		t.Error("Last of empty trajectory should be zero sample")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Time: 1.5, Step: 150, Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
}
