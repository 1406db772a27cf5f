package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/paraviz/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	dt := 0.01
	steps := 100

	x := dynamo.State{1.0, 0.0}
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewEuler()

	x := integ.Step(dyn, dynamo.State{1, 0}, 0, 0.1)
	if x[0] != 1 || math.Abs(x[1]+0.1) > 1e-15 {
		t.Errorf("Euler step = %v, want [1 -0.1]", x)
	}
}

func TestCoarseSchemesLessAccurate(t *testing.T) {
	dyn := &harmonicOscillator{}
	dt := 0.25
	steps := 40
	exact := math.Cos(float64(steps) * dt)

	run := func(integ dynamo.Integrator) float64 {
		x := dynamo.State{1, 0}
		for i := 0; i < steps; i++ {
			x = integ.Step(dyn, x, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - exact)
	}

	eRK4 := run(NewRK4())
	eEuler := run(NewEuler())
	eVerlet := run(NewVerlet())

	if eEuler <= eRK4 {
		t.Errorf("expected Euler error %e to exceed RK4 error %e", eEuler, eRK4)
	}
	if eVerlet <= eRK4 {
		t.Errorf("expected Verlet error %e to exceed RK4 error %e", eVerlet, eRK4)
	}
}

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45(0, 0)
	dyn := &harmonicOscillator{}

	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45(0, 0)
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	finalEnergy := dyn.Energy(x)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45(1e-8, 1e-10)
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x, newDt, ok := integrator.StepAdaptive(dyn, x0, 0, 0.01)
	if !ok {
		t.Error("small step should be accepted")
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if newDt <= 0 {
		t.Errorf("StepAdaptive returned invalid dt: %f", newDt)
	}
}

func TestRK45_RejectsLargeStep(t *testing.T) {
	integrator := NewRK45(1e-10, 1e-12)
	dyn := &harmonicOscillator{}

	_, newDt, ok := integrator.StepAdaptive(dyn, dynamo.State{1, 0}, 0, 2.0)
	if ok {
		t.Error("a 2s step at tight tolerance should be rejected")
	}
	if newDt >= 2.0 {
		t.Errorf("rejected step should shrink dt, got %f", newDt)
	}
}

func TestRK45_DefaultTolerances(t *testing.T) {
	r := NewRK45(-1, 0)
	if r.Rtol != DefaultRtol || r.Atol != DefaultAtol {
		t.Errorf("expected default tolerances, got rtol=%g atol=%g", r.Rtol, r.Atol)
	}
}
