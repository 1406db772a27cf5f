package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/paraviz/internal/dynamo"
)

var ErrShortTrajectory = errors.New("analysis: trajectory too short")

// EnergyDecay evaluates the energy of every sample of tr.
func EnergyDecay(sys dynamo.Hamiltonian, tr dynamo.Trajectory) (times, energy []float64) {
	times = tr.Times()
	energy = make([]float64, len(tr))
	for i, s := range tr {
		energy[i] = sys.Energy(s.X)
	}
	return times, energy
}

// DecayRate fits E(t) = E0*exp(-rate*t) by least squares on log E. For a
// lightly damped pendulum the rate is close to the damping coefficient.
func DecayRate(times, energy []float64) (float64, error) {
	var n, st, sy, stt, sty float64
	for i, e := range energy {
		if e <= 0 || i >= len(times) {
			continue
		}
		t, y := times[i], math.Log(e)
		n++
		st += t
		sy += y
		stt += t * t
		sty += t * y
	}
	den := n*stt - st*st
	if n < 2 || den == 0 {
		return 0, ErrShortTrajectory
	}
	return -(n*sty - st*sy) / den, nil
}
