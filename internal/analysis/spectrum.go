package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/paraviz/internal/dynamo"
)

func centred(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

// PowerSpectrum returns the magnitude of each non-negative frequency
// coefficient of data after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	coeff := fourier.NewFFT(len(data)).Coefficients(nil, centred(data))
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantPeriod estimates the oscillation period of component comp of a
// uniformly sampled trajectory from its strongest frequency, refined by a
// parabola through the peak and its neighbours. It returns +Inf when the
// component is constant.
func DominantPeriod(tr dynamo.Trajectory, comp int) (float64, error) {
	if len(tr) < 4 {
		return 0, ErrShortTrajectory
	}
	dt := (tr.Last().T - tr.First().T) / float64(len(tr)-1)
	if dt <= 0 {
		return 0, ErrShortTrajectory
	}

	data := tr.Component(comp)
	ps := PowerSpectrum(data)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if ps[best] == 0 {
		return math.Inf(1), nil
	}

	bin := float64(best)
	if best+1 < len(ps) {
		a, b, c := ps[best-1], ps[best], ps[best+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	freq := bin / float64(len(data)) / dt
	return 1 / freq, nil
}

// Crossings returns the times at which component comp crosses level, found
// by linear interpolation between neighbouring samples.
func Crossings(tr dynamo.Trajectory, comp int, level float64) []float64 {
	var out []float64
	for i := 1; i < len(tr); i++ {
		a, b := tr[i-1].X[comp]-level, tr[i].X[comp]-level
		switch {
		case a == 0:
			out = append(out, tr[i-1].T)
		case a*b < 0:
			frac := a / (a - b)
			out = append(out, tr[i-1].T+frac*(tr[i].T-tr[i-1].T))
		}
	}
	return out
}

// CrossingPeriod estimates the period from the mean spacing of zero
// crossings, two per cycle. It needs at least two crossings.
func CrossingPeriod(tr dynamo.Trajectory, comp int) (float64, error) {
	zs := Crossings(tr, comp, 0)
	if len(zs) < 2 {
		return 0, ErrShortTrajectory
	}
	return 2 * (zs[len(zs)-1] - zs[0]) / float64(len(zs)-1), nil
}
