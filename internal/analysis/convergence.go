package analysis

import (
	"math"

	"github.com/san-kum/paraviz/internal/parareal"
)

// Convergence is the boundary error of the coarse sweep followed by one entry
// per iteration.
type Convergence struct {
	Errors []float64
	// Ratios[k-1] is Errors[k]/Errors[k-1]; zero when the previous error is.
	Ratios []float64
}

func NewConvergence(run *parareal.Run) Convergence {
	errs := parareal.Errors(run)
	c := Convergence{Errors: errs}
	for k := 1; k < len(errs); k++ {
		r := 0.0
		if errs[k-1] > 0 {
			r = errs[k] / errs[k-1]
		}
		c.Ratios = append(c.Ratios, r)
	}
	return c
}

// Final is the error after the last iteration.
func (c Convergence) Final() float64 {
	if len(c.Errors) == 0 {
		return 0
	}
	return c.Errors[len(c.Errors)-1]
}

// Monotone reports whether the error never grows between iterations.
func (c Convergence) Monotone() bool {
	for _, r := range c.Ratios {
		if r > 1 {
			return false
		}
	}
	return true
}

// Log10 maps errors to decades, flooring exact zeros at 1e-16 so the chart
// stays finite.
func Log10(errs []float64) []float64 {
	out := make([]float64, len(errs))
	for i, e := range errs {
		out[i] = math.Log10(math.Max(e, 1e-16))
	}
	return out
}
