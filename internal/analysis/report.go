package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/paraviz/internal/dynamo"
	"github.com/san-kum/paraviz/internal/parareal"
)

// Report collects the summary statistics of one run.
type Report struct {
	Mode       parareal.Mode
	Intervals  int
	Iterations int

	Convergence Convergence

	Times  []float64
	Energy []float64
	// DecayRate is the fitted exponential energy decay rate; zero when the
	// system has no energy.
	DecayRate float64

	// Period is the oscillation period from zero crossings, falling back to
	// the spectral peak when the reference crosses zero fewer than twice.
	Period float64

	Portrait *PhasePortrait
}

// NewReport analyses run. The energy section is filled only when sys
// implements dynamo.Hamiltonian.
func NewReport(run *parareal.Run, sys dynamo.System) (*Report, error) {
	if run == nil || len(run.Reference) == 0 {
		return nil, ErrShortTrajectory
	}
	r := &Report{
		Mode:        run.Mode,
		Intervals:   run.Partition.Count(),
		Iterations:  len(run.Iterations),
		Convergence: NewConvergence(run),
		Portrait:    NewPhasePortrait(run.Reference, 0, 1),
	}

	if h, ok := sys.(dynamo.Hamiltonian); ok {
		r.Times, r.Energy = EnergyDecay(h, run.Reference)
		if rate, err := DecayRate(r.Times, r.Energy); err == nil {
			r.DecayRate = rate
		}
	}

	period, err := CrossingPeriod(run.Reference, 0)
	if err != nil {
		period, err = DominantPeriod(run.Reference, 0)
		if err != nil {
			return nil, err
		}
	}
	r.Period = period
	return r, nil
}

// Write renders the report as text: a summary table, the convergence chart
// in decades, the energy chart and the phase portrait.
func (r *Report) Write(w io.Writer, width, height int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "mode %s, %d intervals, %d iterations\n\n", r.Mode, r.Intervals, r.Iterations)

	fmt.Fprintf(&b, "%-6s %-12s %s\n", "k", "max |Δy|", "ratio")
	for k, e := range r.Convergence.Errors {
		ratio := "-"
		if k > 0 {
			ratio = fmt.Sprintf("%.3f", r.Convergence.Ratios[k-1])
		}
		fmt.Fprintf(&b, "%-6d %-12.3e %s\n", k, e, ratio)
	}

	if len(r.Convergence.Errors) > 1 {
		b.WriteString("\n")
		b.WriteString(asciigraph.Plot(Log10(r.Convergence.Errors),
			asciigraph.Width(width),
			asciigraph.Height(height),
			asciigraph.Precision(1),
			asciigraph.Caption("log10 boundary error per iteration")))
		b.WriteString("\n")
	}

	if len(r.Energy) > 1 {
		b.WriteString("\n")
		b.WriteString(asciigraph.Plot(r.Energy,
			asciigraph.Width(width),
			asciigraph.Height(height),
			asciigraph.Precision(3),
			asciigraph.Caption(fmt.Sprintf("reference energy, decay rate %.4f", r.DecayRate))))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nperiod ≈ %.3f\n", r.Period)
	if r.Portrait != nil {
		b.WriteString("\nphase portrait (position, velocity)\n")
		b.WriteString(r.Portrait.Render(width/2, height, false))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
