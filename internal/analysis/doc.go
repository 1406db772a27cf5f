// Package analysis summarizes a solved run for the report command.
//
//   - [NewConvergence]: boundary error per iteration and contraction ratios
//   - [EnergyDecay]: energy of the reference solution over time
//   - [DominantPeriod]: oscillation period from the reference spectrum
//   - [NewPhasePortrait]: position/velocity portrait of a trajectory
//
// [NewReport] bundles all of them and renders text charts with asciigraph:
//
//	rep, err := analysis.NewReport(run, sys)
//	if err != nil {
//	    return err
//	}
//	rep.Write(os.Stdout, 60, 10)
package analysis
