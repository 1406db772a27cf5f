// Package parareal computes every numerical artifact the animation draws:
// the reference solution, the initial coarse sweep, the parallel fine solves
// and the sequence of corrected boundary states.
//
// Each iteration is a pure function of the previous boundary sequence.
// Nothing here is mutated once returned, so a [Run] can be shared freely
// between the scene builder, the exporters and the reports.
//
// Two correction rules are available. [ModeBlend] moves every boundary state
// toward the reference by [Progress] and is what the animation shows by
// default. [ModeParareal] applies the standard predictor-corrector update
//
//	U[k][i+1] = G(U[k][i]) + F(U[k-1][i]) - G(U[k-1][i])
//
// and reproduces the fine solution at the boundaries after at most Count
// iterations.
package parareal
