package parareal

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/paraviz/internal/dynamo"
	"github.com/san-kum/paraviz/internal/propagate"
)

// ProgressCap keeps the blend weight below 1 so a blended boundary never
// lands exactly on the reference.
const ProgressCap = 0.95

// Progress is the blend weight of iteration k out of n: min(k/n, 0.95).
func Progress(k, n int) float64 {
	if n <= 0 || k < 1 {
		return 0
	}
	return math.Min(float64(k)/float64(n), ProgressCap)
}

// Blend moves every boundary state after the first toward the reference at
// the same time by Progress(k, n). Entry 0 is copied from prev unchanged.
func Blend(prev Boundary, ref *propagate.Table, part Partition, k, n int) (Boundary, []Segment, error) {
	if err := part.check(prev); err != nil {
		return nil, nil, err
	}

	p := Progress(k, n)
	next := make(Boundary, len(prev))
	next[0] = prev[0].Clone()
	for i := 0; i < part.Count(); i++ {
		target := ref.At(part.Time(i + 1))
		next[i+1] = prev[i+1].Lerp(target, p)
	}
	return next, segments(part, next), nil
}

// Correct applies one Parareal update, left to right:
//
//	next[i+1] = G(next[i]) + fineEnds[i] - coarseEnds[i]
//
// where fineEnds[i] = F(prev[i]) and coarseEnds[i] = G(prev[i]). It also
// returns G(next[i]) for every i, which the following iteration needs as its
// coarseEnds.
func Correct(ctx context.Context, coarse propagate.Propagator, part Partition, prev Boundary, fineEnds, coarseEnds []dynamo.State, samples int) (Boundary, []dynamo.State, error) {
	if err := part.check(prev); err != nil {
		return nil, nil, err
	}
	if len(fineEnds) != part.Count() || len(coarseEnds) != part.Count() {
		return nil, nil, fmt.Errorf("correct with %d fine and %d coarse ends: %w", len(fineEnds), len(coarseEnds), ErrBoundaryLength)
	}

	next := make(Boundary, len(prev))
	next[0] = prev[0].Clone()
	predicted := make([]dynamo.State, part.Count())

	for i := 0; i < part.Count(); i++ {
		traj, err := coarse.Propagate(ctx, part.Interval(i), next[i], samples)
		if err != nil {
			return nil, nil, fmt.Errorf("correct interval %d: %w", i, err)
		}
		g := traj.Last().X
		predicted[i] = g.Clone()

		x := g.Add(fineEnds[i]).Sub(coarseEnds[i])
		if !x.IsValid() {
			return nil, nil, &dynamo.SimulationError{Step: i, Time: part.Time(i + 1), State: x, Wrapped: dynamo.ErrInvalidState}
		}
		next[i+1] = x
	}
	return next, predicted, nil
}
