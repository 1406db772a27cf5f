package parareal

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/paraviz/internal/dynamo"
	"github.com/san-kum/paraviz/internal/propagate"
)

// Reference integrates the whole domain once. Sample 0 is x0 at t=0.
func Reference(ctx context.Context, prop propagate.Propagator, part Partition, x0 dynamo.State, samples int) (dynamo.Trajectory, error) {
	traj, err := prop.Propagate(ctx, part.Domain(), x0, samples)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	return traj, nil
}

// CoarseSweep chains prop across the sub-intervals, starting each one from
// the end state of the previous one.
func CoarseSweep(ctx context.Context, prop propagate.Propagator, part Partition, x0 dynamo.State, samples int) (Boundary, []dynamo.Trajectory, error) {
	b := make(Boundary, part.Count()+1)
	b[0] = x0.Clone()
	tracks := make([]dynamo.Trajectory, part.Count())

	for i := 0; i < part.Count(); i++ {
		traj, err := prop.Propagate(ctx, part.Interval(i), b[i], samples)
		if err != nil {
			return nil, nil, fmt.Errorf("coarse interval %d: %w", i, err)
		}
		tracks[i] = traj
		b[i+1] = traj.Last().X.Clone()
	}
	return b, tracks, nil
}

// FineSweep solves every sub-interval independently from starts[i], one
// goroutine per interval, and returns once all of them are done. At most
// workers solves run at once; workers <= 0 means no limit. The first error
// cancels the remaining solves.
func FineSweep(ctx context.Context, prop propagate.Propagator, part Partition, starts Boundary, samples, workers int) ([]dynamo.Trajectory, error) {
	if len(starts) < part.Count() {
		return nil, fmt.Errorf("fine sweep with %d starts: %w", len(starts), ErrBoundaryLength)
	}

	tracks := make([]dynamo.Trajectory, part.Count())
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := 0; i < part.Count(); i++ {
		g.Go(func() error {
			traj, err := prop.Propagate(gctx, part.Interval(i), starts[i], samples)
			if err != nil {
				return fmt.Errorf("fine interval %d: %w", i, err)
			}
			tracks[i] = traj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tracks, nil
}

func ends(tracks []dynamo.Trajectory) []dynamo.State {
	xs := make([]dynamo.State, len(tracks))
	for i, tr := range tracks {
		xs[i] = tr.Last().X
	}
	return xs
}
