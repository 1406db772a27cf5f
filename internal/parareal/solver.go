package parareal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/paraviz/internal/dynamo"
	"github.com/san-kum/paraviz/internal/propagate"
)

type Mode string

const (
	ModeBlend    Mode = "blend"
	ModeParareal Mode = "parareal"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBlend, "":
		return ModeBlend, nil
	case ModeParareal:
		return ModeParareal, nil
	}
	return "", fmt.Errorf("unknown mode %q (want %s or %s)", s, ModeBlend, ModeParareal)
}

type Options struct {
	Horizon    float64
	Intervals  int
	Iterations int
	Initial    dynamo.State
	Mode       Mode

	CoarseSamples int
	FineSamples   int
	ExactSamples  int

	// Workers bounds concurrent fine solves; 0 runs one per interval.
	Workers int
}

// Solver runs the whole algorithm with three propagators: a cheap coarse
// one, a fine one, and the one used for the reference solution.
type Solver struct {
	coarse propagate.Propagator
	fine   propagate.Propagator
	exact  propagate.Propagator
	opts   Options
	part   Partition
	logger log.Logger
}

func NewSolver(coarse, fine, exact propagate.Propagator, opts Options, logger log.Logger) (*Solver, error) {
	part, err := NewPartition(opts.Horizon, opts.Intervals)
	if err != nil {
		return nil, err
	}
	if opts.Iterations < 1 {
		return nil, fmt.Errorf("iterations %d: %w", opts.Iterations, ErrInvalidIteration)
	}
	if opts.Mode == "" {
		opts.Mode = ModeBlend
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Solver{
		coarse: coarse,
		fine:   fine,
		exact:  exact,
		opts:   opts,
		part:   part,
		logger: log.With(logger, "component", "parareal"),
	}, nil
}

func (s *Solver) Partition() Partition { return s.part }

// Run holds every result of one solve. Nothing in it changes after Run
// returns.
type Run struct {
	Partition Partition
	Initial   dynamo.State
	Mode      Mode

	Reference    dynamo.Trajectory
	Coarse       Boundary
	CoarseTracks []dynamo.Trajectory

	// Fine holds the parallel fine solves started from the coarse boundary.
	Fine []dynamo.Trajectory

	Iterations []Iteration
}

type Iteration struct {
	K        int
	Progress float64
	Boundary Boundary
	Segments []Segment
}

// Final returns the last boundary sequence, or the coarse one when there
// were no iterations.
func (r *Run) Final() Boundary {
	if len(r.Iterations) == 0 {
		return r.Coarse
	}
	return r.Iterations[len(r.Iterations)-1].Boundary
}

// ReferenceTable returns an interpolating lookup over the reference.
func (r *Run) ReferenceTable() *propagate.Table {
	return propagate.NewTable(r.Reference)
}

func (s *Solver) Run(ctx context.Context) (*Run, error) {
	start := time.Now()
	x0 := s.opts.Initial.Clone()

	ref, err := Reference(ctx, s.exact, s.part, x0, s.opts.ExactSamples)
	if err != nil {
		return nil, err
	}
	level.Debug(s.logger).Log("msg", "reference solved", "method", s.exact.Name(), "samples", len(ref))

	coarse, tracks, err := CoarseSweep(ctx, s.coarse, s.part, x0, s.opts.CoarseSamples)
	if err != nil {
		return nil, err
	}
	level.Debug(s.logger).Log("msg", "coarse sweep done", "method", s.coarse.Name(), "intervals", s.part.Count())

	fineStart := time.Now()
	fine, err := FineSweep(ctx, s.fine, s.part, coarse, s.opts.FineSamples, s.opts.Workers)
	if err != nil {
		return nil, err
	}
	level.Debug(s.logger).Log("msg", "fine sweep done", "method", s.fine.Name(), "elapsed", time.Since(fineStart))

	run := &Run{
		Partition:    s.part,
		Initial:      x0,
		Mode:         s.opts.Mode,
		Reference:    ref,
		Coarse:       coarse,
		CoarseTracks: tracks,
		Fine:         fine,
		Iterations:   make([]Iteration, 0, s.opts.Iterations),
	}

	switch s.opts.Mode {
	case ModeParareal:
		err = s.iterateParareal(ctx, run)
	default:
		err = s.iterateBlend(run)
	}
	if err != nil {
		return nil, err
	}

	errs := Errors(run)
	level.Info(s.logger).Log(
		"msg", "run complete",
		"mode", s.opts.Mode,
		"intervals", s.part.Count(),
		"iterations", len(run.Iterations),
		"final_error", errs[len(errs)-1],
		"elapsed", time.Since(start),
	)
	return run, nil
}

func (s *Solver) iterateBlend(run *Run) error {
	table := run.ReferenceTable()
	prev := run.Coarse
	n := s.opts.Iterations

	for k := 1; k <= n; k++ {
		next, segs, err := Blend(prev, table, s.part, k, n)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", k, err)
		}
		run.Iterations = append(run.Iterations, Iteration{K: k, Progress: Progress(k, n), Boundary: next, Segments: segs})
		level.Debug(s.logger).Log("msg", "iteration", "k", k, "progress", Progress(k, n))
		prev = next
	}
	return nil
}

func (s *Solver) iterateParareal(ctx context.Context, run *Run) error {
	prev := run.Coarse
	coarseEnds := make([]dynamo.State, s.part.Count())
	copy(coarseEnds, prev[1:])
	fineTracks := run.Fine
	n := s.opts.Iterations

	for k := 1; k <= n; k++ {
		if k > 1 {
			var err error
			fineTracks, err = FineSweep(ctx, s.fine, s.part, prev, s.opts.FineSamples, s.opts.Workers)
			if err != nil {
				return fmt.Errorf("iteration %d: %w", k, err)
			}
		}

		next, predicted, err := Correct(ctx, s.coarse, s.part, prev, ends(fineTracks), coarseEnds, s.opts.CoarseSamples)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", k, err)
		}

		run.Iterations = append(run.Iterations, Iteration{K: k, Progress: Progress(k, n), Boundary: next, Segments: segments(s.part, next)})
		level.Debug(s.logger).Log("msg", "iteration", "k", k, "update", maxDeviation(prev, next))
		prev, coarseEnds = next, predicted
	}
	return nil
}

// Errors returns the largest absolute position deviation from the reference
// over the boundary times, first for the coarse sweep and then for every
// iteration in order.
func Errors(run *Run) []float64 {
	table := run.ReferenceTable()
	errs := make([]float64, 0, len(run.Iterations)+1)
	errs = append(errs, boundaryError(run.Partition, run.Coarse, table))
	for _, it := range run.Iterations {
		errs = append(errs, boundaryError(run.Partition, it.Boundary, table))
	}
	return errs
}

func boundaryError(part Partition, b Boundary, table *propagate.Table) float64 {
	worst := 0.0
	for i, x := range b {
		if len(x) == 0 {
			continue
		}
		d := math.Abs(x[0] - table.Component(0, part.Time(i)))
		worst = math.Max(worst, d)
	}
	return worst
}

func maxDeviation(a, b Boundary) float64 {
	worst := 0.0
	for i := range a {
		if i < len(b) {
			worst = math.Max(worst, a[i].Sub(b[i]).Norm())
		}
	}
	return worst
}
