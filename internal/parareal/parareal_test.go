package parareal_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/dynamo"
	"github.com/san-kum/paraviz/internal/integrators"
	"github.com/san-kum/paraviz/internal/parareal"
	"github.com/san-kum/paraviz/internal/physics"
	"github.com/san-kum/paraviz/internal/propagate"
	"github.com/san-kum/paraviz/internal/scene"
)

type failing struct{ after int }

func (f *failing) Name() string { return "failing" }

func (f *failing) Propagate(ctx context.Context, span propagate.Interval, x0 dynamo.State, samples int) (dynamo.Trajectory, error) {
	if span.Start >= float64(f.after) {
		return nil, dynamo.ErrStepTooSmall
	}
	return dynamo.Trajectory{{T: span.Start, X: x0.Clone()}, {T: span.End, X: x0.Clone()}}, nil
}

func cloneTrajectory(tr dynamo.Trajectory) dynamo.Trajectory {
	out := make(dynamo.Trajectory, len(tr))
	for i, smp := range tr {
		out[i] = dynamo.Sample{T: smp.T, X: smp.X.Clone()}
	}
	return out
}

func propagators() (coarse, fine propagate.Propagator) {
	sys := physics.NewDampedPendulum()
	coarse = propagate.NewFixed("rk4", sys, func() dynamo.Integrator { return integrators.NewRK4() }, 1)
	fine = propagate.NewAdaptive("rk45", sys, integrators.NewRK45(0, 0))
	return coarse, fine
}

func defaultOptions() parareal.Options {
	return parareal.Options{
		Horizon:       10,
		Intervals:     5,
		Iterations:    3,
		Initial:       dynamo.State{1, 0},
		Mode:          parareal.ModeBlend,
		CoarseSamples: 20,
		FineSamples:   100,
		ExactSamples:  200,
	}
}

var _ = Describe("Partition", func() {
	It("places boundaries evenly with the last exactly at the horizon", func() {
		part, err := parareal.NewPartition(10, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(part.Boundaries()).To(Equal([]float64{0, 2, 4, 6, 8, 10}))
		Expect(part.Width()).To(Equal(2.0))
		Expect(part.Interval(2)).To(Equal(propagate.Interval{Start: 4, End: 6}))
	})

	It("ends exactly on an awkward horizon", func() {
		part, err := parareal.NewPartition(1, 3)
		Expect(err).NotTo(HaveOccurred())
		bs := part.Boundaries()
		Expect(bs).To(HaveLen(4))
		Expect(bs[3]).To(Equal(1.0))
	})

	It("returns a copy of the boundaries", func() {
		part, _ := parareal.NewPartition(10, 5)
		bs := part.Boundaries()
		bs[1] = 99
		Expect(part.Boundaries()[1]).To(Equal(2.0))
	})

	DescribeTable("rejects invalid input",
		func(horizon float64, count int, want error) {
			_, err := parareal.NewPartition(horizon, count)
			Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)
		},
		Entry("zero count", 10.0, 0, parareal.ErrInvalidCount),
		Entry("negative count", 10.0, -2, parareal.ErrInvalidCount),
		Entry("zero horizon", 0.0, 5, parareal.ErrInvalidHorizon),
		Entry("NaN horizon", math.NaN(), 5, parareal.ErrInvalidHorizon),
		Entry("infinite horizon", math.Inf(1), 5, parareal.ErrInvalidHorizon),
	)
})

var _ = Describe("Progress", func() {
	It("caps the last iteration at 0.95", func() {
		Expect(parareal.Progress(1, 3)).To(BeNumerically("~", 1.0/3, 1e-15))
		Expect(parareal.Progress(2, 3)).To(BeNumerically("~", 2.0/3, 1e-15))
		Expect(parareal.Progress(3, 3)).To(Equal(0.95))
	})

	It("never reaches 1", func() {
		for n := 1; n <= 10; n++ {
			for k := 1; k <= n+2; k++ {
				Expect(parareal.Progress(k, n)).To(BeNumerically("<", 1))
			}
		}
	})

	It("is zero for degenerate input", func() {
		Expect(parareal.Progress(0, 3)).To(BeZero())
		Expect(parareal.Progress(1, 0)).To(BeZero())
	})
})

var _ = Describe("Sweeps", func() {
	var (
		ctx          context.Context
		part         parareal.Partition
		coarse, fine propagate.Propagator
		x0           dynamo.State
	)

	BeforeEach(func() {
		ctx = context.Background()
		part, _ = parareal.NewPartition(10, 5)
		coarse, fine = propagators()
		x0 = dynamo.State{1, 0}
	})

	It("starts the reference at the initial condition", func() {
		ref, err := parareal.Reference(ctx, fine, part, x0, 200)
		Expect(err).NotTo(HaveOccurred())
		Expect(ref).To(HaveLen(200))
		Expect(ref[0].T).To(Equal(0.0))
		Expect(ref[0].X).To(Equal(x0))
		Expect(ref.Last().T).To(Equal(10.0))
	})

	It("chains the coarse sweep across intervals", func() {
		b, tracks, err := parareal.CoarseSweep(ctx, coarse, part, x0, 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(HaveLen(6))
		Expect(b[0]).To(Equal(dynamo.State{1.0, 0.0}))
		Expect(tracks).To(HaveLen(5))
		for i, tr := range tracks {
			Expect(tr).To(HaveLen(20))
			Expect(tr[0].X).To(Equal(b[i]))
			Expect(tr.Last().X).To(Equal(b[i+1]))
		}
	})

	It("is deterministic", func() {
		a, _, err := parareal.CoarseSweep(ctx, coarse, part, x0, 20)
		Expect(err).NotTo(HaveOccurred())
		b, _, err := parareal.CoarseSweep(ctx, coarse, part, x0, 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("keeps fine results in interval order", func() {
		starts, _, err := parareal.CoarseSweep(ctx, coarse, part, x0, 20)
		Expect(err).NotTo(HaveOccurred())

		tracks, err := parareal.FineSweep(ctx, fine, part, starts, 50, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(tracks).To(HaveLen(5))
		for i, tr := range tracks {
			Expect(tr[0].T).To(Equal(part.Time(i)))
			Expect(tr[0].X).To(Equal(starts[i]))
			Expect(tr.Last().T).To(Equal(part.Time(i + 1)))
		}

		serial, err := parareal.FineSweep(ctx, fine, part, starts, 50, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(serial).To(Equal(tracks))
	})

	It("reports the failing interval", func() {
		_, _, err := parareal.CoarseSweep(ctx, &failing{after: 4}, part, x0, 20)
		Expect(err).To(MatchError(ContainSubstring("coarse interval 2")))
		Expect(errors.Is(err, dynamo.ErrStepTooSmall)).To(BeTrue())

		_, err = parareal.FineSweep(ctx, &failing{after: 6}, part, parareal.Boundary{x0, x0, x0, x0, x0, x0}, 20, 0)
		Expect(errors.Is(err, dynamo.ErrStepTooSmall)).To(BeTrue())
	})
})

var _ = Describe("Blend", func() {
	var (
		part  parareal.Partition
		table *propagate.Table
		prev  parareal.Boundary
	)

	BeforeEach(func() {
		part, _ = parareal.NewPartition(4, 2)
		table = propagate.NewTable(dynamo.Trajectory{
			{T: 0, X: dynamo.State{1, 0}},
			{T: 4, X: dynamo.State{5, 8}},
		})
		prev = parareal.Boundary{{1, 0}, {0, 0}, {0, 0}}
	})

	It("moves each boundary toward the reference by the progress weight", func() {
		next, segs, err := parareal.Blend(prev, table, part, 1, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(next).To(HaveLen(3))
		Expect(next[0]).To(Equal(dynamo.State{1, 0}))
		// reference at t=2 is (3, 4), at t=4 is (5, 8); progress is 0.5
		Expect(next[1][0]).To(BeNumerically("~", 1.5, 1e-12))
		Expect(next[1][1]).To(BeNumerically("~", 2, 1e-12))
		Expect(next[2][0]).To(BeNumerically("~", 2.5, 1e-12))
		Expect(next[2][1]).To(BeNumerically("~", 4, 1e-12))

		Expect(segs).To(HaveLen(2))
		Expect(segs[1].Start.X).To(Equal(next[1]))
		Expect(segs[1].Start.T).To(Equal(2.0))
		Expect(segs[1].At(3)).To(BeNumerically("~", 2, 1e-12))
	})

	It("does not modify its input", func() {
		snapshot := prev.Clone()
		_, _, err := parareal.Blend(prev, table, part, 2, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(prev).To(Equal(snapshot))
	})

	It("rejects a boundary of the wrong length", func() {
		_, _, err := parareal.Blend(prev[:2], table, part, 1, 2)
		Expect(errors.Is(err, parareal.ErrBoundaryLength)).To(BeTrue())
	})
})

var _ = Describe("Solver", func() {
	var (
		ctx          context.Context
		coarse, fine propagate.Propagator
	)

	BeforeEach(func() {
		ctx = context.Background()
		coarse, fine = propagators()
	})

	It("validates options", func() {
		opts := defaultOptions()
		opts.Intervals = 0
		_, err := parareal.NewSolver(coarse, fine, fine, opts, nil)
		Expect(errors.Is(err, parareal.ErrInvalidCount)).To(BeTrue())

		opts = defaultOptions()
		opts.Iterations = 0
		_, err = parareal.NewSolver(coarse, fine, fine, opts, nil)
		Expect(errors.Is(err, parareal.ErrInvalidIteration)).To(BeTrue())

		opts = defaultOptions()
		opts.Mode = "magic"
		_, err = parareal.NewSolver(coarse, fine, fine, opts, nil)
		Expect(err).To(HaveOccurred())
	})

	Context("in blend mode", func() {
		var run *parareal.Run

		BeforeEach(func() {
			s, err := parareal.NewSolver(coarse, fine, fine, defaultOptions(), nil)
			Expect(err).NotTo(HaveOccurred())
			run, err = s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("produces one boundary sequence per iteration", func() {
			Expect(run.Coarse).To(HaveLen(6))
			Expect(run.CoarseTracks).To(HaveLen(5))
			Expect(run.Fine).To(HaveLen(5))
			Expect(run.Iterations).To(HaveLen(3))
			for i, it := range run.Iterations {
				Expect(it.K).To(Equal(i + 1))
				Expect(it.Boundary).To(HaveLen(6))
				Expect(it.Boundary[0]).To(Equal(dynamo.State{1.0, 0.0}))
				Expect(it.Segments).To(HaveLen(5))
			}
		})

		It("records the capped progress values", func() {
			ps := []float64{}
			for _, it := range run.Iterations {
				ps = append(ps, it.Progress)
			}
			Expect(ps[0]).To(BeNumerically("~", 1.0/3, 1e-15))
			Expect(ps[1]).To(BeNumerically("~", 2.0/3, 1e-15))
			Expect(ps[2]).To(Equal(0.95))
		})

		It("approaches the reference without reaching it", func() {
			errs := parareal.Errors(run)
			Expect(errs).To(HaveLen(4))
			for i := 1; i < len(errs); i++ {
				Expect(errs[i]).To(BeNumerically("<=", errs[i-1]))
			}
			// each iteration keeps (1-progress) of the previous deviation
			Expect(errs[3]).To(BeNumerically("~", (2.0/3)*(1.0/3)*0.05*errs[0], 1e-9))
			Expect(errs[3]).To(BeNumerically(">", 0))
			Expect(run.Final()).To(Equal(run.Iterations[2].Boundary))
		})

		It("leaves the reference and coarse boundary untouched by consumers", func() {
			ref := cloneTrajectory(run.Reference)
			coarseBoundary := run.Coarse.Clone()

			parareal.Errors(run)
			table := run.ReferenceTable()
			table.At(5)
			cfg := config.DefaultConfig()
			_, err := scene.Build(run, cfg.Palette(), scene.Options{FPS: 10, FineSteps: 4, YRange: [2]float64{-2, 2}})
			Expect(err).NotTo(HaveOccurred())

			Expect(run.Reference).To(Equal(ref))
			Expect(run.Coarse).To(Equal(coarseBoundary))
		})

		It("leaves the reference at the initial condition", func() {
			Expect(run.Reference[0].X).To(Equal(dynamo.State{1.0, 0.0}))
			Expect(run.Reference).To(HaveLen(200))
		})
	})

	Context("in parareal mode", func() {
		It("matches the serial fine solution after one iteration per interval", func() {
			opts := defaultOptions()
			opts.Mode = parareal.ModeParareal
			opts.Iterations = opts.Intervals

			s, err := parareal.NewSolver(coarse, fine, fine, opts, nil)
			Expect(err).NotTo(HaveOccurred())
			run, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			serial, _, err := parareal.CoarseSweep(ctx, fine, s.Partition(), opts.Initial, opts.FineSamples)
			Expect(err).NotTo(HaveOccurred())

			final := run.Final()
			for i := range serial {
				Expect(final[i][0]).To(BeNumerically("~", serial[i][0], 1e-9))
				Expect(final[i][1]).To(BeNumerically("~", serial[i][1], 1e-9))
			}
		})

		It("fixes one more boundary per iteration", func() {
			opts := defaultOptions()
			opts.Mode = parareal.ModeParareal
			opts.Iterations = 2

			s, err := parareal.NewSolver(coarse, fine, fine, opts, nil)
			Expect(err).NotTo(HaveOccurred())
			run, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			serial, _, err := parareal.CoarseSweep(ctx, fine, s.Partition(), opts.Initial, opts.FineSamples)
			Expect(err).NotTo(HaveOccurred())

			for k, it := range run.Iterations {
				Expect(it.Boundary[0]).To(Equal(opts.Initial))
				for i := 1; i <= k+1; i++ {
					Expect(it.Boundary[i][0]).To(BeNumerically("~", serial[i][0], 1e-9))
				}
			}
		})
	})
})
