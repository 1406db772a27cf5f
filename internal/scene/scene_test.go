package scene_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/experiment"
	"github.com/san-kum/paraviz/internal/parareal"
	"github.com/san-kum/paraviz/internal/scene"
)

func solve() (*parareal.Run, *config.Config) {
	cfg := config.DefaultConfig()
	exp, err := experiment.New(cfg, nil)
	Expect(err).NotTo(HaveOccurred())
	run, err := exp.Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return run, cfg
}

func opts() scene.Options {
	return scene.Options{FPS: 10, FineSteps: 4, YRange: [2]float64{-2, 2}}
}

var _ = Describe("Layer", func() {
	It("reveals a curve by segments", func() {
		c := scene.Curve{Points: []scene.Point{{T: 0, Y: 0}, {T: 1, Y: 2}, {T: 2, Y: 0}}}
		Expect(c.Prefix(0).Points).To(Equal([]scene.Point{{T: 0, Y: 0}}))
		Expect(c.Prefix(0.25).Points).To(Equal([]scene.Point{{T: 0, Y: 0}, {T: 0.5, Y: 1}}))
		Expect(c.Prefix(0.5).Points).To(Equal([]scene.Point{{T: 0, Y: 0}, {T: 1, Y: 2}}))
		Expect(c.Prefix(1).Points).To(HaveLen(3))
	})

	It("never modifies the receiver", func() {
		l := scene.Layer{Dots: []scene.Dot{{Opacity: 1}}}
		faded := l.Faded(0.5)
		Expect(faded.Dots[0].Opacity).To(Equal(0.5))
		Expect(l.Dots[0].Opacity).To(Equal(1.0))

		joined := l.With(scene.Layer{Dots: []scene.Dot{{Opacity: 0.2}}})
		joined.Dots[0].Opacity = 0
		Expect(l.Dots[0].Opacity).To(Equal(1.0))
		Expect(joined.Dots).To(HaveLen(2))
	})

	It("fades dots and labels in while revealing", func() {
		l := scene.Layer{
			Dots:   []scene.Dot{{Opacity: 1}},
			Labels: []scene.Label{{Opacity: 0.8}},
		}
		half := l.Revealed(0.5)
		Expect(half.Dots[0].Opacity).To(Equal(0.5))
		Expect(half.Labels[0].Opacity).To(BeNumerically("~", 0.4, 1e-12))
		Expect(scene.Layer{}.Empty()).To(BeTrue())
	})
})

var _ = Describe("Build", func() {
	var (
		run    *parareal.Run
		cfg    *config.Config
		script *scene.Script
	)

	BeforeEach(func() {
		run, cfg = solve()
		var err error
		script, err = scene.Build(run, cfg.Palette(), opts())
		Expect(err).NotTo(HaveOccurred())
	})

	It("plays the stages in order", func() {
		kinds := []scene.Kind{}
		ks := []int{}
		for _, st := range script.Stages {
			kinds = append(kinds, st.Kind)
			ks = append(ks, st.K)
		}
		Expect(kinds).To(Equal([]scene.Kind{
			scene.StageExact, scene.StageCoarse, scene.StageSubdomains, scene.StageParallelFine,
			scene.StageIteration, scene.StageIteration, scene.StageIteration, scene.StageConvergence,
		}))
		Expect(ks).To(Equal([]int{0, 0, 0, 0, 1, 2, 3, 0}))
		Expect(script.Stages[5].Subtitle).To(Equal("Serial Correction: Iteration 2"))
		Expect(script.Stages[1].Subtitle).To(Equal("Stage 1: Initial Coarse Propagation"))
	})

	It("times every stage from the frame rate", func() {
		counts := []int{}
		for _, st := range script.Stages {
			counts = append(counts, st.Count)
		}
		Expect(counts).To(Equal([]int{20, 60, 20, 55, 30, 30, 30, 60}))
		Expect(script.Len()).To(Equal(305))
		Expect(script.Duration().Seconds()).To(BeNumerically("~", 30.5, 1e-9))
	})

	It("numbers frames contiguously", func() {
		for i, f := range script.Frames {
			Expect(f.Index).To(Equal(i))
			Expect(f.Title).To(Equal(scene.DefaultTitle))
			Expect(f.Time).To(BeNumerically("~", float64(i)/10, 1e-12))
		}
		for j, st := range script.Stages {
			Expect(script.StageOf(st.First)).To(Equal(j))
			Expect(script.StageOf(st.First + st.Count - 1)).To(Equal(j))
		}
	})

	It("ends the coarse stage with every boundary dot", func() {
		st := script.Stages[1]
		last := script.Frames[st.First+st.Count-1]
		Expect(last.Dots).To(HaveLen(6))
		Expect(last.Curves).To(HaveLen(1 + 5))
		Expect(last.Dots[0].At.Y).To(Equal(1.0))
		Expect(last.Dots[5].At.T).To(Equal(10.0))
	})

	It("adds dashed dividers between intervals", func() {
		st := script.Stages[2]
		last := script.Frames[st.First+st.Count-1]
		dashed := 0
		for _, c := range last.Curves {
			if c.Dashed {
				dashed++
				Expect(c.Points[0].Y).To(Equal(-2.0))
				Expect(c.Points[1].Y).To(Equal(2.0))
			}
		}
		Expect(dashed).To(Equal(4))
	})

	It("starts fine dots at the initial position and clears the screen", func() {
		st := script.Stages[3]
		first := script.Frames[st.First]
		fineDots := first.Dots[len(first.Dots)-6:]
		for _, d := range fineDots {
			Expect(d.At.Y).To(Equal(1.0))
		}

		labelled := script.Frames[st.First+19]
		texts := []string{}
		for _, l := range labelled.Labels {
			texts = append(texts, l.Text)
		}
		Expect(texts).To(Equal([]string{"P1", "P2", "P3", "P4", "P5"}))

		last := script.Frames[st.First+st.Count-1]
		for _, d := range last.Dots {
			Expect(d.Opacity).To(BeZero())
		}
		for _, c := range last.Curves {
			Expect(c.Opacity).To(BeZero())
		}
	})

	It("draws iterations on a cleared screen and dims earlier ones", func() {
		it1 := script.Frames[script.Stages[4].First+script.Stages[4].Count-1]
		Expect(it1.Dots).To(HaveLen(6))
		Expect(it1.Curves).To(HaveLen(5))
		Expect(it1.Dots[0].Color).To(Equal(cfg.Palette().Iteration(1)))

		it2 := script.Frames[script.Stages[5].First+script.Stages[5].Count-1]
		Expect(it2.Dots).To(HaveLen(12))
		Expect(it2.Dots[0].Opacity).To(Equal(scene.DefaultDim))
		Expect(it2.Dots[6].Opacity).To(Equal(1.0))
		Expect(it2.Dots[6].Color).To(Equal(cfg.Palette().Iteration(2)))

		final := run.Iterations[2].Boundary
		it3 := script.Frames[script.Stages[6].First+script.Stages[6].Count-1]
		Expect(it3.Dots[len(it3.Dots)-1].At.Y).To(Equal(final[5][0]))
	})

	It("finishes with the reference at full opacity", func() {
		last := script.Frames[script.Len()-1]
		Expect(last.Stage).To(Equal(scene.StageConvergence))
		top := last.Curves[len(last.Curves)-1]
		Expect(top.Opacity).To(Equal(1.0))
		Expect(top.Points).To(HaveLen(len(run.Reference)))
		Expect(top.Color).To(Equal(cfg.Palette().Exact))
	})

	It("uses the boundaries as time ticks", func() {
		Expect(script.Axes.TTicks).To(Equal([]float64{0, 2, 4, 6, 8, 10}))
		Expect(script.Axes.YTicks).To(Equal([]float64{-2, -1, 0, 1, 2}))
	})

	It("rejects unusable options", func() {
		o := opts()
		o.FPS = 0
		_, err := scene.Build(run, cfg.Palette(), o)
		Expect(err).To(HaveOccurred())

		_, err = scene.Build(&parareal.Run{}, cfg.Palette(), opts())
		Expect(err).To(MatchError(scene.ErrEmptyRun))
	})
})
