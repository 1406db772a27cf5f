package scene

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/dynamo"
	"github.com/san-kum/paraviz/internal/parareal"
)

const (
	DefaultTitle = "Parareal Algorithm Visualization"
	DotRadius    = 0.08
	DefaultDim   = 0.35
)

var ErrEmptyRun = errors.New("scene: run has nothing to draw")

type Options struct {
	FPS       int
	FineSteps int
	YRange    [2]float64
	Title     string
	// Dim is the opacity earlier iterations keep when a new one is drawn.
	Dim float64
}

// OptionsFrom takes the presentation settings from a config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		FPS:       cfg.Render.FPS,
		FineSteps: cfg.FineSteps,
		YRange:    cfg.Render.YRange,
		Title:     DefaultTitle,
		Dim:       DefaultDim,
	}
}

// Axes describes the plot area every frame shares.
type Axes struct {
	TMin, TMax float64
	YMin, YMax float64
	TTicks     []float64
	YTicks     []float64
}

type StageInfo struct {
	Kind     Kind
	K        int
	Subtitle string
	First    int
	Count    int
}

type Script struct {
	Title  string
	FPS    int
	Axes   Axes
	Frames []Frame
	Stages []StageInfo
}

func (s *Script) Len() int { return len(s.Frames) }

func (s *Script) Duration() time.Duration {
	if s.FPS <= 0 {
		return 0
	}
	return time.Duration(len(s.Frames)) * time.Second / time.Duration(s.FPS)
}

// StageOf returns the index into Stages of the stage frame i belongs to.
func (s *Script) StageOf(i int) int {
	for j, st := range s.Stages {
		if i >= st.First && i < st.First+st.Count {
			return j
		}
	}
	if i < 0 || len(s.Stages) == 0 {
		return 0
	}
	return len(s.Stages) - 1
}

// Build expands a solved run into every frame of the animation.
func Build(run *parareal.Run, pal config.Palette, opts Options) (*Script, error) {
	stages, err := Stages(run, pal, opts)
	if err != nil {
		return nil, err
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	sc := &Script{
		Title: title,
		FPS:   opts.FPS,
		Axes:  axesFor(run.Partition, opts.YRange),
	}

	var base Layer
	for _, st := range stages {
		layers := st.Frames(base)
		info := StageInfo{Kind: st.Kind(), K: st.Iteration(), Subtitle: st.Subtitle(), First: len(sc.Frames), Count: len(layers)}
		for _, l := range layers {
			idx := len(sc.Frames)
			sc.Frames = append(sc.Frames, Frame{
				Index:    idx,
				Time:     float64(idx) / float64(opts.FPS),
				Stage:    info.Kind,
				K:        info.K,
				Title:    title,
				Subtitle: info.Subtitle,
				Layer:    l,
			})
		}
		sc.Stages = append(sc.Stages, info)
		base = st.Residue(base)
	}
	return sc, nil
}

// Stages lists the stages of run in play order.
func Stages(run *parareal.Run, pal config.Palette, opts Options) ([]Stage, error) {
	if opts.FPS < 1 {
		return nil, fmt.Errorf("scene: fps must be at least 1, got %d", opts.FPS)
	}
	if opts.FineSteps < 1 {
		return nil, fmt.Errorf("scene: fine steps must be at least 1, got %d", opts.FineSteps)
	}
	if !(opts.YRange[1] > opts.YRange[0]) {
		return nil, fmt.Errorf("scene: y range %v is empty", opts.YRange)
	}
	part := run.Partition
	n := part.Count()
	if n < 1 || len(run.Reference) == 0 || len(run.Coarse) != n+1 || len(run.CoarseTracks) != n || len(run.Fine) != n {
		return nil, ErrEmptyRun
	}
	dim := opts.Dim
	if dim <= 0 || dim > 1 {
		dim = DefaultDim
	}

	c := clock{fps: opts.FPS}
	ref := run.ReferenceTable()
	x0 := run.Initial[0]
	ymin, ymax := opts.YRange[0], opts.YRange[1]

	stages := []Stage{
		&exactStage{clock: c, curve: Curve{Points: points(run.Reference), Color: pal.Exact, Width: 2, Opacity: 0.5}},
	}

	coarse := &coarseStage{clock: c}
	for i, tr := range run.CoarseTracks {
		coarse.dots = append(coarse.dots, dot(part.Time(i), run.Coarse[i][0], pal.Coarse))
		coarse.curves = append(coarse.curves, Curve{Points: points(tr), Color: pal.Coarse, Width: 4, Opacity: 1})
	}
	coarse.dots = append(coarse.dots, dot(part.Horizon(), run.Coarse[n][0], pal.Coarse))
	stages = append(stages, coarse)

	sub := &subdomainStage{clock: c}
	for i := 1; i < n; i++ {
		t := part.Time(i)
		sub.dividers = append(sub.dividers, Curve{
			Points:  []Point{{T: t, Y: ymin}, {T: t, Y: ymax}},
			Color:   pal.Divider,
			Width:   2,
			Opacity: 0.5,
			Dashed:  true,
		})
	}
	stages = append(stages, sub)

	fine := &parallelFineStage{clock: c, steps: opts.FineSteps}
	labelY := ymin + 0.125*(ymax-ymin)
	for i := 0; i <= n; i++ {
		t := part.Time(i)
		fine.starts = append(fine.starts, dot(t, x0, pal.Fine))
		fine.ends = append(fine.ends, dot(t, ref.Component(0, t), pal.Fine))
	}
	for i, tr := range run.Fine {
		iv := part.Interval(i)
		fine.labels = append(fine.labels, Label{
			At:      Point{T: (iv.Start + iv.End) / 2, Y: labelY},
			Text:    fmt.Sprintf("P%d", i+1),
			Color:   pal.Fine,
			Opacity: 1,
		})
		fine.tracks = append(fine.tracks, Curve{Points: points(tr), Color: pal.Fine, Width: 4, Opacity: 1})
	}
	stages = append(stages, fine)

	for _, it := range run.Iterations {
		col := pal.Iteration(it.K)
		var layer Layer
		for _, seg := range it.Segments {
			layer.Dots = append(layer.Dots, dot(seg.Start.T, seg.Start.X[0], col))
			layer.Curves = append(layer.Curves, Curve{
				Points:  []Point{{T: seg.Start.T, Y: seg.Start.X[0]}, {T: seg.End.T, Y: seg.End.X[0]}},
				Color:   col,
				Width:   4,
				Opacity: 1,
			})
		}
		last := it.Boundary[len(it.Boundary)-1]
		layer.Dots = append(layer.Dots, dot(part.Horizon(), last[0], col))
		stages = append(stages, &iterationStage{clock: c, k: it.K, dim: dim, layer: layer})
	}

	stages = append(stages, &convergenceStage{
		clock: c,
		curve: Curve{Points: points(run.Reference), Color: pal.Exact, Width: 3, Opacity: 1},
	})
	return stages, nil
}

func dot(t, y float64, col config.RGB) Dot {
	return Dot{At: Point{T: t, Y: y}, Color: col, Radius: DotRadius, Opacity: 1}
}

func points(tr dynamo.Trajectory) []Point {
	ps := make([]Point, len(tr))
	for i, s := range tr {
		ps[i] = Point{T: s.T, Y: s.X[0]}
	}
	return ps
}

func axesFor(part parareal.Partition, yr [2]float64) Axes {
	ax := Axes{TMin: 0, TMax: part.Horizon(), YMin: yr[0], YMax: yr[1]}

	if part.Count() <= 10 {
		ax.TTicks = part.Boundaries()
	} else {
		ax.TTicks = evenTicks(0, part.Horizon(), 5)
	}

	lo, hi := math.Ceil(yr[0]), math.Floor(yr[1])
	if hi-lo >= 1 && hi-lo <= 8 {
		for y := lo; y <= hi; y++ {
			ax.YTicks = append(ax.YTicks, y)
		}
	} else {
		ax.YTicks = evenTicks(yr[0], yr[1], 4)
	}
	return ax
}

func evenTicks(lo, hi float64, n int) []float64 {
	ts := make([]float64, n+1)
	for i := range ts {
		ts[i] = lo + (hi-lo)*float64(i)/float64(n)
	}
	ts[n] = hi
	return ts
}
