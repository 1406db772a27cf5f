package scene

import (
	"fmt"
)

const (
	exactSubtitle       = "Exact Solution"
	coarseSubtitle      = "Stage 1: Initial Coarse Propagation"
	subdomainsSubtitle  = "Stage 2: Setup Subproblems"
	fineSubtitle        = "Parallel Fine Propagation"
	convergenceSubtitle = "Convergence to Exact Solution"
)

type exactStage struct {
	clock
	curve Curve
}

func (s *exactStage) Kind() Kind       { return StageExact }
func (s *exactStage) Iteration() int   { return 0 }
func (s *exactStage) Subtitle() string { return exactSubtitle }

func (s *exactStage) Frames(base Layer) []Layer {
	return s.create(base, Layer{Curves: []Curve{s.curve}}, 2)
}

func (s *exactStage) Residue(base Layer) Layer {
	return base.With(Layer{Curves: []Curve{s.curve}})
}

// coarseStage draws one interval per second, then the final boundary dot.
type coarseStage struct {
	clock
	dots   []Dot
	curves []Curve
}

func (s *coarseStage) Kind() Kind       { return StageCoarse }
func (s *coarseStage) Iteration() int   { return 0 }
func (s *coarseStage) Subtitle() string { return coarseSubtitle }

func (s *coarseStage) Frames(base Layer) []Layer {
	var out []Layer
	drawn := base
	for i, c := range s.curves {
		piece := Layer{Dots: []Dot{s.dots[i]}, Curves: []Curve{c}}
		out = append(out, s.create(drawn, piece, 1)...)
		drawn = drawn.With(piece)
	}
	last := Layer{Dots: s.dots[len(s.curves):]}
	return append(out, s.create(drawn, last, 1)...)
}

func (s *coarseStage) Residue(base Layer) Layer {
	return base.With(Layer{Dots: s.dots, Curves: s.curves})
}

type subdomainStage struct {
	clock
	dividers []Curve
}

func (s *subdomainStage) Kind() Kind       { return StageSubdomains }
func (s *subdomainStage) Iteration() int   { return 0 }
func (s *subdomainStage) Subtitle() string { return subdomainsSubtitle }

func (s *subdomainStage) Frames(base Layer) []Layer {
	return s.create(base, Layer{Curves: s.dividers}, 2)
}

func (s *subdomainStage) Residue(base Layer) Layer {
	return base.With(Layer{Curves: s.dividers})
}

// parallelFineStage grows every interval's fine solve at the same pace,
// then moves the boundary dots onto the reference and clears the screen.
type parallelFineStage struct {
	clock
	steps  int
	starts []Dot
	ends   []Dot
	labels []Label
	tracks []Curve
}

func (s *parallelFineStage) Kind() Kind       { return StageParallelFine }
func (s *parallelFineStage) Iteration() int   { return 0 }
func (s *parallelFineStage) Subtitle() string { return fineSubtitle }

func (s *parallelFineStage) Frames(base Layer) []Layer {
	dots := Layer{Dots: s.starts}
	labels := Layer{Labels: s.labels}

	out := s.create(base, dots, 1)
	out = append(out, s.create(base.With(dots), labels, 1)...)

	for step := 0; step <= s.steps; step++ {
		progress := float64(step) / float64(s.steps)
		grown := Layer{Curves: make([]Curve, len(s.tracks))}
		for i, tr := range s.tracks {
			grown.Curves[i] = tr.Prefix(progress)
		}
		out = append(out, s.hold(base.With(dots, labels, grown), 0.1)...)
	}

	tracks := Layer{Curves: s.tracks}
	out = append(out, s.fadeOut(base.With(dots, tracks), labels, 1)...)

	for _, w := range ramp(s.beats(1)) {
		moved := Layer{Dots: morphDots(s.starts, s.ends, w)}
		out = append(out, base.With(tracks, moved))
	}

	final := base.With(tracks, Layer{Dots: s.ends})
	return append(out, s.fadeOut(Layer{}, final, 1)...)
}

// Residue is empty: the stage fades out everything, earlier stages included.
func (s *parallelFineStage) Residue(Layer) Layer {
	return Layer{}
}

type iterationStage struct {
	clock
	k     int
	dim   float64
	layer Layer
}

func (s *iterationStage) Kind() Kind     { return StageIteration }
func (s *iterationStage) Iteration() int { return s.k }

func (s *iterationStage) Subtitle() string {
	return fmt.Sprintf("Serial Correction: Iteration %d", s.k)
}

func (s *iterationStage) Frames(base Layer) []Layer {
	prev := base.Faded(s.dim)
	out := s.create(prev, s.layer, 2)
	return append(out, s.hold(prev.With(s.layer), 1)...)
}

func (s *iterationStage) Residue(base Layer) Layer {
	return base.Faded(s.dim).With(s.layer)
}

type convergenceStage struct {
	clock
	curve Curve
}

func (s *convergenceStage) Kind() Kind       { return StageConvergence }
func (s *convergenceStage) Iteration() int   { return 0 }
func (s *convergenceStage) Subtitle() string { return convergenceSubtitle }

func (s *convergenceStage) Frames(base Layer) []Layer {
	layer := Layer{Curves: []Curve{s.curve}}
	out := s.create(base, layer, 2)
	// two seconds on the converged picture, then the closing pause
	return append(out, s.hold(base.With(layer), 4)...)
}

func (s *convergenceStage) Residue(base Layer) Layer {
	return base.With(Layer{Curves: []Curve{s.curve}})
}
