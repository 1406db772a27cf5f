package scene

import (
	"fmt"
	"math"
)

type Kind int

const (
	StageExact Kind = iota
	StageCoarse
	StageSubdomains
	StageParallelFine
	StageIteration
	StageConvergence
)

func (k Kind) String() string {
	switch k {
	case StageExact:
		return "exact"
	case StageCoarse:
		return "coarse"
	case StageSubdomains:
		return "subdomains"
	case StageParallelFine:
		return "parallel-fine"
	case StageIteration:
		return "iteration"
	case StageConvergence:
		return "convergence"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Frame is one complete picture. It owns its Layer; nothing is shared with
// other frames except immutable point slices.
type Frame struct {
	Index    int
	Time     float64
	Stage    Kind
	K        int
	Title    string
	Subtitle string
	Layer
}

// Stage is one step of the script. Frames draws the stage on top of base,
// which is what the previous stage left on screen, and Residue is what this
// stage leaves for the next one.
type Stage interface {
	Kind() Kind
	Iteration() int
	Subtitle() string
	Frames(base Layer) []Layer
	Residue(base Layer) Layer
}

// clock converts durations in seconds to frame counts.
type clock struct {
	fps int
}

func (c clock) beats(sec float64) int {
	n := int(math.Round(sec * float64(c.fps)))
	if n < 1 {
		return 1
	}
	return n
}

// ramp returns n weights rising to exactly 1 on the last one.
func ramp(n int) []float64 {
	ws := make([]float64, n)
	for i := range ws {
		ws[i] = float64(i+1) / float64(n)
	}
	return ws
}

// create reveals layer over sec seconds on top of base.
func (c clock) create(base, layer Layer, sec float64) []Layer {
	ws := ramp(c.beats(sec))
	out := make([]Layer, len(ws))
	for i, w := range ws {
		out[i] = base.With(layer.Revealed(w))
	}
	return out
}

// fadeOut dims layer to nothing over sec seconds on top of base.
func (c clock) fadeOut(base, layer Layer, sec float64) []Layer {
	ws := ramp(c.beats(sec))
	out := make([]Layer, len(ws))
	for i, w := range ws {
		out[i] = base.With(layer.Faded(1 - w))
	}
	return out
}

// hold repeats the same picture for sec seconds.
func (c clock) hold(layer Layer, sec float64) []Layer {
	n := c.beats(sec)
	out := make([]Layer, n)
	for i := range out {
		out[i] = layer
	}
	return out
}
