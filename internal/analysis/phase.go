package analysis

import (
	"math"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/dynamo"
	"github.com/san-kum/paraviz/internal/viz"
)

// PhasePortrait holds the (x, y) pairs of two state components.
type PhasePortrait struct {
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// NewPhasePortrait pairs components xIdx and yIdx of every sample. It
// returns nil when either index is outside the state.
func NewPhasePortrait(tr dynamo.Trajectory, xIdx, yIdx int) *PhasePortrait {
	if len(tr) == 0 {
		return nil
	}
	if dim := len(tr[0].X); xIdx >= dim || yIdx >= dim || xIdx < 0 || yIdx < 0 {
		return nil
	}
	p := &PhasePortrait{XIndex: xIdx, YIndex: yIdx, Points: make([]struct{ X, Y float64 }, len(tr))}
	for i, s := range tr {
		p.Points[i].X, p.Points[i].Y = s.X[xIdx], s.X[yIdx]
	}
	return p
}

// Bounds is the padded bounding box of the portrait.
func (p *PhasePortrait) Bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = math.Inf(1), math.Inf(-1)
	minY, maxY = math.Inf(1), math.Inf(-1)
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	pad := func(lo, hi float64) (float64, float64) {
		r := hi - lo
		if r == 0 {
			r = 1
		}
		return lo - 0.1*r, hi + 0.1*r
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	return
}

// Render draws the portrait on a Braille canvas of width x height cells,
// with axes through the origin when it is in view. A damped pendulum shows
// as an inward spiral.
func (p *PhasePortrait) Render(width, height int, color bool) string {
	if p == nil || len(p.Points) == 0 {
		return ""
	}
	c := viz.NewCanvas(width, height)
	pw, ph := c.PixelSize()
	minX, maxX, minY, maxY := p.Bounds()
	project := func(x, y float64) (int, int) {
		px := int((x - minX) / (maxX - minX) * float64(pw-1))
		py := ph - 1 - int((y-minY)/(maxY-minY)*float64(ph-1))
		return px, py
	}

	axis := config.NamedColors["GREY"]
	if minX <= 0 && maxX >= 0 {
		x, _ := project(0, 0)
		c.DrawLine(x, 0, x, ph-1, axis)
	}
	if minY <= 0 && maxY >= 0 {
		_, y := project(0, 0)
		c.DrawLine(0, y, pw-1, y, axis)
	}

	trace := config.NamedColors["BLUE"]
	x0, y0 := project(p.Points[0].X, p.Points[0].Y)
	for _, pt := range p.Points[1:] {
		x1, y1 := project(pt.X, pt.Y)
		c.DrawLine(x0, y0, x1, y1, trace)
		x0, y0 = x1, y1
	}

	if color {
		return c.Render()
	}
	return c.String()
}
