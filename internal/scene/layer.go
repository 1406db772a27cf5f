package scene

import (
	"math"

	"github.com/san-kum/paraviz/internal/config"
)

// Point is a position in plot coordinates: time on x, position on y.
type Point struct {
	T, Y float64
}

func lerp(a, b, w float64) float64 { return a + (b-a)*w }

func (p Point) lerp(q Point, w float64) Point {
	return Point{T: lerp(p.T, q.T, w), Y: lerp(p.Y, q.Y, w)}
}

type Dot struct {
	At      Point
	Color   config.RGB
	Radius  float64
	Opacity float64
}

type Curve struct {
	Points  []Point
	Color   config.RGB
	Width   float64
	Opacity float64
	Dashed  bool
}

type Label struct {
	At      Point
	Text    string
	Color   config.RGB
	Opacity float64
}

// Prefix returns the first frac of the curve, measured in segments, with the
// last point interpolated. frac is clamped to [0, 1].
func (c Curve) Prefix(frac float64) Curve {
	out := c
	n := len(c.Points)
	if n < 2 || frac >= 1 {
		out.Points = append([]Point(nil), c.Points...)
		return out
	}
	frac = math.Max(0, frac)

	pos := frac * float64(n-1)
	whole := int(pos)
	out.Points = make([]Point, 0, whole+2)
	out.Points = append(out.Points, c.Points[:whole+1]...)
	if rem := pos - float64(whole); rem > 0 {
		out.Points = append(out.Points, c.Points[whole].lerp(c.Points[whole+1], rem))
	}
	return out
}

// Layer is a set of primitives drawn together. Layers are values: every
// method returns a new Layer and never touches the receiver's slices.
type Layer struct {
	Dots   []Dot
	Curves []Curve
	Labels []Label
}

func (l Layer) Empty() bool {
	return len(l.Dots) == 0 && len(l.Curves) == 0 && len(l.Labels) == 0
}

// With returns l drawn underneath the other layers.
func (l Layer) With(others ...Layer) Layer {
	out := Layer{
		Dots:   append([]Dot(nil), l.Dots...),
		Curves: append([]Curve(nil), l.Curves...),
		Labels: append([]Label(nil), l.Labels...),
	}
	for _, o := range others {
		out.Dots = append(out.Dots, o.Dots...)
		out.Curves = append(out.Curves, o.Curves...)
		out.Labels = append(out.Labels, o.Labels...)
	}
	return out
}

// Faded multiplies every opacity by alpha.
func (l Layer) Faded(alpha float64) Layer {
	out := Layer{
		Dots:   make([]Dot, len(l.Dots)),
		Curves: make([]Curve, len(l.Curves)),
		Labels: make([]Label, len(l.Labels)),
	}
	for i, d := range l.Dots {
		d.Opacity *= alpha
		out.Dots[i] = d
	}
	for i, c := range l.Curves {
		c.Opacity *= alpha
		out.Curves[i] = c
	}
	for i, lb := range l.Labels {
		lb.Opacity *= alpha
		out.Labels[i] = lb
	}
	return out
}

// Revealed draws every curve up to frac of its length; dots and labels fade
// in over the same fraction.
func (l Layer) Revealed(frac float64) Layer {
	frac = math.Max(0, math.Min(1, frac))
	out := l.Faded(1)
	for i := range out.Dots {
		out.Dots[i].Opacity = l.Dots[i].Opacity * frac
	}
	for i := range out.Labels {
		out.Labels[i].Opacity = l.Labels[i].Opacity * frac
	}
	for i, c := range l.Curves {
		out.Curves[i] = c.Prefix(frac)
	}
	return out
}

// morphDots moves each dot of from toward the dot at the same index of to.
func morphDots(from, to []Dot, w float64) []Dot {
	out := make([]Dot, len(from))
	for i, d := range from {
		if i < len(to) {
			d.At = d.At.lerp(to[i].At, w)
			d.Opacity = lerp(d.Opacity, to[i].Opacity, w)
		}
		out[i] = d
	}
	return out
}
