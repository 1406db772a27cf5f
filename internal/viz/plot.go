package viz

import (
	"math"
	"strconv"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/scene"
)

const (
	gutter     = 5 // text columns left of the plot for y tick labels
	minOpacity = 0.05
)

// Plot draws scene frames onto a Canvas, mapping (t, y) plot coordinates to
// sub-pixels inside the axes.
type Plot struct {
	canvas    *Canvas
	axes      scene.Axes
	AxisColor config.RGB
	TextColor config.RGB
}

func NewPlot(width, height int, axes scene.Axes) *Plot {
	return &Plot{
		canvas:    NewCanvas(width, height),
		axes:      axes,
		AxisColor: config.NamedColors["GREY"],
		TextColor: config.NamedColors["WHITE"],
	}
}

func (p *Plot) Canvas() *Canvas { return p.canvas }

// area is the plot rectangle in sub-pixels. The bottom text row holds the
// time tick labels.
func (p *Plot) area() (left, top, right, bottom int) {
	w, h := p.canvas.PixelSize()
	return min(gutter*2, w-1), 0, w - 1, max(0, h-5)
}

// Project maps plot coordinates to sub-pixels. Points outside the axes map
// outside the plot area and are clipped by the canvas.
func (p *Plot) Project(t, y float64) (int, int) {
	left, top, right, bottom := p.area()
	ax := p.axes
	fx := (t - ax.TMin) / (ax.TMax - ax.TMin)
	fy := (ax.YMax - y) / (ax.YMax - ax.YMin)
	return left + int(math.Round(fx*float64(right-left))), top + int(math.Round(fy*float64(bottom-top)))
}

// Draw clears the canvas and draws the axes and every primitive of f.
func (p *Plot) Draw(f scene.Frame) *Canvas {
	p.canvas.Clear()
	p.drawAxes()

	for _, c := range f.Curves {
		if c.Opacity < minOpacity || len(c.Points) == 0 {
			continue
		}
		rgb := c.Color.Scale(c.Opacity)
		x0, y0 := p.Project(c.Points[0].T, c.Points[0].Y)
		if len(c.Points) == 1 {
			p.canvas.SetColor(x0, y0, rgb)
		}
		for _, pt := range c.Points[1:] {
			x1, y1 := p.Project(pt.T, pt.Y)
			if c.Dashed {
				p.canvas.DrawDashed(x0, y0, x1, y1, 3, 3, rgb)
			} else {
				p.canvas.DrawLine(x0, y0, x1, y1, rgb)
			}
			x0, y0 = x1, y1
		}
	}

	for _, d := range f.Dots {
		if d.Opacity < minOpacity {
			continue
		}
		x, y := p.Project(d.At.T, d.At.Y)
		p.canvas.FillDot(x, y, 1, d.Color.Scale(d.Opacity))
	}

	for _, l := range f.Labels {
		if l.Opacity < minOpacity {
			continue
		}
		x, y := p.Project(l.At.T, l.At.Y)
		p.canvas.PutText(x/2-len(l.Text)/2, y/4, l.Text, l.Color.Scale(l.Opacity))
	}
	return p.canvas
}

func (p *Plot) drawAxes() {
	left, top, right, bottom := p.area()
	ax := p.axes

	zeroY := 0.0
	if zeroY < ax.YMin || zeroY > ax.YMax {
		zeroY = ax.YMin
	}
	_, yAxis := p.Project(ax.TMin, zeroY)
	p.canvas.DrawLine(left, yAxis, right, yAxis, p.AxisColor)
	p.canvas.DrawLine(left, top, left, bottom, p.AxisColor)

	labelRow := p.canvas.Height - 1
	for _, t := range ax.TTicks {
		x, _ := p.Project(t, zeroY)
		p.canvas.DrawLine(x, yAxis-1, x, yAxis+1, p.AxisColor)
		s := tickLabel(t)
		p.canvas.PutText(x/2-len(s)/2, labelRow, s, p.TextColor)
	}
	for _, y := range ax.YTicks {
		_, py := p.Project(ax.TMin, y)
		p.canvas.DrawLine(left-1, py, left+1, py, p.AxisColor)
		s := tickLabel(y)
		p.canvas.PutText(gutter-1-len(s), py/4, s, p.TextColor)
	}
}

func tickLabel(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e6 {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'g', 3, 64)
}
