package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/scene"
)

const svgMargin = 48

type svgProjection struct {
	ax            scene.Axes
	width, height int
}

func (p svgProjection) x(t float64) int {
	w := float64(p.width - 2*svgMargin)
	return svgMargin + int(math.Round((t-p.ax.TMin)/(p.ax.TMax-p.ax.TMin)*w))
}

func (p svgProjection) y(v float64) int {
	h := float64(p.height - 2*svgMargin)
	return svgMargin + int(math.Round((p.ax.YMax-v)/(p.ax.YMax-p.ax.YMin)*h))
}

// WriteSVG renders one frame as vector markup: a polyline per curve, a
// circle per dot and a text element per label.
func WriteSVG(w io.Writer, s *scene.Script, f scene.Frame, width, height int, bg config.RGB) {
	p := svgProjection{ax: s.Axes, width: width, height: height}
	fg := config.NamedColors["WHITE"].Hex()
	muted := config.NamedColors["GREY"].Hex()
	ax := s.Axes

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+bg.Hex())
	canvas.Text(width/2, svgMargin/2, s.Title, "fill:"+fg+";font-family:sans-serif;font-size:16px;text-anchor:middle")
	if f.Subtitle != "" {
		canvas.Text(width/2, height-svgMargin/4, f.Subtitle, "fill:"+fg+";font-family:sans-serif;font-size:12px;text-anchor:middle")
	}

	zero := 0.0
	if zero < ax.YMin || zero > ax.YMax {
		zero = ax.YMin
	}
	canvas.Group("stroke:" + muted + ";stroke-width:1")
	canvas.Line(p.x(ax.TMin), p.y(zero), p.x(ax.TMax), p.y(zero))
	canvas.Line(p.x(ax.TMin), p.y(ax.YMin), p.x(ax.TMin), p.y(ax.YMax))
	canvas.Gend()

	canvas.Group("fill:" + fg + ";font-family:sans-serif;font-size:11px")
	for _, t := range ax.TTicks {
		canvas.Text(p.x(t), p.y(zero)+16, tickLabel(t), "text-anchor:middle")
	}
	for _, v := range ax.YTicks {
		canvas.Text(p.x(ax.TMin)-6, p.y(v)+4, tickLabel(v), "text-anchor:end")
	}
	canvas.Gend()

	for _, c := range f.Curves {
		if c.Opacity <= 0 || len(c.Points) < 2 {
			continue
		}
		xs := make([]int, len(c.Points))
		ys := make([]int, len(c.Points))
		for i, pt := range c.Points {
			xs[i], ys[i] = p.x(pt.T), p.y(pt.Y)
		}
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%.2f;stroke-width:%.1f",
			c.Color.Hex(), c.Opacity, max(c.Width, 1)*0.75)
		if c.Dashed {
			style += ";stroke-dasharray:6 4"
		}
		canvas.Polyline(xs, ys, style)
	}

	for _, d := range f.Dots {
		if d.Opacity <= 0 {
			continue
		}
		canvas.Circle(p.x(d.At.T), p.y(d.At.Y), 5, fmt.Sprintf("fill:%s;fill-opacity:%.2f", d.Color.Hex(), d.Opacity))
	}

	for _, l := range f.Labels {
		if l.Opacity <= 0 {
			continue
		}
		canvas.Text(p.x(l.At.T), p.y(l.At.Y), l.Text,
			fmt.Sprintf("fill:%s;fill-opacity:%.2f;font-family:sans-serif;font-size:13px;text-anchor:middle", l.Color.Hex(), l.Opacity))
	}
	canvas.End()
}

func (e *Exporter) writeSVG(path string, s *scene.Script, f scene.Frame) error {
	return writeFile(path, func(out *os.File) error {
		bw := &errWriter{w: out}
		WriteSVG(bw, s, f, e.opts.Width, e.opts.Height, e.opts.Background)
		return bw.err
	})
}

// errWriter keeps the first write error, since svgo drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func tickLabel(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e6 {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'g', 3, 64)
}
