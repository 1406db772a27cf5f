package export

import (
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/scene"
)

func nrgba(c config.RGB, opacity float64) color.NRGBA {
	opacity = max(0, min(1, opacity))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(opacity * 255)}
}

func ticks(vals []float64) plot.ConstantTicks {
	out := make(plot.ConstantTicks, len(vals))
	for i, v := range vals {
		out[i] = plot.Tick{Value: v, Label: tickLabel(v)}
	}
	return out
}

// Plot builds the gonum plot of one frame.
func Plot(s *scene.Script, f scene.Frame, bg config.RGB) (*plot.Plot, error) {
	fg := config.NamedColors["WHITE"]
	muted := config.NamedColors["GREY"]

	p := plot.New()
	p.BackgroundColor = bg.RGBA()
	p.Title.Text = s.Title
	if f.Subtitle != "" {
		p.Title.Text += "\n" + f.Subtitle
	}
	p.Title.TextStyle.Color = fg.RGBA()

	ax := s.Axes
	p.X.Min, p.X.Max = ax.TMin, ax.TMax
	p.Y.Min, p.Y.Max = ax.YMin, ax.YMax
	p.X.Label.Text, p.Y.Label.Text = "t", "y"
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		a.Color = muted.RGBA()
		a.Tick.Color = muted.RGBA()
		a.Tick.Label.Color = fg.RGBA()
		a.Label.TextStyle.Color = fg.RGBA()
	}
	p.X.Tick.Marker = ticks(ax.TTicks)
	p.Y.Tick.Marker = ticks(ax.YTicks)

	for _, c := range f.Curves {
		if c.Opacity <= 0 || len(c.Points) < 2 {
			continue
		}
		l, err := plotter.NewLine(xys(c.Points))
		if err != nil {
			return nil, err
		}
		l.Color = nrgba(c.Color, c.Opacity)
		l.Width = vg.Points(max(c.Width, 1) * 0.6)
		if c.Dashed {
			l.Dashes = []vg.Length{vg.Points(5), vg.Points(4)}
		}
		p.Add(l)
	}

	for _, d := range f.Dots {
		if d.Opacity <= 0 {
			continue
		}
		sc, err := plotter.NewScatter(plotter.XYs{{X: d.At.T, Y: d.At.Y}})
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle = draw.GlyphStyle{
			Color:  nrgba(d.Color, d.Opacity),
			Radius: vg.Points(4),
			Shape:  draw.CircleGlyph{},
		}
		p.Add(sc)
	}

	for _, lb := range f.Labels {
		if lb.Opacity <= 0 {
			continue
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: lb.At.T, Y: lb.At.Y}},
			Labels: []string{lb.Text},
		})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = nrgba(lb.Color, lb.Opacity)
			labels.TextStyle[i].XAlign = text.XCenter
		}
		p.Add(labels)
	}
	return p, nil
}

func xys(pts []scene.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		out[i].X, out[i].Y = pt.T, pt.Y
	}
	return out
}

func (e *Exporter) writePNG(path string, s *scene.Script, f scene.Frame) error {
	p, err := Plot(s, f, e.opts.Background)
	if err != nil {
		return err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(e.opts.Width), vg.Length(e.opts.Height)),
		vgimg.UseDPI(72),
		vgimg.UseBackgroundColor(e.opts.Background.RGBA()),
	)
	p.Draw(draw.New(c))
	return writeFile(path, func(out *os.File) error {
		_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(out)
		return err
	})
}
