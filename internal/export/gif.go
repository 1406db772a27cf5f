package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-kit/log/level"

	"github.com/san-kum/paraviz/internal/scene"
	"github.com/san-kum/paraviz/internal/viz"
)

// gif rasterizes the selected frames of s into one animated GIF. The frame
// delay stretches with Every so playback keeps the script's pace.
func (e *Exporter) gif(ctx context.Context, s *scene.Script, frames []scene.Frame) (string, error) {
	cols := max(e.opts.Width/viz.CellWidth, 8)
	rows := max(e.opts.Height/viz.CellHeight, 4)
	plot := viz.NewPlot(cols, rows, s.Axes)

	rec := viz.NewRecorder(s.FPS, e.opts.Background)
	rec.Delay *= e.opts.Every
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		rec.Capture(plot.Draw(f))
	}

	path := filepath.Join(e.opts.Dir, GIFName)
	err := writeFile(path, func(out *os.File) error { return rec.Encode(out) })
	if err != nil {
		return "", err
	}
	level.Debug(e.logger).Log("msg", "gif encoded", "frames", rec.Len(), "path", path)
	return path, nil
}
