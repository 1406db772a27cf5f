// Package export writes animation frames to image files.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/scene"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatGIF Format = "gif"
	FormatSVG Format = "svg"
)

var Formats = []Format{FormatPNG, FormatGIF, FormatSVG}

var ErrUnknownFormat = errors.New("export: unknown format")

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

const (
	DefaultWidth  = 960
	DefaultHeight = 540
	GIFName       = "paraviz.gif"
)

// DefaultBackground matches the dark terminal themes.
var DefaultBackground = config.RGB{R: 0x0a, G: 0x0a, B: 0x0a}

type Options struct {
	Format Format
	Dir    string
	// Every keeps every n-th frame. The last frame is always kept.
	Every int
	// Width and Height are the image size in pixels.
	Width, Height int
	Background    config.RGB
}

type Exporter struct {
	opts   Options
	logger log.Logger
}

func New(opts Options, logger log.Logger) *Exporter {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Every < 1 {
		opts.Every = 1
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Background == (config.RGB{}) {
		opts.Background = DefaultBackground
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Exporter{opts: opts, logger: log.With(logger, "component", "export", "format", string(opts.Format))}
}

// Export writes s into the output directory and returns the paths written.
func (e *Exporter) Export(ctx context.Context, s *scene.Script) ([]string, error) {
	if s.Len() == 0 {
		return nil, scene.ErrEmptyRun
	}
	if err := os.MkdirAll(e.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	start := time.Now()
	frames := Select(s.Frames, e.opts.Every)

	var (
		paths []string
		err   error
	)
	switch e.opts.Format {
	case FormatPNG, FormatSVG:
		paths, err = e.perFrame(ctx, s, frames)
	case FormatGIF:
		var path string
		path, err = e.gif(ctx, s, frames)
		if path != "" {
			paths = []string{path}
		}
	default:
		err = fmt.Errorf("%w %q", ErrUnknownFormat, e.opts.Format)
	}
	if err != nil {
		return paths, err
	}

	level.Info(e.logger).Log("msg", "export done", "frames", len(frames), "files", len(paths), "dir", e.opts.Dir, "elapsed", time.Since(start))
	return paths, nil
}

func (e *Exporter) perFrame(ctx context.Context, s *scene.Script, frames []scene.Frame) ([]string, error) {
	paths := make([]string, 0, len(frames))
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(e.opts.Dir, FrameName(f.Index, e.opts.Format))
		var err error
		if e.opts.Format == FormatPNG {
			err = e.writePNG(path, s, f)
		} else {
			err = e.writeSVG(path, s, f)
		}
		if err != nil {
			return paths, fmt.Errorf("export frame %d: %w", f.Index, err)
		}
		level.Debug(e.logger).Log("msg", "frame written", "frame", f.Index, "stage", f.Stage, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// FrameName is the file name of frame i.
func FrameName(i int, f Format) string {
	return fmt.Sprintf("frame_%05d.%s", i, f)
}

// Select keeps every n-th frame plus the last one.
func Select(frames []scene.Frame, every int) []scene.Frame {
	if every <= 1 {
		return frames
	}
	out := make([]scene.Frame, 0, len(frames)/every+2)
	for i := 0; i < len(frames); i += every {
		out = append(out, frames[i])
	}
	if last := len(frames) - 1; last >= 0 && last%every != 0 {
		out = append(out, frames[last])
	}
	return out
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
