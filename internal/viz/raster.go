package viz

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/paraviz/internal/config"
)

const (
	CellWidth  = 8
	CellHeight = 16
	maxColors  = 256
)

// Rasterize draws the canvas into a paletted image, one CellWidth x
// CellHeight block per cell. Braille dots become filled rectangles and text
// is drawn with a fixed 7x13 face. Colours beyond the palette capacity map to
// the nearest existing entry.
func Rasterize(c *Canvas, background config.RGB) *image.Paletted {
	pal := color.Palette{background.RGBA()}
	index := map[config.RGB]uint8{background: 0}
	lookup := func(rgb config.RGB) uint8 {
		if i, ok := index[rgb]; ok {
			return i
		}
		if len(pal) >= maxColors {
			return uint8(pal.Index(rgb.RGBA()))
		}
		pal = append(pal, rgb.RGBA())
		index[rgb] = uint8(len(pal) - 1)
		return index[rgb]
	}

	// collect colours first so the palette is final before drawing
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if c.Grid[row][col] != blank || c.Text[row][col] != 0 {
				lookup(c.Colors[row][col])
			}
		}
	}

	img := image.NewPaletted(image.Rect(0, 0, c.Width*CellWidth, c.Height*CellHeight), pal)
	dotW, dotH := CellWidth/2, CellHeight/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if c.Text[row][col] != 0 {
				continue
			}
			pattern := int(c.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			ci := lookup(c.Colors[row][col])
			baseX, baseY := col*CellWidth, row*CellHeight
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, ci)
						}
					}
				}
			}
		}
	}

	d := font.Drawer{Dst: img, Face: basicfont.Face7x13}
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r := c.Text[row][col]
			if r == 0 {
				continue
			}
			d.Src = image.NewUniform(c.Colors[row][col].RGBA())
			d.Dot = fixed.P(col*CellWidth, row*CellHeight+12)
			d.DrawString(string(r))
		}
	}
	return img
}

// Recorder collects rasterized frames into an animated GIF.
type Recorder struct {
	Background config.RGB
	// Delay per frame in hundredths of a second.
	Delay  int
	frames []*image.Paletted
}

func NewRecorder(fps int, background config.RGB) *Recorder {
	delay := 100 / max(fps, 1)
	return &Recorder{Background: background, Delay: max(delay, 2)}
}

func (r *Recorder) Capture(c *Canvas) {
	r.frames = append(r.frames, Rasterize(c, r.Background))
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() { r.frames = nil }

func (r *Recorder) Encode(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save writes the recording to path. An empty recording writes nothing.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
