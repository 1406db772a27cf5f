package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/paraviz/internal/config"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of Braille cells, each with one colour. Text written with
// PutText replaces the Braille glyph of its cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]config.RGB
	Text          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]config.RGB, h),
		Text:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]config.RGB, w)
		c.Text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// SetColor sets a pixel and paints its whole cell. The last colour written
// to a cell wins.
func (c *Canvas) SetColor(x, y int, rgb config.RGB) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Set(x, y)
	c.Colors[y/4][x/2] = rgb
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = config.RGB{}
			c.Text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, rgb config.RGB) {
	line(x0, y0, x1, y1, func(x, y, _ int) {
		c.SetColor(x, y, rgb)
	})
}

// DrawDashed draws on pixels on, then skips off pixels, along the line.
func (c *Canvas) DrawDashed(x0, y0, x1, y1, on, off int, rgb config.RGB) {
	period := on + off
	line(x0, y0, x1, y1, func(x, y, i int) {
		if period <= 0 || i%period < on {
			c.SetColor(x, y, rgb)
		}
	})
}

// FillDot draws a filled disc of radius r sub-pixels.
func (c *Canvas) FillDot(cx, cy, r int, rgb config.RGB) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r+r {
				c.SetColor(cx+dx, cy+dy, rgb)
			}
		}
	}
}

// PutText writes s starting at cell (col, row). Characters outside the grid
// are dropped.
func (c *Canvas) PutText(col, row int, s string, rgb config.RGB) {
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range []rune(s) {
		x := col + i
		if x < 0 || x >= c.Width {
			continue
		}
		c.Text[row][x] = r
		c.Colors[row][x] = rgb
	}
}

// Cell returns the glyph shown in a cell.
func (c *Canvas) Cell(col, row int) rune {
	if t := c.Text[row][col]; t != 0 {
		return t
	}
	return c.Grid[row][col]
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col := range c.Grid[row] {
			b.WriteRune(c.Cell(col, row))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the canvas with one lipgloss foreground per run of equally
// coloured cells.
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := range c.Grid {
		var run strings.Builder
		runColor := c.Colors[row][0]
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(runColor.Hex()))
			b.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for col := range c.Grid[row] {
			if c.Colors[row][col] != runColor {
				flush()
				runColor = c.Colors[row][col]
			}
			run.WriteRune(c.Cell(col, row))
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func line(x0, y0, x1, y1 int, plot func(x, y, i int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for i := 0; ; i++ {
		plot(x0, y0, i)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
