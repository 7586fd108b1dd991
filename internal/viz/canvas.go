package viz

import (
	"math"
	"strings"
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

const brailleBlank = 0x2800

// Canvas is a monochrome Braille surface for terminal previews. Its
// pixel resolution is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	penX, penY int
	ink        Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		ink:    White,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// PixelSize is the canvas resolution in sub-pixels.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets a pixel at (x, y) in sub-pixel coordinates.
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

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Count returns the number of lit sub-pixels.
func (c *Canvas) Count() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for p := r - brailleBlank; p != 0; p &= p - 1 {
				n++
			}
		}
	}
	return n
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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

	for {
		c.Set(x0, y0)
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

// Paint clears the canvas; the terminal supplies the background.
func (c *Canvas) Paint(Color) { c.Clear() }

// SetColor records the ink. Dots are monochrome, so only the last ink is
// kept for styling the whole preview.
func (c *Canvas) SetColor(col Color) { c.ink = col }

func (c *Canvas) Ink() Color { return c.ink }

func (c *Canvas) SetLineWidth(float64) {}

func (c *Canvas) MoveTo(x, y float64) {
	c.penX, c.penY = clampPixel(x), clampPixel(y)
}

// LineTo rasterizes immediately; Stroke has nothing left to do.
func (c *Canvas) LineTo(x, y float64) {
	nx, ny := clampPixel(x), clampPixel(y)
	c.DrawLine(c.penX, c.penY, nx, ny)
	c.penX, c.penY = nx, ny
}

func (c *Canvas) Stroke() {}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// clampPixel rounds to the nearest pixel and keeps far off-canvas points
// from making Bresenham walk millions of cells.
func clampPixel(v float64) int {
	const limit = 1 << 16
	if math.IsNaN(v) {
		return -limit
	}
	v = math.Max(-limit, math.Min(limit, math.Round(v)))
	return int(v)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
