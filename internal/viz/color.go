package viz

import (
	"fmt"
	"math"
)

// Color is a non-premultiplied RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	cl := func(v float64) float64 { return math.Max(0, math.Min(1, v)) }
	alpha := cl(c.A)
	r = uint32(cl(c.R) * alpha * 0xffff)
	g = uint32(cl(c.G) * alpha * 0xffff)
	b = uint32(cl(c.B) * alpha * 0xffff)
	a = uint32(alpha * 0xffff)
	return
}

// Hex formats the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	to8 := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

// ColorFromSlice builds a color from [r g b] or [r g b a].
func ColorFromSlice(v []float64) (Color, error) {
	switch len(v) {
	case 3:
		return Color{v[0], v[1], v[2], 1}, nil
	case 4:
		return Color{v[0], v[1], v[2], v[3]}, nil
	}
	return Color{}, fmt.Errorf("viz: color needs 3 or 4 components, got %d", len(v))
}
