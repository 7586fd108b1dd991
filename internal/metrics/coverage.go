package metrics

import (
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/viz"
)

// Coverage is the fraction of states that land inside the viewport. A
// value well below 1 means the picture is cropped.
type Coverage struct {
	axes               [2]int
	xlo, xhi, ylo, yhi float64
	outside, samples   int
}

func NewCoverage(axes [2]int, vp viz.Viewport) *Coverage {
	return &Coverage{
		axes: axes,
		xlo:  math.Min(vp.XLeft, vp.XRight),
		xhi:  math.Max(vp.XLeft, vp.XRight),
		ylo:  math.Min(vp.YBottom, vp.YTop),
		yhi:  math.Max(vp.YBottom, vp.YTop),
	}
}

func (c *Coverage) Name() string { return "coverage" }

func (c *Coverage) OnStep(_ int, _ float64, y dynamo.State) {
	c.samples++
	x, v := y[c.axes[0]], y[c.axes[1]]
	if x < c.xlo || x > c.xhi || v < c.ylo || v > c.yhi {
		c.outside++
	}
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.outside)/float64(c.samples)
}

func (c *Coverage) Reset() {
	c.outside = 0
	c.samples = 0
}
