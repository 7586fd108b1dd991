package viz

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

var (
	ErrDegenerateViewport = errors.New("viz: viewport has zero width or height")
	ErrInvalidCanvas      = errors.New("viz: canvas dimensions must be positive")
)

type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Viewport is the world-space rectangle mapped onto the device raster.
//
// Translate is the offset applied after scaling, so the world point
// -Translate lands on the device origin. It defaults to (XRight, YBottom),
// which for a viewport symmetric about zero puts (XLeft, YTop) at the
// top-left pixel.
type Viewport struct {
	XLeft     float64 `yaml:"x_left" json:"x_left"`
	XRight    float64 `yaml:"x_right" json:"x_right"`
	YBottom   float64 `yaml:"y_bottom" json:"y_bottom"`
	YTop      float64 `yaml:"y_top" json:"y_top"`
	Translate *Point  `yaml:"translate,omitempty" json:"translate,omitempty"`
}

func (v Viewport) Validate() error {
	if v.XRight == v.XLeft || v.YTop == v.YBottom {
		return fmt.Errorf("%w: x=[%g,%g] y=[%g,%g]", ErrDegenerateViewport, v.XLeft, v.XRight, v.YBottom, v.YTop)
	}
	return nil
}

func (v Viewport) offset() Point {
	if v.Translate != nil {
		return *v.Translate
	}
	return Point{X: v.XRight, Y: v.YBottom}
}

// Affine maps world coordinates to device pixels: d = S·(p + T).
type Affine struct {
	Sx, Sy float64
	Tx, Ty float64
}

// NewAffine derives the fixed transform for a viewport on a width×height
// raster. The y scale is height/(YBottom-YTop), negative for the usual
// YTop > YBottom, which flips world y up to device y down.
func NewAffine(vp Viewport, width, height int) (Affine, error) {
	if width <= 0 || height <= 0 {
		return Affine{}, fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, width, height)
	}
	if err := vp.Validate(); err != nil {
		return Affine{}, err
	}
	off := vp.offset()
	return Affine{
		Sx: float64(width) / (vp.XRight - vp.XLeft),
		Sy: float64(height) / (vp.YBottom - vp.YTop),
		Tx: off.X,
		Ty: off.Y,
	}, nil
}

func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.Sx * (x + a.Tx), a.Sy * (y + a.Ty)
}

func (a Affine) Invert(dx, dy float64) (float64, float64) {
	return dx/a.Sx - a.Tx, dy/a.Sy - a.Ty
}

// Origin is the world point drawn at device (0,0).
func (a Affine) Origin() Point {
	return Point{X: -a.Tx, Y: -a.Ty}
}

// ScaleLength converts a world-space length, such as a line width, to pixels.
func (a Affine) ScaleLength(w float64) float64 {
	return w * math.Sqrt(math.Abs(a.Sx*a.Sy))
}

// FitViewport returns a viewport enclosing the first two components of box,
// padded by margin (a fraction of each extent), with (XLeft, YTop) at the
// device origin.
func FitViewport(box dynamo.Box, margin float64) Viewport {
	if box.Dim() < 2 {
		return Viewport{XLeft: -1, XRight: 1, YBottom: -1, YTop: 1}
	}
	x0, x1 := box.Min[0], box.Max[0]
	y0, y1 := box.Min[1], box.Max[1]
	dx, dy := x1-x0, y1-y0
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	vp := Viewport{
		XLeft:   x0 - dx*margin,
		XRight:  x1 + dx*margin,
		YBottom: y0 - dy*margin,
		YTop:    y1 + dy*margin,
	}
	vp.Translate = &Point{X: -vp.XLeft, Y: -vp.YTop}
	return vp
}
