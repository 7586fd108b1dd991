package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Duffing is the periodically forced oscillator
//
//	dx/dt = v
//	dv/dt = x(1 - x²) - a·v + b·cos(w·t)
type Duffing struct{ a, b, w float64 }

func NewDuffing() *Duffing                    { return &Duffing{a: 0.25, b: 0.3, w: 1.0} }
func (d *Duffing) Name() string               { return "duffing" }
func (d *Duffing) Dim() int                   { return 2 }
func (d *Duffing) Mode() dynamo.Mode          { return dynamo.Integrate }
func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{0.1, 0.1} }

func (d *Duffing) Eval(t float64, y, dy dynamo.State) {
	dy[0] = y[1]
	dy[1] = y[0]*(1.0-y[0]*y[0]) - d.a*y[1] + d.b*math.Cos(d.w*t)
}

func (d *Duffing) Components() []dynamo.ScalarFunc {
	return []dynamo.ScalarFunc{
		func(_ float64, y dynamo.State) float64 { return y[1] },
		func(t float64, y dynamo.State) float64 {
			return y[0]*(1.0-y[0]*y[0]) - d.a*y[1] + d.b*math.Cos(d.w*t)
		},
	}
}

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{"a": d.a, "b": d.b, "w": d.w}
}

func (d *Duffing) SetParam(n string, v float64) error {
	if err := checkParam("duffing", n, v); err != nil {
		return err
	}
	switch n {
	case "a":
		d.a = v
	case "b":
		d.b = v
	case "w":
		d.w = v
	default:
		return fmt.Errorf("%w: duffing has no %q", dynamo.ErrUnknownParam, n)
	}
	return nil
}
