package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

// DeJong is the Peter de Jong map
//
//	x' = sin(a·y) - cos(b·x)
//	y' = sin(c·x) - cos(d·y)
//
// It is iterated directly, never integrated.
type DeJong struct{ a, b, c, d float64 }

func NewDeJong() *DeJong                     { return &DeJong{-2, -2, -1.2, 2} }
func (p *DeJong) Name() string               { return "dejong" }
func (p *DeJong) Dim() int                   { return 2 }
func (p *DeJong) Mode() dynamo.Mode          { return dynamo.Iterate }
func (p *DeJong) DefaultState() dynamo.State { return dynamo.State{0.5, 0.5} }

func (p *DeJong) Next(s, next dynamo.State) {
	x, y := s[0], s[1]
	next[0] = math.Sin(p.a*y) - math.Cos(p.b*x)
	next[1] = math.Sin(p.c*x) - math.Cos(p.d*y)
}

func (p *DeJong) GetParams() map[string]float64 {
	return map[string]float64{"a": p.a, "b": p.b, "c": p.c, "d": p.d}
}

func (p *DeJong) SetParam(n string, v float64) error {
	if err := checkParam("dejong", n, v); err != nil {
		return err
	}
	switch n {
	case "a":
		p.a = v
	case "b":
		p.b = v
	case "c":
		p.c = v
	case "d":
		p.d = v
	default:
		return fmt.Errorf("%w: dejong has no %q", dynamo.ErrUnknownParam, n)
	}
	return nil
}
