package physics

import (
	"fmt"

	"github.com/san-kum/attractor/internal/dynamo"
)

type Rossler struct{ a, b, c float64 }

func NewRossler() *Rossler                    { return &Rossler{0.2, 0.2, 5.7} }
func (r *Rossler) Name() string               { return "rossler" }
func (r *Rossler) Dim() int                   { return 3 }
func (r *Rossler) Mode() dynamo.Mode          { return dynamo.Integrate }
func (r *Rossler) DefaultState() dynamo.State { return dynamo.State{0.1, 0.1, 0.1} }

// Eval calculates the Rossler attractor derivatives.
func (r *Rossler) Eval(_ float64, s, ds dynamo.State) {
	ds[0] = -(s[1] + s[2])
	ds[1] = s[0] + r.a*s[1]
	ds[2] = r.b + s[2]*(s[0]-r.c)
}

func (r *Rossler) Components() []dynamo.ScalarFunc {
	return []dynamo.ScalarFunc{
		func(_ float64, s dynamo.State) float64 { return -(s[1] + s[2]) },
		func(_ float64, s dynamo.State) float64 { return s[0] + r.a*s[1] },
		func(_ float64, s dynamo.State) float64 { return r.b + s[2]*(s[0]-r.c) },
	}
}

func (r *Rossler) GetParams() map[string]float64 {
	return map[string]float64{"a": r.a, "b": r.b, "c": r.c}
}

func (r *Rossler) SetParam(n string, v float64) error {
	if err := checkParam("rossler", n, v); err != nil {
		return err
	}
	switch n {
	case "a":
		r.a = v
	case "b":
		r.b = v
	case "c":
		r.c = v
	default:
		return fmt.Errorf("%w: rossler has no %q", dynamo.ErrUnknownParam, n)
	}
	return nil
}
