package physics

import (
	"fmt"

	"github.com/san-kum/attractor/internal/dynamo"
)

type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz() *Lorenz                     { return &Lorenz{10.0, 28.0, 8.0 / 3.0} }
func (l *Lorenz) Name() string               { return "lorenz" }
func (l *Lorenz) Dim() int                   { return 3 }
func (l *Lorenz) Mode() dynamo.Mode          { return dynamo.Integrate }
func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{0.1, 0.1, 0.1} }

// Eval calculates the Lorenz attractor derivatives. The system is autonomous.
func (l *Lorenz) Eval(_ float64, s, ds dynamo.State) {
	ds[0] = l.sigma * (s[1] - s[0])
	ds[1] = s[0]*(l.rho-s[2]) - s[1]
	ds[2] = s[0]*s[1] - l.beta*s[2]
}

func (l *Lorenz) Components() []dynamo.ScalarFunc {
	return []dynamo.ScalarFunc{
		func(_ float64, s dynamo.State) float64 { return l.sigma * (s[1] - s[0]) },
		func(_ float64, s dynamo.State) float64 { return s[0]*(l.rho-s[2]) - s[1] },
		func(_ float64, s dynamo.State) float64 { return s[0]*s[1] - l.beta*s[2] },
	}
}

// GetParams uses the a, b, c names of the tracing presets for sigma, rho, beta.
func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"a": l.sigma, "b": l.rho, "c": l.beta}
}

func (l *Lorenz) SetParam(n string, v float64) error {
	if err := checkParam("lorenz", n, v); err != nil {
		return err
	}
	switch n {
	case "a", "sigma":
		l.sigma = v
	case "b", "rho":
		l.rho = v
	case "c", "beta":
		l.beta = v
	default:
		return fmt.Errorf("%w: lorenz has no %q", dynamo.ErrUnknownParam, n)
	}
	return nil
}
