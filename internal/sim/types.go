package sim

import (
	"math"
	"time"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/viz"
)

// Phase is the tracer's lifecycle state.
type Phase int

const (
	Initializing Phase = iota
	Stepping
	Finalizing
	Done
)

func (p Phase) String() string {
	switch p {
	case Initializing:
		return "initializing"
	case Stepping:
		return "stepping"
	case Finalizing:
		return "finalizing"
	}
	return "done"
}

// Emission selects how each new state is drawn.
type Emission int

const (
	// Segments draws a stroked line from the previous state to the next.
	Segments Emission = iota
	// Stamps draws a short diagonal mark at each new state.
	Stamps
)

// DefaultStampSize is the world-space length of a point stamp.
const DefaultStampSize = 0.001

// StampBatch is how many stamps share one stroke.
const StampBatch = 4096

// ColorPolicy picks the ink for iteration i at time t.
type ColorPolicy func(i int, t float64) viz.Color

// Constant inks every segment with c.
func Constant(c viz.Color) ColorPolicy {
	return func(int, float64) viz.Color { return c }
}

// SinePulse blends from red to blue with intensity |sin(2πt)|.
func SinePulse(alpha float64) ColorPolicy {
	return func(_ int, t float64) viz.Color {
		in := math.Abs(math.Sin(t * 2 * math.Pi))
		return viz.Color{R: 1 - in, G: 0, B: in, A: alpha}
	}
}

type Config struct {
	Iterations int
	StepSize   float64
	Initial    dynamo.State

	Viewport      viz.Viewport
	Width, Height int
	// Axes are the state components drawn as device x and y.
	Axes       [2]int
	Background viz.Color
	// LineWidth is in world units and scaled by the viewport transform.
	LineWidth float64
	Color     ColorPolicy
	Emission  Emission
	StampSize float64

	ValidateState bool
}

// DefaultConfig returns a config that still needs Initial and a viewport.
func DefaultConfig() Config {
	return Config{
		Iterations:    100000,
		StepSize:      0.01,
		Axes:          [2]int{0, 1},
		Background:    viz.White,
		LineWidth:     0.002,
		Color:         Constant(viz.Black),
		StampSize:     DefaultStampSize,
		ValidateState: true,
	}
}

type Result struct {
	System  string
	Bounds  dynamo.Box
	Final   dynamo.State
	Steps   int
	Elapsed time.Duration
}

// Observer sees every accepted state, after the bounding box has absorbed it.
type Observer interface {
	OnStep(i int, t float64, y dynamo.State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(i int, t float64, y dynamo.State)

func (f ObserverFunc) OnStep(i int, t float64, y dynamo.State) { f(i, t, y) }
