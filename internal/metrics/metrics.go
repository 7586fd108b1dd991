// Package metrics summarizes a trace while it runs. Every metric is a
// sim.Observer, so it sees each accepted state exactly once.
package metrics

import (
	"fmt"

	"github.com/san-kum/attractor/internal/sim"
	"github.com/san-kum/attractor/internal/viz"
)

type Metric interface {
	sim.Observer
	Name() string
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every stored run.
func Defaults(axes [2]int, vp viz.Viewport) []Metric {
	return []Metric{
		NewCoverage(axes, vp),
		NewPathLength(axes),
		NewSpread(axes[0]),
		NewSpread(axes[1]),
	}
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

func axisName(i int) string {
	if i < 3 {
		return string("xyz"[i])
	}
	return fmt.Sprintf("x%d", i)
}
