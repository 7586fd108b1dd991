package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/viz"
)

func TestCoverage(t *testing.T) {
	c := NewCoverage([2]int{0, 2}, viz.Viewport{XLeft: -1, XRight: 1, YBottom: -1, YTop: 1})
	if c.Value() != 1 {
		t.Errorf("empty coverage should be 1, got %f", c.Value())
	}

	c.OnStep(0, 0, dynamo.State{0, 99, 0})
	c.OnStep(1, 0, dynamo.State{0.5, 0, -0.5})
	c.OnStep(2, 0, dynamo.State{2, 0, 0})
	c.OnStep(3, 0, dynamo.State{0, 0, -3})

	if c.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", c.Value())
	}
	c.Reset()
	if c.Value() != 1 {
		t.Error("expected reset coverage of 1")
	}
}

func TestPathLength(t *testing.T) {
	p := NewPathLength([2]int{0, 1})
	p.OnStep(0, 0, dynamo.State{0, 0})
	p.OnStep(1, 0, dynamo.State{3, 4})
	p.OnStep(2, 0, dynamo.State{3, 0})

	if p.Value() != 9 {
		t.Errorf("expected 9, got %f", p.Value())
	}
	p.Reset()
	p.OnStep(0, 0, dynamo.State{10, 10})
	if p.Value() != 0 {
		t.Error("first point after reset should add no length")
	}
}

func TestSpread(t *testing.T) {
	xs := []float64{1, 4, -2, 7.5, 0.25, 3}
	s := NewSpread(1)
	for i, x := range xs {
		s.OnStep(i, 0, dynamo.State{0, x})
	}

	mean, std := stat.PopMeanStdDev(xs, nil)
	if math.Abs(s.Mean()-mean) > 1e-12 {
		t.Errorf("expected mean %f, got %f", mean, s.Mean())
	}
	if math.Abs(s.Value()-std) > 1e-12 {
		t.Errorf("expected std %f, got %f", std, s.Value())
	}
	if s.Name() != "spread_y" {
		t.Errorf("unexpected name %s", s.Name())
	}
}

func TestDefaultsCollect(t *testing.T) {
	ms := Defaults([2]int{0, 1}, viz.Viewport{XLeft: -2, XRight: 2, YBottom: -2, YTop: 2})
	for _, m := range ms {
		m.OnStep(0, 0, dynamo.State{1, 1})
	}
	got := Collect(ms)
	for _, name := range []string{"coverage", "path_length", "spread_x", "spread_y"} {
		if _, ok := got[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if got["coverage"] != 1 {
		t.Errorf("expected full coverage, got %f", got["coverage"])
	}
}
