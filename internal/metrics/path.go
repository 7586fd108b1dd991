package metrics

import (
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

// PathLength is the world-space length of the drawn polyline.
type PathLength struct {
	axes   [2]int
	px, py float64
	seen   bool
	total  float64
}

func NewPathLength(axes [2]int) *PathLength { return &PathLength{axes: axes} }

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) OnStep(_ int, _ float64, y dynamo.State) {
	x, v := y[p.axes[0]], y[p.axes[1]]
	if p.seen {
		p.total += math.Hypot(x-p.px, v-p.py)
	}
	p.px, p.py, p.seen = x, v, true
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() {
	p.total = 0
	p.seen = false
}

// Spread is the standard deviation of one component, by Welford's method.
type Spread struct {
	k        int
	n        int
	mean, m2 float64
}

func NewSpread(k int) *Spread { return &Spread{k: k} }

func (s *Spread) Name() string { return "spread_" + axisName(s.k) }

func (s *Spread) OnStep(_ int, _ float64, y dynamo.State) {
	s.n++
	v := y[s.k]
	d := v - s.mean
	s.mean += d / float64(s.n)
	s.m2 += d * (v - s.mean)
}

func (s *Spread) Mean() float64 { return s.mean }

func (s *Spread) Value() float64 {
	if s.n < 2 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.n))
}

func (s *Spread) Reset() { *s = Spread{k: s.k} }
