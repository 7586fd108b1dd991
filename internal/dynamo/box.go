package dynamo

import (
	"fmt"
	"strings"
)

var axisNames = []string{"x", "y", "z", "w"}

// Box is the tightest axis-aligned box around every state it has seen.
type Box struct {
	Min, Max State
}

// NewBox seeds a box with a single point.
func NewBox(s State) Box {
	return Box{Min: s.Clone(), Max: s.Clone()}
}

func (b Box) Dim() int { return len(b.Min) }

// Extend widens the box to include s. Only the first Dim components are read.
func (b Box) Extend(s State) {
	for j := range b.Min {
		v := s[j]
		if v < b.Min[j] {
			b.Min[j] = v
		}
		if v > b.Max[j] {
			b.Max[j] = v
		}
	}
}

func (b Box) Contains(s State) bool {
	if len(s) < len(b.Min) {
		return false
	}
	for j := range b.Min {
		if s[j] < b.Min[j] || s[j] > b.Max[j] {
			return false
		}
	}
	return true
}

func (b Box) Clone() Box {
	return Box{Min: b.Min.Clone(), Max: b.Max.Clone()}
}

// Project returns the 2-D box over components i and j.
func (b Box) Project(i, j int) Box {
	return Box{Min: State{b.Min[i], b.Min[j]}, Max: State{b.Max[i], b.Max[j]}}
}

// String formats the box as x={min,max} y={min,max} ...
func (b Box) String() string {
	parts := make([]string, len(b.Min))
	for j := range b.Min {
		name := fmt.Sprintf("x%d", j)
		if j < len(axisNames) {
			name = axisNames[j]
		}
		parts[j] = fmt.Sprintf("%s={%.2f,%.2f}", name, b.Min[j], b.Max[j])
	}
	return strings.Join(parts, " ")
}
