package sim_test

import "github.com/san-kum/attractor/internal/viz"

type op struct {
	kind  string
	x, y  float64
	color viz.Color
	width float64
}

// recordingSurface logs every drawing call in order.
type recordingSurface struct {
	ops []op
}

func (r *recordingSurface) Paint(c viz.Color)    { r.ops = append(r.ops, op{kind: "paint", color: c}) }
func (r *recordingSurface) SetColor(c viz.Color) { r.ops = append(r.ops, op{kind: "color", color: c}) }
func (r *recordingSurface) SetLineWidth(w float64) {
	r.ops = append(r.ops, op{kind: "width", width: w})
}
func (r *recordingSurface) MoveTo(x, y float64) { r.ops = append(r.ops, op{kind: "move", x: x, y: y}) }
func (r *recordingSurface) LineTo(x, y float64) { r.ops = append(r.ops, op{kind: "line", x: x, y: y}) }
func (r *recordingSurface) Stroke()             { r.ops = append(r.ops, op{kind: "stroke"}) }

func (r *recordingSurface) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}
