package viz

// Surface is the drawing capability the tracer needs. Coordinates are
// device pixels.
type Surface interface {
	Paint(c Color)
	SetColor(c Color)
	SetLineWidth(w float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
}

// Saver is a surface that can persist itself to a file.
type Saver interface {
	Save(path string) error
}
