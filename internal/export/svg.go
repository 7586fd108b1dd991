package export

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/attractor/internal/viz"
)

var ErrOutputWrite = errors.New("export: cannot write output")

type stroke struct {
	color viz.Color
	width float64
	d     strings.Builder
}

// SVG is a vector surface. Consecutive strokes sharing color and width are
// merged into one path element.
type SVG struct {
	Width, Height int

	background *viz.Color
	color      viz.Color
	lineWidth  float64
	pending    strings.Builder
	strokes    []*stroke
}

func NewSVG(width, height int) *SVG {
	return &SVG{Width: width, Height: height, color: viz.Black, lineWidth: 1}
}

func (s *SVG) Paint(c viz.Color) {
	s.background = &c
	s.strokes = nil
	s.pending.Reset()
}

func (s *SVG) SetColor(c viz.Color)   { s.color = c }
func (s *SVG) SetLineWidth(w float64) { s.lineWidth = w }
func (s *SVG) MoveTo(x, y float64)    { fmt.Fprintf(&s.pending, "M%.2f,%.2f", x, y) }
func (s *SVG) LineTo(x, y float64)    { fmt.Fprintf(&s.pending, "L%.2f,%.2f", x, y) }

func (s *SVG) Stroke() {
	if s.pending.Len() == 0 {
		return
	}
	var last *stroke
	if n := len(s.strokes); n > 0 {
		last = s.strokes[n-1]
	}
	if last == nil || last.color != s.color || last.width != s.lineWidth {
		last = &stroke{color: s.color, width: s.lineWidth}
		s.strokes = append(s.strokes, last)
	}
	last.d.WriteString(s.pending.String())
	s.pending.Reset()
}

// Elements is the number of path elements Save would write.
func (s *SVG) Elements() int { return len(s.strokes) }

func (s *SVG) Save(path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	s.writeTo(w)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, err)
	}
	return nil
}

func (s *SVG) writeTo(w *bufio.Writer) {
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.Width, s.Height, s.Width, s.Height)
	if s.background != nil {
		fmt.Fprintf(w, `<rect width="100%%" height="100%%" fill="%s" fill-opacity="%.3g"/>
`, s.background.Hex(), s.background.A)
	}
	for _, st := range s.strokes {
		fmt.Fprintf(w, `<path fill="none" stroke="%s" stroke-opacity="%.3g" stroke-width="%.3g" stroke-linecap="round" d="`,
			st.color.Hex(), st.color.A, st.width)
		w.WriteString(st.d.String())
		w.WriteString("\"/>\n")
	}
	w.WriteString("</svg>\n")
}
