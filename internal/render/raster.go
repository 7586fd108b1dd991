package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/san-kum/attractor/internal/viz"
)

// MaxPixels bounds the raster size NewRaster will allocate.
const MaxPixels = 1 << 28

var (
	ErrSurfaceCreate = errors.New("render: cannot create surface")
	ErrOutputWrite   = errors.New("render: cannot write output")
	ErrClosed        = errors.New("render: surface closed")
)

// Raster is an antialiased RGBA surface backed by gg.
type Raster struct {
	dc            *gg.Context
	width, height int
}

func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSurfaceCreate, width, height)
	}
	if int64(width)*int64(height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrSurfaceCreate, width, height, MaxPixels)
	}
	dc := gg.NewContext(width, height)
	dc.SetLineCapRound()
	return &Raster{dc: dc, width: width, height: height}, nil
}

func (r *Raster) Size() (int, int) { return r.width, r.height }

func (r *Raster) Paint(c viz.Color) {
	if r.dc == nil {
		return
	}
	r.dc.SetColor(c)
	r.dc.Clear()
}

func (r *Raster) SetColor(c viz.Color) {
	if r.dc != nil {
		r.dc.SetColor(c)
	}
}

func (r *Raster) SetLineWidth(w float64) {
	if r.dc != nil {
		r.dc.SetLineWidth(w)
	}
}

func (r *Raster) MoveTo(x, y float64) {
	if r.dc != nil {
		r.dc.MoveTo(x, y)
	}
}

func (r *Raster) LineTo(x, y float64) {
	if r.dc != nil {
		r.dc.LineTo(x, y)
	}
}

func (r *Raster) Stroke() {
	if r.dc != nil {
		r.dc.Stroke()
	}
}

// Image returns the underlying raster, or nil once closed.
func (r *Raster) Image() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

// Save encodes the raster as PNG. A partially written file is removed.
func (r *Raster) Save(path string) error {
	if r.dc == nil {
		return ErrClosed
	}
	return writePNG(path, r.dc.Image())
}

// Thumbnail returns a copy scaled so its longer side is maxSide pixels.
func (r *Raster) Thumbnail(maxSide int) (*image.RGBA, error) {
	if r.dc == nil {
		return nil, ErrClosed
	}
	if maxSide <= 0 {
		return nil, fmt.Errorf("render: thumbnail size must be positive, got %d", maxSide)
	}
	w, h := r.width, r.height
	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}
	src := r.dc.Image()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// SaveThumbnail writes a scaled PNG preview next to the full image.
func (r *Raster) SaveThumbnail(path string, maxSide int) error {
	img, err := r.Thumbnail(maxSide)
	if err != nil {
		return err
	}
	return writePNG(path, img)
}

// Close releases the raster. It is safe to call more than once.
func (r *Raster) Close() error {
	r.dc = nil
	return nil
}

func writePNG(path string, img image.Image) (err error) {
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
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, err)
	}
	return nil
}
