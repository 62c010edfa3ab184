// Package raster is an in-memory RGBA render surface that can be written
// out as PNG.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Surface paints into an *image.RGBA.
type Surface struct {
	img  *image.RGBA
	face font.Face
	ras  *vector.Rasterizer
}

// New allocates a width x height surface.
func New(width, height int) *Surface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		face: basicfont.Face7x13,
		ras:  vector.NewRasterizer(width, height),
	}
}

// Size returns the surface size in pixels.
func (s *Surface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA { return s.img }

// Clear fills the whole surface.
func (s *Surface) Clear(hex string) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(ParseHex(hex)), image.Point{}, draw.Src)
}

// FillRect fills an axis-aligned rectangle, clipped to the surface.
func (s *Surface) FillRect(x, y, w, h float64, hex string) {
	if !finite(x, y, w, h) || w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.NewUniform(ParseHex(hex)), image.Point{}, draw.Over)
}

// Line strokes an anti-aliased segment of the given width.
func (s *Surface) Line(x0, y0, x1, y1, width float64, hex string) {
	if !finite(x0, y0, x1, y1, width) || width <= 0 {
		return
	}
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		s.FillRect(x0-width/2, y0-width/2, width, width, hex)
		return
	}
	// Offset perpendicular to the segment by half the stroke width.
	nx, ny := -dy/length*width/2, dx/length*width/2

	b := s.img.Bounds()
	s.ras.Reset(b.Dx(), b.Dy())
	s.ras.MoveTo(float32(x0+nx), float32(y0+ny))
	s.ras.LineTo(float32(x1+nx), float32(y1+ny))
	s.ras.LineTo(float32(x1-nx), float32(y1-ny))
	s.ras.LineTo(float32(x0-nx), float32(y0-ny))
	s.ras.ClosePath()
	s.ras.Draw(s.img, b, image.NewUniform(ParseHex(hex)), image.Point{})
}

// Text draws s with its baseline at y.
func (s *Surface) Text(x, y float64, text, hex string) {
	if !finite(x, y) || text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(ParseHex(hex)),
		Face: s.face,
		Dot:  fixed.Point26_6{X: fixed.I(int(x)), Y: fixed.I(int(y))},
	}
	d.DrawString(text)
}

// WritePNG encodes the surface as PNG.
func (s *Surface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// SavePNG writes the surface to path atomically via a temp file and rename.
func (s *Surface) SavePNG(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chart-*.png")
	if err != nil {
		return fmt.Errorf("raster: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.WritePNG(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("raster: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("raster: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("raster: rename: %w", err)
	}
	return nil
}

// ParseHex parses "#rgb" or "#rrggbb". Malformed input yields opaque magenta.
func ParseHex(hex string) color.RGBA {
	bad := color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	if len(hex) == 0 || hex[0] != '#' {
		return bad
	}
	h := hex[1:]
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return bad
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return bad
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
