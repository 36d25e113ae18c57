// Package raster draws indicator layers into an in-memory RGBA image with
// golang.org/x/image/vector and writes PNG snapshots. Headless runs use it in
// place of a window.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/vector"

	"github.com/Garsondee/map-awareness/internal/host"
	"github.com/Garsondee/map-awareness/internal/surface"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// View maps canvas coordinates to pixels: the canvas point at pixel (0, 0)
// and pixels per canvas unit.
type View struct {
	OriginX, OriginY float64
	Scale            float64
}

// Fit returns a view that shows a w x h canvas inside a px-wide image.
func Fit(w, h float64, px int) (View, image.Rectangle) {
	scale := float64(px) / w
	return View{Scale: scale}, image.Rect(0, 0, px, int(h*scale+0.5))
}

// ToPixel maps a canvas point to pixel coordinates.
func (v View) ToPixel(x, y float64) (float32, float32) {
	return float32((x - v.OriginX) * v.Scale), float32((y - v.OriginY) * v.Scale)
}

// Surface records layers and rasterizes them on demand.
type Surface struct {
	surface.Layers
	View View
}

// New creates a surface with view v.
func New(v View) *Surface {
	return &Surface{View: v}
}

// Render composites every live layer onto dst, bottom to top.
func (s *Surface) Render(dst draw.Image) {
	s.Each(func(_ int, b host.Batch) {
		clr := b.Color.NRGBA(b.Opacity)
		for _, c := range b.Circles {
			FillCircle(dst, s.View, c, clr)
		}
	})
}

// FillCircle draws a filled canvas-space circle onto dst.
func FillCircle(dst draw.Image, v View, c host.Circle, clr color.Color) {
	b := dst.Bounds()
	cx, cy := v.ToPixel(c.X, c.Y)
	r := float32(c.R * v.Scale)
	if r <= 0 {
		return
	}
	// The rasterizer works in its own 0-based space.
	cx -= float32(b.Min.X)
	cy -= float32(b.Min.Y)
	k := r * kappa

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(clr), image.Point{})
}

// NewCanvas allocates an image of bounds r filled with bg.
func NewCanvas(r image.Rectangle, bg color.Color) *image.RGBA {
	img := image.NewRGBA(r)
	draw.Draw(img, r, image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}
