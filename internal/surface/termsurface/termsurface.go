// Package termsurface paints indicator layers as cell backgrounds on a tcell
// screen.
package termsurface

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/map-awareness/internal/host"
	"github.com/Garsondee/map-awareness/internal/surface"
)

// View maps canvas coordinates to cells: the canvas point at the top-left cell
// and the canvas size of one cell. Cells are about twice as tall as wide.
type View struct {
	OriginX, OriginY float64
	CellW, CellH     float64
}

// Centered returns a view of cols x rows cells centered on (cx, cy) at zoom.
// At zoom 1 a cell spans unit canvas units horizontally.
func Centered(cx, cy, zoom, unit float64, cols, rows int) View {
	w := unit / zoom
	h := w * 2
	return View{
		OriginX: cx - float64(cols)/2*w,
		OriginY: cy - float64(rows)/2*h,
		CellW:   w,
		CellH:   h,
	}
}

// ToCell maps a canvas point to a cell.
func (v View) ToCell(x, y float64) (col, row int) {
	return int(math.Floor((x - v.OriginX) / v.CellW)), int(math.Floor((y - v.OriginY) / v.CellH))
}

// ToCanvas returns the canvas point at the center of a cell.
func (v View) ToCanvas(col, row int) (x, y float64) {
	return v.OriginX + (float64(col)+0.5)*v.CellW, v.OriginY + (float64(row)+0.5)*v.CellH
}

// Surface records layers and paints them on demand.
type Surface struct {
	surface.Layers
}

// New creates an empty surface.
func New() *Surface {
	return &Surface{}
}

// Paint sets the background of every cell whose center lies inside a circle,
// and of the cell holding each circle's center. Cell content is kept. Partial opacity darkens the color toward black.
func (s *Surface) Paint(screen tcell.Screen, v View) {
	cols, rows := screen.Size()
	s.Each(func(_ int, b host.Batch) {
		bg := cellColor(b.Color, b.Opacity)
		for _, c := range b.Circles {
			cc, cr := v.ToCell(c.X, c.Y)
			c0, r0 := v.ToCell(c.X-c.R, c.Y-c.R)
			c1, r1 := v.ToCell(c.X+c.R, c.Y+c.R)
			for row := max(r0, 0); row <= min(r1, rows-1); row++ {
				for col := max(c0, 0); col <= min(c1, cols-1); col++ {
					x, y := v.ToCanvas(col, row)
					// The cell holding the center is always marked.
					if dx, dy := x-c.X, y-c.Y; dx*dx+dy*dy > c.R*c.R && (col != cc || row != cr) {
						continue
					}
					mainc, combc, style, _ := screen.GetContent(col, row)
					screen.SetContent(col, row, mainc, combc, style.Background(bg))
				}
			}
		}
	})
}

func cellColor(c host.Color, opacity float64) tcell.Color {
	r, g, b := c.RGB()
	a := math.Max(0, math.Min(1, opacity))
	scale := func(v uint8) int32 { return int32(math.Round(float64(v) * a)) }
	return tcell.NewRGBColor(scale(r), scale(g), scale(b))
}
