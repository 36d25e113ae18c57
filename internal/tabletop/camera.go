package tabletop

import "math"

// Zoom limits of the table view.
const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

// Camera is the view transform: canvas point at the viewport center and a
// scale factor (1 = native, <1 = zoomed out).
type Camera struct {
	X, Y float64
	Zoom float64
}

// clampZoom keeps z inside [MinZoom, MaxZoom].
func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// ToScreen maps a canvas point into a viewport of size vw x vh.
func (c Camera) ToScreen(x, y, vw, vh float64) (float64, float64) {
	return (x-c.X)*c.Zoom + vw/2, (y-c.Y)*c.Zoom + vh/2
}

// ToCanvas maps a viewport point back into canvas coordinates.
func (c Camera) ToCanvas(sx, sy, vw, vh float64) (float64, float64) {
	return (sx-vw/2)/c.Zoom + c.X, (sy-vh/2)/c.Zoom + c.Y
}
