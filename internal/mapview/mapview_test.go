package mapview

import (
	"testing"

	"github.com/Garsondee/map-awareness/internal/tabletop"
)

func TestCameraGeoMMatchesCameraTransform(t *testing.T) {
	cam := tabletop.Camera{X: 2000, Y: 1500, Zoom: 0.25}
	g := cameraGeoM(cam, 1280, 800)

	for _, p := range [][2]float64{{2000, 1500}, {0, 0}, {3500, 250}} {
		gx, gy := g.Apply(p[0], p[1])
		wx, wy := cam.ToScreen(p[0], p[1], 1280, 800)
		if abs(gx-wx) > 1e-9 || abs(gy-wy) > 1e-9 {
			t.Fatalf("point %v: geom (%v,%v) != camera (%v,%v)", p, gx, gy, wx, wy)
		}
	}
}

func TestCameraGeoMCenter(t *testing.T) {
	g := cameraGeoM(tabletop.Camera{X: 100, Y: 50, Zoom: 2}, 800, 600)
	x, y := g.Apply(100, 50)
	if x != 400 || y != 300 {
		t.Fatalf("camera center maps to (%v,%v), want (400,300)", x, y)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
