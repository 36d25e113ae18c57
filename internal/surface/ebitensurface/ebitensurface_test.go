package ebitensurface

import (
	"testing"

	"github.com/Garsondee/map-awareness/internal/host"
)

// Image drawing needs a running game loop, so only layer bookkeeping is
// covered here.
func TestSurfaceLayers(t *testing.T) {
	var _ host.Surface = New()

	s := New()
	under := s.NewGraphics(1)
	over := s.NewGraphics(10000)
	over.Fill(host.Batch{Color: 0xff0000, Opacity: 1, Circles: []host.Circle{{X: 1, Y: 1, R: 1}, {X: 2, Y: 2, R: 1}}})

	if got := len(s.Live()); got != 2 {
		t.Fatalf("live layers = %d, want 2", got)
	}
	if got := s.Circles(); got != 2 {
		t.Fatalf("circles = %d, want 2", got)
	}
	under.Destroy()
	if got := s.Live()[0].Z(); got != 10000 {
		t.Fatalf("remaining layer z = %d, want 10000", got)
	}
	over.Destroy()
	if got := len(s.Live()); got != 0 {
		t.Fatalf("live layers after destroy = %d, want 0", got)
	}
}
