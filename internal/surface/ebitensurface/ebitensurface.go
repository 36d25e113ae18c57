// Package ebitensurface draws indicator layers onto Ebiten images.
package ebitensurface

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/map-awareness/internal/host"
	"github.com/Garsondee/map-awareness/internal/surface"
)

// Surface records layers between frames. Draw replays them onto the world
// buffer, which the caller then blits through its camera transform.
type Surface struct {
	surface.Layers
}

// New creates an empty surface.
func New() *Surface {
	return &Surface{}
}

// Draw fills every live circle onto dst in canvas coordinates.
func (s *Surface) Draw(dst *ebiten.Image) {
	s.Each(func(_ int, b host.Batch) {
		clr := b.Color.NRGBA(b.Opacity)
		for _, c := range b.Circles {
			vector.DrawFilledCircle(dst, float32(c.X), float32(c.Y), float32(c.R), clr, true)
		}
	})
}
