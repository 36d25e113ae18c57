package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/map-awareness/internal/host"
)

func TestLayersOrderByZThenCreation(t *testing.T) {
	var s Layers
	top := s.NewGraphics(10)
	bottom := s.NewGraphics(1)
	sameZ := s.NewGraphics(10)

	live := s.Live()
	require.Len(t, live, 3)
	assert.Same(t, bottom, host.Graphics(live[0]))
	assert.Same(t, top, host.Graphics(live[1]))
	assert.Same(t, sameZ, host.Graphics(live[2]))
}

func TestLayerFillAndDestroy(t *testing.T) {
	var s Layers
	g := s.NewGraphics(5)
	circles := []host.Circle{{X: 1, Y: 2, R: 3}}
	g.Fill(host.Batch{Color: 0xff0000, Opacity: 1, Circles: circles})
	circles[0].X = 99

	var seen []host.Batch
	s.Each(func(z int, b host.Batch) {
		assert.Equal(t, 5, z)
		seen = append(seen, b)
	})
	require.Len(t, seen, 1)
	assert.Equal(t, 1.0, seen[0].Circles[0].X, "fill keeps its own copy")
	assert.Equal(t, 1, s.Circles())

	g.Destroy()
	g.Destroy()
	assert.Empty(t, s.Live())
	g.Fill(host.Batch{Circles: circles})
	assert.Zero(t, s.Circles())
}
