package awareness

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/map-awareness/internal/host"
)

func onePlan(radius float64) []host.Batch {
	return []host.Batch{
		{Color: 0xff0000, Opacity: 1, Circles: []host.Circle{{X: 10, Y: 10, R: radius}}},
		{Color: 0x00ff00, Opacity: 1},
	}
}

func TestRadius(t *testing.T) {
	assert.InDelta(t, 40.0, Radius(40, 0.3), 1e-9)
	assert.InDelta(t, 24.0, Radius(40, 0.5), 1e-9)
}

func TestRadiusDecreasesTowardThreshold(t *testing.T) {
	prev := math.Inf(1)
	for zoom := 0.1; zoom < 0.9; zoom += 0.05 {
		r := Radius(40, zoom)
		if r >= prev {
			t.Fatalf("radius should shrink as zoom grows: zoom=%.2f r=%.3f prev=%.3f", zoom, r, prev)
		}
		prev = r
	}
}

func TestRenderAtOrAboveThresholdDrawsNothing(t *testing.T) {
	for _, zoom := range []float64{0.9, 0.95, 1, 2.5} {
		s := &recordingSurface{}
		r := NewRenderer(s, zerolog.Nop())
		planned := false

		require.True(t, r.Render(zoom, Params{Threshold: 0.9, BaseRadius: 40}, func(float64) []host.Batch {
			planned = true
			return nil
		}))
		assert.False(t, planned, "zoom %.2f", zoom)
		assert.False(t, r.Live(), "zoom %.2f", zoom)
		assert.Empty(t, s.created, "zoom %.2f", zoom)
		assert.False(t, r.Last().Shown)
	}
}

func TestRenderBelowThreshold(t *testing.T) {
	s := &recordingSurface{}
	r := NewRenderer(s, zerolog.Nop())

	require.True(t, r.Render(0.3, Params{Threshold: 0.9, BaseRadius: 40}, onePlan))
	require.Len(t, s.created, 1)
	g := s.created[0]
	assert.Equal(t, IndicatorZ, g.z)
	require.Len(t, g.batches, 1, "empty batches are not issued")
	assert.InDelta(t, 40.0, g.batches[0].Circles[0].R, 1e-9)

	last := r.Last()
	assert.True(t, last.Shown)
	assert.Equal(t, 1, last.Circles)
	assert.Equal(t, 1, last.Batches)
}

func TestRenderSameZoomIsNoop(t *testing.T) {
	s := &recordingSurface{}
	r := NewRenderer(s, zerolog.Nop())
	p := Params{Threshold: 0.9, BaseRadius: 40}

	assert.True(t, r.Render(0.5, p, onePlan))
	assert.False(t, r.Render(0.5, p, onePlan))
	assert.Len(t, s.created, 1)
	renders, skips := r.Counts()
	assert.Equal(t, 1, renders)
	assert.Equal(t, 1, skips)
}

func TestRenderTearsDownPreviousHandle(t *testing.T) {
	s := &recordingSurface{}
	r := NewRenderer(s, zerolog.Nop())
	p := Params{Threshold: 0.9, BaseRadius: 40}

	r.Render(0.5, p, onePlan)
	r.Render(0.4, p, onePlan)
	require.Len(t, s.created, 2)
	assert.True(t, s.created[0].destroyed)
	assert.Len(t, s.live(), 1)

	r.Render(1.0, p, onePlan)
	assert.Empty(t, s.live())
	assert.False(t, r.Live())
}

func TestRenderInvalidateForcesRedraw(t *testing.T) {
	s := &recordingSurface{}
	r := NewRenderer(s, zerolog.Nop())
	p := Params{Threshold: 0.9, BaseRadius: 40}

	r.Render(0.5, p, onePlan)
	r.Invalidate()
	assert.True(t, r.Render(0.5, p, onePlan))
	assert.Len(t, s.created, 2)
	assert.Len(t, s.live(), 1)
}

func TestRenderUnusableZoom(t *testing.T) {
	for _, zoom := range []float64{0, -1, math.NaN()} {
		s := &recordingSurface{}
		r := NewRenderer(s, zerolog.Nop())
		r.Render(zoom, Params{Threshold: 0.9, BaseRadius: 40}, onePlan)
		assert.False(t, r.Live())
		assert.Empty(t, s.created)
	}
}

func TestRendererClear(t *testing.T) {
	s := &recordingSurface{}
	r := NewRenderer(s, zerolog.Nop())
	p := Params{Threshold: 0.9, BaseRadius: 40}
	r.Render(0.5, p, onePlan)
	r.Clear()
	assert.Empty(t, s.live())
	assert.True(t, r.Render(0.5, p, onePlan), "clear forgets the last zoom")
}
