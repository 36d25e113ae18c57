package awareness

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/Garsondee/map-awareness/internal/host"
	"github.com/Garsondee/map-awareness/internal/telemetry"
)

// IndicatorZ places the indicator layer above tokens and most canvas layers.
const IndicatorZ = 10000

// radiusScale converts the base radius setting into canvas units at zoom 1.
const radiusScale = 0.3

// Radius is the shared indicator radius at a zoom level. It grows as the view
// zooms out.
func Radius(baseRadius, zoom float64) float64 {
	return baseRadius / zoom * radiusScale
}

// Params are the settings the renderer draws with.
type Params struct {
	Threshold  float64
	BaseRadius float64
}

// PlanFunc builds the batches to draw for a radius.
type PlanFunc func(radius float64) []host.Batch

// RenderStats describes the last render pass that did work.
type RenderStats struct {
	Zoom    float64
	Radius  float64
	Batches int
	Circles int
	// Shown is false when the zoom was at or above the threshold.
	Shown bool
}

// Renderer owns the single indicator Graphics handle.
type Renderer struct {
	surface host.Surface
	handle  host.Graphics

	lastZoom float64
	hasLast  bool
	last     RenderStats

	renders int
	skips   int

	log        zerolog.Logger
	renderCtr  metric.Int64Counter
	skipCtr    metric.Int64Counter
	circlesCtr metric.Int64Counter
}

// NewRenderer creates a renderer drawing on surface.
func NewRenderer(surface host.Surface, log zerolog.Logger) *Renderer {
	m := telemetry.Meter("awareness")
	return &Renderer{
		surface:    surface,
		log:        log,
		renderCtr:  telemetry.Counter(m, "awareness.renders", "Indicator render passes performed"),
		skipCtr:    telemetry.Counter(m, "awareness.renders.skipped", "Render calls skipped for unchanged zoom"),
		circlesCtr: telemetry.Counter(m, "awareness.circles", "Indicator circles drawn"),
	}
}

// Render redraws the indicators for zoom. It is a no-op when zoom equals the
// last rendered zoom and reports whether any work was done. At or above the
// threshold the previous indicators are removed and nothing is drawn.
func (r *Renderer) Render(zoom float64, p Params, plan PlanFunc) bool {
	if r.hasLast && zoom == r.lastZoom {
		r.skips++
		r.skipCtr.Add(context.Background(), 1)
		return false
	}

	r.teardown()
	r.lastZoom, r.hasLast = zoom, true
	r.renders++
	r.renderCtr.Add(context.Background(), 1)
	r.last = RenderStats{Zoom: zoom}

	if math.IsNaN(zoom) || zoom <= 0 {
		r.log.Debug().Float64("zoom", zoom).Msg("unusable zoom, indicators hidden")
		return true
	}
	if zoom >= p.Threshold {
		r.log.Trace().Float64("zoom", zoom).Float64("threshold", p.Threshold).Msg("zoom above threshold")
		return true
	}

	radius := Radius(p.BaseRadius, zoom)
	batches := plan(radius)

	g := r.surface.NewGraphics(IndicatorZ)
	stats := RenderStats{Zoom: zoom, Radius: radius, Shown: true}
	for _, b := range batches {
		if len(b.Circles) == 0 {
			continue
		}
		g.Fill(b)
		stats.Batches++
		stats.Circles += len(b.Circles)
	}
	r.handle = g
	r.last = stats
	r.circlesCtr.Add(context.Background(), int64(stats.Circles))

	r.log.Debug().
		Float64("zoom", zoom).
		Float64("radius", radius).
		Int("batches", stats.Batches).
		Int("circles", stats.Circles).
		Msg("indicators drawn")
	return true
}

// Invalidate forgets the last zoom so the next Render always does work.
func (r *Renderer) Invalidate() {
	r.hasLast = false
}

// Clear removes the indicators and forgets the last zoom.
func (r *Renderer) Clear() {
	r.teardown()
	r.hasLast = false
	r.last = RenderStats{}
}

func (r *Renderer) teardown() {
	if r.handle == nil {
		return
	}
	r.handle.Destroy()
	r.handle = nil
}

// Live reports whether an indicator handle currently exists.
func (r *Renderer) Live() bool {
	return r.handle != nil
}

// Last returns the stats of the last render that did work.
func (r *Renderer) Last() RenderStats {
	return r.last
}

// Counts returns how many renders did work and how many were skipped.
func (r *Renderer) Counts() (renders, skips int) {
	return r.renders, r.skips
}
