// Package awareness draws colored indicator circles over map tokens when the
// view is zoomed out far enough that the tokens become hard to see.
//
// A Module owns all overlay state for one client session. Structural host
// events are debounced through a Scheduler; selection changes and settings
// edits redraw immediately. Everything runs on the host loop goroutine.
package awareness

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Garsondee/map-awareness/internal/hooks"
	"github.com/Garsondee/map-awareness/internal/host"
	"github.com/Garsondee/map-awareness/internal/logging"
	"github.com/Garsondee/map-awareness/internal/settings"
)

// Namespace scopes the overlay's settings.
const Namespace = "bettermapawareness"

// Setting keys besides the per-category colors.
const (
	KeyZoomThreshold   = "zoomThreshold"
	KeyBaseRadius      = "baseRadius"
	KeyUsePlayerColors = "usePlayerColors"
)

// SettingsStore is the settings API the module registers with and reads.
type SettingsStore interface {
	Register(namespace, key string, d settings.Descriptor) error
	Float(namespace, key string) float64
	Bool(namespace, key string) bool
	String(namespace, key string) string
}

type options struct {
	clock    Clock
	debounce time.Duration
	log      zerolog.Logger
}

// Option configures a Module.
type Option func(*options)

// WithClock sets the scheduler clock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithLogger sets the module logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Module is the overlay context for one session.
type Module struct {
	host  host.Host
	store SettingsStore
	log   zerolog.Logger

	colors    *ColorCache
	selection *Selection
	snapshot  *Snapshot
	renderer  *Renderer
	scheduler *Scheduler

	bus  *hooks.Bus
	subs []hooks.ID
}

// New creates a module for h reading settings from store. Call
// RegisterSettings before the first refresh.
func New(h host.Host, store SettingsStore, opts ...Option) *Module {
	o := options{clock: SystemClock{}, debounce: DebounceWindow, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Module{
		host:      h,
		store:     store,
		log:       logging.Component(o.log, "awareness"),
		selection: NewSelection(),
		snapshot:  NewSnapshot(),
	}
	m.colors = NewColorCache(func(key string) string {
		return store.String(Namespace, key)
	}, m.log)
	m.renderer = NewRenderer(h.Surface(), m.log)
	m.scheduler = NewScheduler(o.clock, o.debounce, m.refresh)
	return m
}

var defaultColors = [categoryCount]string{
	CategoryYourCharacter:     "#00bfff",
	CategorySelectedCharacter: "#ff00ff",
	CategoryCharacter:         "#ff0000",
	CategoryNPC:               "#00ff00",
	CategoryOther:             "#ffff00",
}

var colorLabels = [categoryCount]string{
	CategoryYourCharacter:     "Your Character",
	CategorySelectedCharacter: "Selected Character",
	CategoryCharacter:         "Character",
	CategoryNPC:               "NPC",
	CategoryOther:             "Other",
}

type settingDef struct {
	key string
	d   settings.Descriptor
}

// RegisterSettings registers the overlay settings and loads the color cache.
func (m *Module) RegisterSettings() error {
	redraw := func(any) { m.RefreshNow() }
	recolor := func(any) {
		m.colors.Refresh()
		m.RefreshNow()
	}

	defs := []settingDef{
		{KeyZoomThreshold, settings.Descriptor{
			Name:     "Zoom Threshold",
			Hint:     "Indicators are shown while the map zoom is below this value (default: 0.9)",
			Scope:    settings.ScopeClient,
			Config:   true,
			Type:     settings.TypeNumber,
			Default:  0.9,
			Range:    &settings.Range{Min: 0.1, Max: 2.0, Step: 0.05},
			OnChange: redraw,
		}},
		{KeyBaseRadius, settings.Descriptor{
			Name:     "Base Circle Radius",
			Hint:     "The base size of the circle indicators (default: 40)",
			Scope:    settings.ScopeClient,
			Config:   true,
			Type:     settings.TypeNumber,
			Default:  40.0,
			Range:    &settings.Range{Min: 10, Max: 200, Step: 5},
			OnChange: redraw,
		}},
		{KeyUsePlayerColors, settings.Descriptor{
			Name:     "Use Player Colors",
			Hint:     "Color character indicators with their owning player's color",
			Scope:    settings.ScopeClient,
			Config:   true,
			Type:     settings.TypeBoolean,
			Default:  false,
			OnChange: redraw,
		}},
	}
	for _, cat := range Categories {
		defs = append(defs, settingDef{cat.SettingKey(), settings.Descriptor{
			Name:     colorLabels[cat] + " Circle Color",
			Hint:     "The color used for " + colorLabels[cat] + " circles on the map",
			Scope:    settings.ScopeClient,
			Config:   true,
			Type:     settings.TypeColor,
			Default:  defaultColors[cat],
			OnChange: recolor,
		}})
	}

	for _, def := range defs {
		if err := m.store.Register(Namespace, def.key, def.d); err != nil {
			return err
		}
	}
	m.colors.Refresh()
	return nil
}

// Attach subscribes the module to bus.
func (m *Module) Attach(bus *hooks.Bus) {
	m.Detach()
	m.bus = bus
	for _, name := range hooks.Structural {
		m.subs = append(m.subs, bus.On(name, func(hooks.Event) {
			m.scheduler.Trigger()
		}))
	}
	m.subs = append(m.subs,
		bus.On(hooks.ControlToken, func(e hooks.Event) {
			m.OnControl(e.Token, e.Controlled)
		}),
		bus.On(hooks.ReleaseAll, func(hooks.Event) {
			m.OnClearAll()
		}),
	)
}

// Detach removes the module's subscriptions.
func (m *Module) Detach() {
	if m.bus == nil {
		return
	}
	for _, id := range m.subs {
		m.bus.Off(id)
	}
	m.subs = nil
	m.bus = nil
}

// Poll runs a due debounced refresh. Hosts call it once per loop iteration.
func (m *Module) Poll() bool {
	return m.scheduler.Poll()
}

// Refresh schedules a debounced structural refresh.
func (m *Module) Refresh() {
	m.scheduler.Trigger()
}

// RefreshNow re-reads the token list and redraws immediately, even if the zoom
// has not changed.
func (m *Module) RefreshNow() {
	m.renderer.Invalidate()
	m.refresh()
}

// OnControl records a GM selecting or releasing a token and redraws. It is a
// no-op for players.
func (m *Module) OnControl(t host.Token, controlled bool) {
	if t == nil || !ViewerOf(m.host.CurrentUser()).GM {
		return
	}
	m.selection.Control(t.ID(), controlled)
	m.log.Debug().Str("token", t.ID()).Bool("controlled", controlled).Msg("selection changed")
	m.RefreshNow()
}

// OnClearAll empties the selection and redraws.
func (m *Module) OnClearAll() {
	m.selection.Clear()
	m.log.Debug().Msg("selection cleared")
	m.RefreshNow()
}

// Close cancels pending work, removes the indicators and detaches from the bus.
func (m *Module) Close() {
	m.scheduler.Cancel()
	m.renderer.Clear()
	m.Detach()
}

// refresh re-reads the snapshot and renders. A failure in host code is logged
// and swallowed so it never unwinds into the host loop.
func (m *Module) refresh() {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Interface("panic", r).Msg("indicator refresh failed")
		}
	}()
	m.snapshot.Resnapshot(m.host)
	m.render()
}

func (m *Module) render() bool {
	return m.renderer.Render(m.host.Zoom(), m.params(), m.plan)
}

func (m *Module) params() Params {
	return Params{
		Threshold:  m.store.Float(Namespace, KeyZoomThreshold),
		BaseRadius: m.store.Float(Namespace, KeyBaseRadius),
	}
}

// plan classifies every eligible token and builds the draw batches: one pass
// for categorical batches, one for per-token player colors.
func (m *Module) plan(radius float64) []host.Batch {
	viewer := ViewerOf(m.host.CurrentUser())
	usePlayerColors := m.store.Bool(Namespace, KeyUsePlayerColors)

	items := make([]classified, 0, len(m.snapshot.placed))
	for _, p := range m.snapshot.placed {
		if !Eligible(p.token, viewer) {
			continue
		}
		c := p.token.Center()
		items = append(items, classified{
			circle: host.Circle{X: c.X, Y: c.Y, R: radius},
			actor:  p.actor,
			result: Classify(candidateOf(p.token, p.actor), viewer, m.selection, usePlayerColors),
		})
	}

	batches := categoryBatches(items, m.colors)
	if usePlayerColors {
		users := m.host.Users()
		fallback := m.colors.Color(CategoryCharacter)
		batches = append(batches, playerBatches(items, func(a host.Actor) OwnerColor {
			return ResolveOwnerColor(a, users, viewer.UserID, fallback)
		})...)
	}
	return batches
}

// Colors returns the color cache.
func (m *Module) Colors() *ColorCache { return m.colors }

// Selection returns the GM selection set.
func (m *Module) Selection() *Selection { return m.selection }

// Snapshot returns the current token snapshot.
func (m *Module) Snapshot() *Snapshot { return m.snapshot }

// Renderer returns the indicator renderer.
func (m *Module) Renderer() *Renderer { return m.renderer }

// Scheduler returns the refresh scheduler.
func (m *Module) Scheduler() *Scheduler { return m.scheduler }
