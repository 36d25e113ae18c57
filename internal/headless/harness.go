// Package headless drives a session without a window: a fake clock steps the
// debounce scheduler, a raster surface records the indicators, and every step
// is logged for reports and tests.
package headless

import (
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/Garsondee/map-awareness/internal/awareness"
	"github.com/Garsondee/map-awareness/internal/config"
	"github.com/Garsondee/map-awareness/internal/host"
	"github.com/Garsondee/map-awareness/internal/session"
	"github.com/Garsondee/map-awareness/internal/surface/raster"
	"github.com/Garsondee/map-awareness/internal/tabletop"
)

var (
	snapshotGround = color.RGBA{R: 46, G: 58, B: 42, A: 255}
	snapshotToken  = color.RGBA{R: 170, G: 160, B: 140, A: 255}
)

// Clock is a manually advanced clock.
type Clock struct {
	now time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time { return c.now }

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type optionKind int

const (
	optSetup   optionKind = iota // scene, output, window: applied before the session opens
	optSession                   // user, settings, selection: applied after
)

// Option is a builder step applied to a Harness during construction.
type Option struct {
	kind optionKind
	fn   func(*Harness) error
}

// WithScene runs on sc instead of the bundled scene.
func WithScene(sc *tabletop.SceneFile) Option {
	return Option{optSetup, func(h *Harness) error {
		h.scene = sc
		return nil
	}}
}

// WithConfig sets the application config the session opens with.
func WithConfig(cfg config.Config) Option {
	return Option{optSetup, func(h *Harness) error {
		h.cfg = cfg
		return nil
	}}
}

// WithPNGDir writes a snapshot of every step into dir.
func WithPNGDir(dir string) Option {
	return Option{optSetup, func(h *Harness) error {
		h.pngDir = dir
		return nil
	}}
}

// WithImageWidth sets the snapshot width in pixels.
func WithImageWidth(px int) Option {
	return Option{optSetup, func(h *Harness) error {
		h.imageWidth = px
		return nil
	}}
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return Option{optSetup, func(h *Harness) error {
		h.log = l
		return nil
	}}
}

// WithUser views the table as user id.
func WithUser(id string) Option {
	return Option{optSession, func(h *Harness) error {
		return h.Session.Table.SwitchUser(id)
	}}
}

// WithSetting overrides one overlay setting.
func WithSetting(key string, value any) Option {
	return Option{optSession, func(h *Harness) error {
		return h.Session.Store.Set(awareness.Namespace, key, value)
	}}
}

// WithSelected controls the given tokens.
func WithSelected(ids ...string) Option {
	return Option{optSession, func(h *Harness) error {
		for _, id := range ids {
			if err := h.Session.Table.Control(id, true); err != nil {
				return err
			}
		}
		return nil
	}}
}

// Harness is a headless session with a recorded log.
type Harness struct {
	Session *session.Session
	Surface *raster.Surface
	Clock   *Clock
	Log     *Log

	cfg        config.Config
	scene      *tabletop.SceneFile
	pngDir     string
	imageWidth int
	log        zerolog.Logger
	step       int
}

// New builds a harness. Setup options run before the session opens and session
// options after, each group in argument order.
func New(opts ...Option) (*Harness, error) {
	h := &Harness{
		Clock:      NewClock(),
		Log:        &Log{},
		cfg:        config.Config{DebounceWindow: awareness.DebounceWindow},
		imageWidth: 800,
		log:        zerolog.Nop(),
	}
	for _, kind := range []optionKind{optSetup, optSession} {
		if kind == optSession {
			if err := h.open(); err != nil {
				return nil, err
			}
		}
		for _, o := range opts {
			if o.kind != kind {
				continue
			}
			if err := o.fn(h); err != nil {
				return nil, fmt.Errorf("applying option: %w", err)
			}
		}
	}
	h.Settle()
	return h, nil
}

func (h *Harness) open() error {
	if h.cfg.DebounceWindow <= 0 {
		h.cfg.DebounceWindow = awareness.DebounceWindow
	}
	sc := h.scene
	if sc == nil {
		var err error
		if h.cfg.SceneFile != "" {
			sc, err = tabletop.LoadScene(h.cfg.SceneFile)
		} else {
			sc, err = tabletop.SampleScene()
		}
		if err != nil {
			return err
		}
	}
	view, _ := raster.Fit(sc.Width, sc.Height, h.imageWidth)
	h.Surface = raster.New(view)

	s, err := session.Open(h.cfg, h.Surface,
		session.WithScene(sc),
		session.WithClock(h.Clock),
		session.WithClipboard(func(string) error { return nil }),
		session.WithLogger(h.log),
	)
	if err != nil {
		return err
	}
	h.Session = s
	return nil
}

// Settle advances past the debounce window and runs a due refresh.
func (h *Harness) Settle() bool {
	h.Clock.Advance(h.cfg.DebounceWindow)
	return h.Session.Tick()
}

// StepResult is the outcome of one zoom step.
type StepResult struct {
	Step      int
	Zoom      float64
	Refreshed bool
	Stats     awareness.RenderStats
	Live      int
	Snapshot  string
}

// ZoomTo sets the table zoom, lets the debounce window pass and records what
// the overlay drew.
func (h *Harness) ZoomTo(z float64) (StepResult, error) {
	h.step++
	h.Session.Table.SetZoom(z)
	res := StepResult{Step: h.step, Zoom: h.Session.Table.Zoom(), Refreshed: h.Settle()}
	res.Stats = h.Session.Module.Renderer().Last()
	res.Live = h.Surface.Circles()

	key := "hidden"
	if res.Stats.Shown {
		key = "shown"
	}
	h.Log.Add(h.step, "render", key,
		fmt.Sprintf("zoom=%.3f radius=%.1f batches=%d circles=%d", res.Zoom, res.Stats.Radius, res.Stats.Batches, res.Stats.Circles),
		float64(res.Stats.Circles))

	if h.pngDir != "" {
		path := filepath.Join(h.pngDir, fmt.Sprintf("step-%02d.png", h.step))
		if err := h.snapshot(path); err != nil {
			return res, err
		}
		res.Snapshot = path
		h.Log.Add(h.step, "snapshot", "png", path, 0)
	}
	return res, nil
}

// Sweep zooms through n evenly spaced levels from `from` to `to` inclusive.
func (h *Harness) Sweep(from, to float64, n int) ([]StepResult, error) {
	var out []StepResult
	for _, z := range Levels(from, to, n) {
		res, err := h.ZoomTo(z)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Levels returns n evenly spaced values from `from` to `to` inclusive.
func Levels(from, to float64, n int) []float64 {
	if n <= 1 {
		return []float64{from}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return out
}

// Burst fires n token updates spaced gap apart, then lets the window pass, and
// returns how many refreshes ran. Gaps shorter than the debounce window should
// coalesce into one.
func (h *Harness) Burst(n int, gap time.Duration) int {
	_, before := h.Session.Module.Scheduler().Counts()
	placed := h.Session.Table.Placed()
	for i := 0; i < n && len(placed) > 0; i++ {
		tok := placed[i%len(placed)]
		c := tok.Center()
		// Moving a token to where it already is still emits an update.
		_ = h.Session.Table.MoveToken(tok.ID(), c.X, c.Y)
		h.Clock.Advance(gap)
		h.Session.Tick()
	}
	h.Settle()
	_, after := h.Session.Module.Scheduler().Counts()
	fired := after - before
	h.Log.Add(h.step, "burst", "coalesced",
		fmt.Sprintf("events=%d gap=%s refreshes=%d", n, gap, fired), float64(fired))
	return fired
}

func (h *Harness) snapshot(path string) error {
	table := h.Session.Table
	w, ht := table.Bounds()
	view, rect := raster.Fit(w, ht, h.imageWidth)
	img := raster.NewCanvas(rect, snapshotGround)
	for _, tok := range table.Placed() {
		if !tok.Visible() {
			continue
		}
		c := tok.Center()
		raster.FillCircle(img, view, host.Circle{X: c.X, Y: c.Y, R: tok.Size() / 2}, snapshotToken)
	}
	h.Surface.Render(img)
	return raster.WritePNG(path, img)
}
