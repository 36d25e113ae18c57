// Package session wires a tabletop, the settings store and the awareness
// overlay into one interactive session, and maps viewer input onto them. The
// window and terminal viewers both drive a Session.
package session

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/Garsondee/map-awareness/internal/awareness"
	"github.com/Garsondee/map-awareness/internal/config"
	"github.com/Garsondee/map-awareness/internal/hooks"
	"github.com/Garsondee/map-awareness/internal/host"
	"github.com/Garsondee/map-awareness/internal/logging"
	"github.com/Garsondee/map-awareness/internal/settings"
	"github.com/Garsondee/map-awareness/internal/tabletop"
)

// RadiusStep is the base radius change per keypress.
const RadiusStep = 5

type options struct {
	clock     awareness.Clock
	scene     *tabletop.SceneFile
	clipboard func(string) error
	log       zerolog.Logger
}

// Option configures Open.
type Option func(*options)

// WithClock drives the refresh scheduler from c.
func WithClock(c awareness.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithScene uses sc instead of loading the configured scene file.
func WithScene(sc *tabletop.SceneFile) Option {
	return func(o *options) { o.scene = sc }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(o *options) { o.clipboard = fn }
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Session is one client's view of a table with the overlay attached.
type Session struct {
	Table  *tabletop.Table
	Module *awareness.Module
	Store  *settings.Store
	Bus    *hooks.Bus

	clipboard func(string) error
	log       zerolog.Logger
	status    string
}

// Open loads the scene and settings from cfg, draws on surf and starts the
// table. The first indicator refresh runs one debounce window later.
func Open(cfg config.Config, surf host.Surface, opts ...Option) (*Session, error) {
	o := options{clock: awareness.SystemClock{}, clipboard: clipboard.WriteAll, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	sc := o.scene
	if sc == nil {
		var err error
		if cfg.SceneFile != "" {
			sc, err = tabletop.LoadScene(cfg.SceneFile)
		} else {
			sc, err = tabletop.SampleScene()
		}
		if err != nil {
			return nil, fmt.Errorf("loading scene: %w", err)
		}
	}

	store := settings.New(
		settings.WithFile(cfg.SettingsFile),
		settings.WithLogger(logging.Component(o.log, "settings")),
	)
	bus := hooks.New(logging.Component(o.log, "hooks"))
	table := tabletop.New(sc, surf, bus, logging.Component(o.log, "tabletop"))
	mod := awareness.New(table, store,
		awareness.WithClock(o.clock),
		awareness.WithDebounce(cfg.DebounceWindow),
		awareness.WithLogger(o.log),
	)
	if err := mod.RegisterSettings(); err != nil {
		return nil, fmt.Errorf("registering settings: %w", err)
	}
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	mod.Colors().Refresh()
	mod.Attach(bus)

	s := &Session{
		Table:     table,
		Module:    mod,
		Store:     store,
		Bus:       bus,
		clipboard: o.clipboard,
		log:       logging.Component(o.log, "session"),
	}
	table.Start()
	s.log.Info().
		Str("scene", table.Name()).
		Int("tokens", len(table.Placed())).
		Str("user", table.CurrentUser().ID()).
		Msg("session opened")
	return s, nil
}

// Tick runs due deferred work. Viewers call it once per frame.
func (s *Session) Tick() bool {
	return s.Module.Poll()
}

// Close removes the overlay and persists settings.
func (s *Session) Close() error {
	s.Module.Close()
	return s.Store.Save()
}

// Status is the last user-facing message.
func (s *Session) Status() string { return s.status }

func (s *Session) setStatus(format string, args ...any) {
	s.status = fmt.Sprintf(format, args...)
	s.log.Debug().Str("status", s.status).Msg("status")
}

// Pan moves the view by a canvas-space offset.
func (s *Session) Pan(dx, dy float64) {
	s.Table.Pan(dx, dy)
}

// Zoom scales the view by factor.
func (s *Session) Zoom(factor float64) {
	s.Table.ZoomBy(factor)
}

// Click toggles control of the token nearest a canvas point. It returns false
// when nothing was in reach.
func (s *Session) Click(x, y, radius float64) bool {
	tok, ok := s.Table.TokenAt(x, y, radius)
	if !ok {
		return false
	}
	want := !tok.Controlled()
	if err := s.Table.Control(tok.ID(), want); err != nil {
		s.setStatus("select failed: %v", err)
		return false
	}
	switch {
	case tok.Controlled():
		s.setStatus("selected %s", tok.ID())
	case want:
		s.setStatus("%s is not yours to select", tok.ID())
	default:
		s.setStatus("released %s", tok.ID())
	}
	return true
}

// ReleaseAll deselects every token.
func (s *Session) ReleaseAll() {
	s.Table.ReleaseAll()
	s.setStatus("selection cleared")
}

// TogglePlayerColors flips the player color setting.
func (s *Session) TogglePlayerColors() error {
	on := !s.Store.Bool(awareness.Namespace, awareness.KeyUsePlayerColors)
	if err := s.Store.Set(awareness.Namespace, awareness.KeyUsePlayerColors, on); err != nil {
		s.setStatus("player colors: %v", err)
		return err
	}
	s.setStatus("player colors %s", onOff(on))
	return nil
}

// AdjustRadius changes the base radius by delta. Values outside the setting
// range are refused and reported in the status line.
func (s *Session) AdjustRadius(delta float64) error {
	r := s.Store.Float(awareness.Namespace, awareness.KeyBaseRadius) + delta
	if err := s.Store.Set(awareness.Namespace, awareness.KeyBaseRadius, r); err != nil {
		if errors.Is(err, settings.ErrOutOfRange) {
			s.setStatus("base radius limit reached")
		} else {
			s.setStatus("base radius: %v", err)
		}
		return err
	}
	s.setStatus("base radius %.0f", r)
	return nil
}

// CopyReport puts the overlay report on the clipboard.
func (s *Session) CopyReport() error {
	if err := s.clipboard(s.Module.Report()); err != nil {
		s.setStatus("copy failed: %v", err)
		return fmt.Errorf("copying report: %w", err)
	}
	s.setStatus("report copied")
	return nil
}

// NextUser switches the view to the next user in the scene, wrapping around.
func (s *Session) NextUser() error {
	users := s.Table.Users()
	cur := s.Table.CurrentUser().ID()
	next := users[0]
	for i, u := range users {
		if u.ID() == cur {
			next = users[(i+1)%len(users)]
			break
		}
	}
	if err := s.Table.SwitchUser(next.ID()); err != nil {
		return err
	}
	s.setStatus("viewing as %s", next.Name())
	return nil
}

// HUDLines describes the view and key bindings for an on-screen legend.
func (s *Session) HUDLines() []string {
	u := s.Table.CurrentUser()
	role := "player"
	if u.IsGM() {
		role = "GM"
	}
	last := s.Module.Renderer().Last()
	lines := []string{
		fmt.Sprintf("%s  user: %s (%s)", s.Table.Name(), u.Name(), role),
		fmt.Sprintf("zoom: %.2fx  threshold: %.2f  indicators: %d",
			s.Table.Zoom(), s.Store.Float(awareness.Namespace, awareness.KeyZoomThreshold), last.Circles),
		fmt.Sprintf("radius: %.0f  player colors: %s",
			s.Store.Float(awareness.Namespace, awareness.KeyBaseRadius),
			onOff(s.Store.Bool(awareness.Namespace, awareness.KeyUsePlayerColors))),
		"WASD/arrows=pan  scroll,+/-=zoom  click=select  Esc=release",
		"P=player colors  [/]=radius  C=copy report  Tab=user  H=HUD",
	}
	if s.status != "" {
		lines = append(lines, "> "+s.status)
	}
	return lines
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
