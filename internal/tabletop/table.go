// Package tabletop is a small in-memory tabletop host: a scene of actors,
// tokens and users with a camera, emitting hook events on every change. The
// map awareness overlay runs on top of it in the bundled viewers.
package tabletop

import (
	"fmt"
	"math"
	"slices"

	"github.com/rs/zerolog"

	"github.com/Garsondee/map-awareness/internal/hooks"
	"github.com/Garsondee/map-awareness/internal/host"
)

// Table is the live scene. It implements host.Host.
type Table struct {
	name     string
	width    float64
	height   float64
	gridSize float64

	users   []*User
	current *User
	actors  map[string]*Actor
	tokens  []*Token

	controlled map[string]bool
	camera     Camera
	surface    host.Surface
	bus        *hooks.Bus
	log        zerolog.Logger
}

// New builds a table from a validated scene. Events are emitted on bus.
func New(sc *SceneFile, surface host.Surface, bus *hooks.Bus, log zerolog.Logger) *Table {
	t := &Table{
		name:       sc.Name,
		width:      sc.Width,
		height:     sc.Height,
		gridSize:   sc.GridSize,
		actors:     make(map[string]*Actor, len(sc.Actors)),
		controlled: make(map[string]bool),
		surface:    surface,
		bus:        bus,
		log:        log,
	}
	for _, us := range sc.Users {
		u := &User{id: us.ID, name: us.Name, gm: us.GM, character: us.Character, color: us.Color}
		if u.name == "" {
			u.name = u.id
		}
		t.users = append(t.users, u)
		if u.id == sc.CurrentUser {
			t.current = u
		}
	}
	for _, as := range sc.Actors {
		t.actors[as.ID] = newActor(as)
	}
	for _, ts := range sc.Tokens {
		t.tokens = append(t.tokens, t.newToken(ts))
	}
	if sc.Camera != nil {
		t.camera = Camera{X: sc.Camera.X, Y: sc.Camera.Y, Zoom: clampZoom(sc.Camera.Zoom)}
	} else {
		t.camera = Camera{X: sc.Width / 2, Y: sc.Height / 2, Zoom: 1}
	}
	return t
}

func newActor(as ActorSpec) *Actor {
	a := &Actor{id: as.ID, name: as.Name, kind: as.Kind, ownership: make(map[string]host.Permission, len(as.Ownership))}
	for uid, lvl := range as.Ownership {
		a.ownership[uid] = host.Permission(lvl)
	}
	return a
}

func (t *Table) newToken(ts TokenSpec) *Token {
	size := ts.Size
	if size <= 0 {
		size = t.gridSize
	}
	return &Token{
		table:   t,
		id:      ts.ID,
		name:    ts.Name,
		actorID: ts.Actor,
		x:       ts.X,
		y:       ts.Y,
		size:    size,
		hidden:  ts.Hidden,
	}
}

func (t *Table) emit(name hooks.Name, e hooks.Event) {
	if t.bus == nil {
		return
	}
	t.bus.Call(name, e)
}

// Start announces the table to subscribers, like a client finishing load.
func (t *Table) Start() {
	t.emit(hooks.Ready, hooks.Event{})
	t.emit(hooks.CanvasReady, hooks.Event{})
}

// Name is the scene name.
func (t *Table) Name() string { return t.name }

// Bounds returns the scene size in canvas units.
func (t *Table) Bounds() (w, h float64) { return t.width, t.height }

// GridSize is the grid cell size in canvas units.
func (t *Table) GridSize() float64 { return t.gridSize }

// Tokens returns every placed token.
func (t *Table) Tokens() []host.Token {
	out := make([]host.Token, len(t.tokens))
	for i, tok := range t.tokens {
		out[i] = tok
	}
	return out
}

// Placed returns the concrete tokens in placement order.
func (t *Table) Placed() []*Token {
	return slices.Clone(t.tokens)
}

// Zoom is the camera scale factor.
func (t *Table) Zoom() float64 { return t.camera.Zoom }

// Camera returns the current view.
func (t *Table) Camera() Camera { return t.camera }

// Surface returns the drawing surface indicators are drawn on.
func (t *Table) Surface() host.Surface { return t.surface }

// Users returns every user.
func (t *Table) Users() []host.User {
	out := make([]host.User, len(t.users))
	for i, u := range t.users {
		out[i] = u
	}
	return out
}

// CurrentUser is the user this client runs as.
func (t *Table) CurrentUser() host.User { return t.current }

// SwitchUser changes the viewing user and redraws the canvas. Selection is
// dropped, as on a real client reconnect.
func (t *Table) SwitchUser(id string) error {
	for _, u := range t.users {
		if u.id == id {
			t.current = u
			t.ReleaseAll()
			t.emit(hooks.CanvasReady, hooks.Event{})
			return nil
		}
	}
	return fmt.Errorf("user %q: %w", id, ErrUnknownUser)
}

// Token looks up a token by id.
func (t *Table) Token(id string) (*Token, bool) {
	for _, tok := range t.tokens {
		if tok.id == id {
			return tok, true
		}
	}
	return nil, false
}

// Actor looks up an actor by id.
func (t *Table) Actor(id string) (*Actor, bool) {
	a, ok := t.actors[id]
	return a, ok
}

// Pan moves the camera by a canvas-space offset.
func (t *Table) Pan(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	t.camera.X = math.Max(0, math.Min(t.width, t.camera.X+dx))
	t.camera.Y = math.Max(0, math.Min(t.height, t.camera.Y+dy))
	t.emit(hooks.CanvasPan, hooks.Event{})
}

// SetZoom sets the camera zoom, clamped to [MinZoom, MaxZoom].
func (t *Table) SetZoom(z float64) {
	z = clampZoom(z)
	if z == t.camera.Zoom {
		return
	}
	t.camera.Zoom = z
	t.emit(hooks.CanvasPan, hooks.Event{})
}

// ZoomBy multiplies the camera zoom by factor.
func (t *Table) ZoomBy(factor float64) {
	t.SetZoom(t.camera.Zoom * factor)
}

// MoveToken moves a token to a canvas position.
func (t *Table) MoveToken(id string, x, y float64) error {
	tok, ok := t.Token(id)
	if !ok {
		return fmt.Errorf("token %q: %w", id, ErrUnknownToken)
	}
	tok.x, tok.y = x, y
	t.emit(hooks.UpdateToken, hooks.Event{Token: tok})
	return nil
}

// SetHidden toggles a token's GM-hidden flag.
func (t *Table) SetHidden(id string, hidden bool) error {
	tok, ok := t.Token(id)
	if !ok {
		return fmt.Errorf("token %q: %w", id, ErrUnknownToken)
	}
	tok.hidden = hidden
	t.emit(hooks.UpdateToken, hooks.Event{Token: tok})
	return nil
}

// AddToken places a new token.
func (t *Table) AddToken(ts TokenSpec) (*Token, error) {
	if _, ok := t.Token(ts.ID); ok || ts.ID == "" {
		return nil, fmt.Errorf("token %q: %w", ts.ID, ErrDuplicateID)
	}
	tok := t.newToken(ts)
	t.tokens = append(t.tokens, tok)
	t.emit(hooks.CreateToken, hooks.Event{Token: tok})
	return tok, nil
}

// RemoveToken deletes a token. A controlled token is released first.
func (t *Table) RemoveToken(id string) error {
	i := slices.IndexFunc(t.tokens, func(tok *Token) bool { return tok.id == id })
	if i < 0 {
		return fmt.Errorf("token %q: %w", id, ErrUnknownToken)
	}
	tok := t.tokens[i]
	if t.controlled[id] {
		t.Control(id, false)
	}
	t.tokens = slices.Delete(t.tokens, i, i+1)
	t.emit(hooks.DeleteToken, hooks.Event{Token: tok})
	return nil
}

// AddActor creates an actor.
func (t *Table) AddActor(as ActorSpec) error {
	if _, ok := t.actors[as.ID]; ok || as.ID == "" {
		return fmt.Errorf("actor %q: %w", as.ID, ErrDuplicateID)
	}
	t.actors[as.ID] = newActor(as)
	t.emit(hooks.CreateActor, hooks.Event{ActorID: as.ID})
	return nil
}

// RemoveActor deletes an actor. Its tokens stay placed without an actor.
func (t *Table) RemoveActor(id string) error {
	if _, ok := t.actors[id]; !ok {
		return fmt.Errorf("actor %q: %w", id, ErrUnknownActor)
	}
	delete(t.actors, id)
	t.emit(hooks.DeleteActor, hooks.Event{ActorID: id})
	return nil
}

// SetActorKind changes an actor's kind tag.
func (t *Table) SetActorKind(id, kind string) error {
	a, ok := t.actors[id]
	if !ok {
		return fmt.Errorf("actor %q: %w", id, ErrUnknownActor)
	}
	a.kind = kind
	t.emit(hooks.UpdateActor, hooks.Event{ActorID: id})
	return nil
}

// Control selects or releases a token on this client. Players may only
// control tokens they own.
func (t *Table) Control(id string, controlled bool) error {
	tok, ok := t.Token(id)
	if !ok {
		return fmt.Errorf("token %q: %w", id, ErrUnknownToken)
	}
	if controlled && !tok.Owned() {
		t.log.Debug().Str("token", id).Msg("control denied, not owner")
		return nil
	}
	if t.controlled[id] == controlled {
		return nil
	}
	if controlled {
		t.controlled[id] = true
	} else {
		delete(t.controlled, id)
	}
	t.emit(hooks.ControlToken, hooks.Event{Token: tok, Controlled: controlled})
	return nil
}

// ReleaseAll deselects every token.
func (t *Table) ReleaseAll() {
	clear(t.controlled)
	t.emit(hooks.ReleaseAll, hooks.Event{})
}

// Controlled returns the ids of the controlled tokens in placement order.
func (t *Table) Controlled() []string {
	var out []string
	for _, tok := range t.tokens {
		if t.controlled[tok.id] {
			out = append(out, tok.id)
		}
	}
	return out
}

// TokenAt returns the visible token nearest to a canvas point within radius.
func (t *Table) TokenAt(x, y, radius float64) (*Token, bool) {
	best2 := radius * radius
	var hit *Token
	for _, tok := range t.tokens {
		if !tok.Visible() {
			continue
		}
		dx, dy := tok.x-x, tok.y-y
		// Squared distances avoid a sqrt per token.
		if d2 := dx*dx + dy*dy; d2 <= best2 {
			best2 = d2
			hit = tok
		}
	}
	return hit, hit != nil
}
