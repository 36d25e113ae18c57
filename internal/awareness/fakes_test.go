package awareness

import (
	"time"

	"github.com/Garsondee/map-awareness/internal/host"
)

type fakeActor struct {
	id        string
	kind      string
	ownership map[string]host.Permission
}

func (a *fakeActor) ID() string { return a.id }
func (a *fakeActor) Kind() string { return a.kind }
func (a *fakeActor) Ownership() map[string]host.Permission { return a.ownership }

type fakeToken struct {
	id      string
	x, y    float64
	actor   *fakeActor
	visible bool
	owned   bool
}

func (t *fakeToken) ID() string { return t.id }
func (t *fakeToken) Center() host.Point { return host.Point{X: t.x, Y: t.y} }
func (t *fakeToken) Visible() bool { return t.visible }
func (t *fakeToken) Owned() bool { return t.owned }
func (t *fakeToken) Actor() (host.Actor, bool) {
	if t.actor == nil {
		return nil, false
	}
	return t.actor, true
}

type fakeUser struct {
	id        string
	gm        bool
	character string
	color     string
}

func (u *fakeUser) ID() string { return u.id }
func (u *fakeUser) Name() string { return u.id }
func (u *fakeUser) IsGM() bool { return u.gm }
func (u *fakeUser) Character() (string, bool) {
	return u.character, u.character != ""
}
func (u *fakeUser) Color() (string, bool) {
	return u.color, u.color != ""
}

// recordingGraphics captures fills until destroyed.
type recordingGraphics struct {
	z         int
	batches   []host.Batch
	destroyed bool
}

func (g *recordingGraphics) Fill(b host.Batch) { g.batches = append(g.batches, b) }
func (g *recordingGraphics) Destroy() { g.destroyed = true }

type recordingSurface struct {
	created []*recordingGraphics
}

func (s *recordingSurface) NewGraphics(z int) host.Graphics {
	g := &recordingGraphics{z: z}
	s.created = append(s.created, g)
	return g
}

// live returns the handles not yet destroyed.
func (s *recordingSurface) live() []*recordingGraphics {
	var out []*recordingGraphics
	for _, g := range s.created {
		if !g.destroyed {
			out = append(out, g)
		}
	}
	return out
}

func (s *recordingSurface) circles() int {
	n := 0
	for _, g := range s.live() {
		for _, b := range g.batches {
			n += len(b.Circles)
		}
	}
	return n
}

type fakeHost struct {
	tokens  []host.Token
	users   []host.User
	current host.User
	zoom    float64
	surface *recordingSurface
}

func newFakeHost(current *fakeUser) *fakeHost {
	return &fakeHost{
		current: current,
		users:   []host.User{current},
		zoom:    1,
		surface: &recordingSurface{},
	}
}

func (h *fakeHost) Tokens() []host.Token { return h.tokens }
func (h *fakeHost) Zoom() float64 { return h.zoom }
func (h *fakeHost) Surface() host.Surface { return h.surface }
func (h *fakeHost) Users() []host.User { return h.users }
func (h *fakeHost) CurrentUser() host.User { return h.current }
func (h *fakeHost) add(tokens ...*fakeToken) {
	for _, t := range tokens {
		h.tokens = append(h.tokens, t)
	}
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
