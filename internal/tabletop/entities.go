package tabletop

import (
	"maps"

	"github.com/Garsondee/map-awareness/internal/host"
)

// User is a connected player or GM.
type User struct {
	id        string
	name      string
	gm        bool
	character string
	color     string
}

func (u *User) ID() string   { return u.id }
func (u *User) Name() string { return u.name }
func (u *User) IsGM() bool   { return u.gm }

func (u *User) Character() (string, bool) {
	return u.character, u.character != ""
}

func (u *User) Color() (string, bool) {
	return u.color, u.color != ""
}

// Actor is a game entity definition.
type Actor struct {
	id        string
	name      string
	kind      string
	ownership map[string]host.Permission
}

func (a *Actor) ID() string   { return a.id }
func (a *Actor) Name() string { return a.name }
func (a *Actor) Kind() string { return a.kind }

// Ownership returns a copy of the ownership map.
func (a *Actor) Ownership() map[string]host.Permission {
	return maps.Clone(a.ownership)
}

// level is the effective permission of a user, falling back to the default
// entry.
func (a *Actor) level(userID string) host.Permission {
	if lvl, ok := a.ownership[userID]; ok {
		return lvl
	}
	return a.ownership[host.DefaultOwnership]
}

// Token is a placed actor on the table.
type Token struct {
	table   *Table
	id      string
	name    string
	actorID string
	x, y    float64
	size    float64
	hidden  bool
}

func (t *Token) ID() string   { return t.id }
func (t *Token) Name() string { return t.name }

// Center is the token center in canvas coordinates.
func (t *Token) Center() host.Point {
	return host.Point{X: t.x, Y: t.y}
}

// Size is the token edge length in canvas units.
func (t *Token) Size() float64 { return t.size }

// Hidden reports the GM-hidden flag.
func (t *Token) Hidden() bool { return t.hidden }

// Actor resolves the backing actor, which may have been deleted.
func (t *Token) Actor() (host.Actor, bool) {
	a, ok := t.table.actors[t.actorID]
	if !ok {
		return nil, false
	}
	return a, true
}

// Visible reports whether the current user can see the token.
func (t *Token) Visible() bool {
	return !t.hidden || t.table.current.gm
}

// Owned reports whether the current user owns the token. GMs own everything.
func (t *Token) Owned() bool {
	if t.table.current.gm {
		return true
	}
	a, ok := t.table.actors[t.actorID]
	if !ok {
		return false
	}
	return a.level(t.table.current.id) >= host.PermissionOwner
}

// Controlled reports whether the token is currently selected on this client.
func (t *Token) Controlled() bool {
	return t.table.controlled[t.id]
}
