// Package host declares the capabilities the awareness overlay needs from the
// application it runs inside: a canvas of placed tokens, a directory of users,
// and a drawing surface.
//
// Hosts implement these interfaces over their own data model. Optional fields
// are expressed as (value, ok) accessors rather than nil probing.
package host

import (
	"image/color"
	"math"
)

// Permission is an actor ownership level.
type Permission int

const (
	PermissionNone Permission = iota
	PermissionLimited
	PermissionObserver
	PermissionOwner
)

// DefaultOwnership is the wildcard key of an actor ownership map.
const DefaultOwnership = "default"

// Point is a position in canvas coordinates.
type Point struct {
	X, Y float64
}

// Actor is a game entity definition a token represents.
type Actor interface {
	ID() string
	// Kind is an open tag; "character" and "npc" have special meaning.
	Kind() string
	// Ownership maps user id (or DefaultOwnership) to a permission level.
	Ownership() map[string]Permission
}

// Token is a placed instance of an actor on the current map.
type Token interface {
	ID() string
	Center() Point
	// Actor returns false when the token has no backing actor.
	Actor() (Actor, bool)
	// Visible reports whether the current user may see the token.
	Visible() bool
	// Owned reports whether the current user owns the token.
	Owned() bool
}

// User is a connected player or GM.
type User interface {
	ID() string
	Name() string
	IsGM() bool
	// Character returns the id of the user's assigned actor, if any.
	Character() (string, bool)
	// Color returns the user's custom display color as entered, if any.
	Color() (string, bool)
}

// Canvas is the host's map view.
type Canvas interface {
	// Tokens returns every token currently placed on the map.
	Tokens() []Token
	// Zoom is the current view scale factor.
	Zoom() float64
	Surface() Surface
}

// Directory is the host's user list.
type Directory interface {
	Users() []User
	CurrentUser() User
}

// Host bundles everything the overlay reads from its application.
type Host interface {
	Canvas
	Directory
}

// Circle is a filled circle in canvas coordinates.
type Circle struct {
	X, Y, R float64
}

// Batch is a set of circles sharing one fill.
type Batch struct {
	Color   Color
	Opacity float64
	Circles []Circle
}

// Graphics is a batchable vector object attached to the view's display stack.
type Graphics interface {
	Fill(b Batch)
	// Destroy detaches the object and releases its host resources.
	Destroy()
}

// Surface creates Graphics handles at a z-order.
type Surface interface {
	NewGraphics(z int) Graphics
}

// Color is a packed 0xRRGGBB value.
type Color uint32

// Black is the fallback for unreadable colors.
const Black Color = 0x000000

// RGB unpacks the color channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// NRGBA converts to an image color with the given opacity in [0, 1].
func (c Color) NRGBA(opacity float64) color.NRGBA {
	r, g, b := c.RGB()
	a := math.Max(0, math.Min(1, opacity))
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}
