package awareness

import "github.com/Garsondee/map-awareness/internal/host"

// Opacities for player-colored indicators.
const (
	OpacityMine   = 1.0
	OpacityOthers = 0.8
)

// OwnerColor is the resolved fill for a player-colored token.
type OwnerColor struct {
	Color   host.Color
	Opacity float64
	// OwnerID is empty when no owning user was found.
	OwnerID string
}

// ResolveOwnerColor picks the fill for a character token under player colors.
//
// The owner is the user whose assigned character is the actor, or failing
// that the user with the highest explicit ownership level (the "default"
// entry is ignored, ties go to the lowest user id). The owner's custom color
// is used when it parses; otherwise fallback. Indicators of the viewing
// user's own tokens are opaque, everyone else's are dimmed.
func ResolveOwnerColor(a host.Actor, users []host.User, viewerID string, fallback host.Color) OwnerColor {
	owner := findOwner(a, users)
	out := OwnerColor{Color: fallback, Opacity: OpacityOthers}
	if owner == nil {
		return out
	}
	out.OwnerID = owner.ID()
	if raw, ok := owner.Color(); ok {
		if c, err := ParseColor(raw); err == nil {
			out.Color = c
		}
	}
	if viewerID != "" && owner.ID() == viewerID {
		out.Opacity = OpacityMine
	}
	return out
}

func findOwner(a host.Actor, users []host.User) host.User {
	byID := make(map[string]host.User, len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		if id, ok := u.Character(); ok && id == a.ID() {
			return u
		}
		byID[u.ID()] = u
	}

	var (
		best      host.User
		bestLevel = host.PermissionNone
	)
	for uid, level := range a.Ownership() {
		if uid == host.DefaultOwnership || level <= host.PermissionNone {
			continue
		}
		u, ok := byID[uid]
		if !ok {
			continue
		}
		if best == nil || level > bestLevel || (level == bestLevel && uid < best.ID()) {
			best, bestLevel = u, level
		}
	}
	return best
}
