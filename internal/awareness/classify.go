package awareness

import "github.com/Garsondee/map-awareness/internal/host"

// Candidate is the token data the classifier looks at.
type Candidate struct {
	TokenID string
	ActorID string
	Kind    string
	// Owned reports whether the viewing user owns the token.
	Owned bool
}

// Viewer is the user the indicators are drawn for.
type Viewer struct {
	UserID string
	GM     bool
	// CharacterID is the user's assigned actor, empty when none.
	CharacterID string
}

// Result is a classification. When PlayerColor is set the token is colored by
// its owner instead of by Category.
type Result struct {
	Category    Category
	PlayerColor bool
}

// Membership answers whether a token id is selected.
type Membership interface {
	Contains(id string) bool
}

// Classify maps a token to its indicator category. The first matching rule
// wins:
//
//  1. player colors enabled and a character token: owner color
//  2. the viewer's own assigned character, owned by the viewer
//  3. selected by a GM viewer
//  4. character
//  5. npc
//  6. other
func Classify(c Candidate, v Viewer, selected Membership, usePlayerColors bool) Result {
	switch {
	case usePlayerColors && c.Kind == KindCharacter:
		return Result{Category: CategoryCharacter, PlayerColor: true}
	case c.Kind == KindCharacter && c.Owned && v.CharacterID != "" && v.CharacterID == c.ActorID:
		return Result{Category: CategoryYourCharacter}
	case v.GM && selected != nil && selected.Contains(c.TokenID):
		return Result{Category: CategorySelectedCharacter}
	case c.Kind == KindCharacter:
		return Result{Category: CategoryCharacter}
	case c.Kind == KindNPC:
		return Result{Category: CategoryNPC}
	default:
		return Result{Category: CategoryOther}
	}
}

// Eligible reports whether the viewer gets an indicator for t. GMs see every
// placed token; players only tokens the host marks visible to them.
func Eligible(t host.Token, v Viewer) bool {
	return v.GM || t.Visible()
}

// ViewerOf builds a Viewer from a host user. A nil user is an anonymous player.
func ViewerOf(u host.User) Viewer {
	if u == nil {
		return Viewer{}
	}
	v := Viewer{UserID: u.ID(), GM: u.IsGM()}
	if id, ok := u.Character(); ok {
		v.CharacterID = id
	}
	return v
}

func candidateOf(t host.Token, a host.Actor) Candidate {
	return Candidate{
		TokenID: t.ID(),
		ActorID: a.ID(),
		Kind:    a.Kind(),
		Owned:   t.Owned(),
	}
}
