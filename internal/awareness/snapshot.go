package awareness

import "github.com/Garsondee/map-awareness/internal/host"

// placed is a token with its resolved actor.
type placed struct {
	token host.Token
	actor host.Actor
}

// Snapshot records which actor-backed tokens are on the map. It is rebuilt
// from scratch on every Resnapshot.
type Snapshot struct {
	placed []placed
	byKind map[string][]host.Token
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{byKind: make(map[string][]host.Token)}
}

// Resnapshot reads every placed token from the canvas, drops tokens without an
// actor and partitions the rest by actor kind.
func (s *Snapshot) Resnapshot(c host.Canvas) {
	s.placed = s.placed[:0]
	s.byKind = make(map[string][]host.Token)
	for _, t := range c.Tokens() {
		if t == nil {
			continue
		}
		a, ok := t.Actor()
		if !ok || a == nil {
			continue
		}
		s.placed = append(s.placed, placed{token: t, actor: a})
		s.byKind[a.Kind()] = append(s.byKind[a.Kind()], t)
	}
}

// Tokens returns the actor-backed tokens in canvas order.
func (s *Snapshot) Tokens() []host.Token {
	out := make([]host.Token, len(s.placed))
	for i, p := range s.placed {
		out[i] = p.token
	}
	return out
}

// ByKind returns the tokens whose actor has the given kind.
func (s *Snapshot) ByKind(kind string) []host.Token {
	return s.byKind[kind]
}

// Counts returns the number of tokens per actor kind.
func (s *Snapshot) Counts() map[string]int {
	out := make(map[string]int, len(s.byKind))
	for k, ts := range s.byKind {
		out[k] = len(ts)
	}
	return out
}

// Len is the number of actor-backed tokens.
func (s *Snapshot) Len() int {
	return len(s.placed)
}
