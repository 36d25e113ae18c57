// Package surface holds the z-ordered layer list shared by the drawing
// backends. A backend embeds Layers to satisfy host.Surface and replays the
// recorded batches in its own draw call.
package surface

import (
	"cmp"
	"slices"

	"github.com/Garsondee/map-awareness/internal/host"
)

// Layer is one Graphics handle: the batches filled into it since creation.
type Layer struct {
	owner   *Layers
	z       int
	seq     uint64
	batches []host.Batch
}

// Fill records a batch. Fills on a destroyed layer are dropped.
func (l *Layer) Fill(b host.Batch) {
	if l.owner == nil {
		return
	}
	b.Circles = slices.Clone(b.Circles)
	l.batches = append(l.batches, b)
}

// Destroy detaches the layer from its surface. Calling it twice is harmless.
func (l *Layer) Destroy() {
	if l.owner == nil {
		return
	}
	l.owner.remove(l)
	l.owner = nil
	l.batches = nil
}

// Z is the layer's stacking order.
func (l *Layer) Z() int { return l.z }

// Batches returns the recorded batches in fill order.
func (l *Layer) Batches() []host.Batch { return l.batches }

// Layers is an ordered set of live layers. The zero value is ready to use.
type Layers struct {
	list []*Layer
	seq  uint64
}

// NewGraphics adds a layer at z. Layers with equal z stack in creation order.
func (s *Layers) NewGraphics(z int) host.Graphics {
	s.seq++
	l := &Layer{owner: s, z: z, seq: s.seq}
	s.list = append(s.list, l)
	slices.SortStableFunc(s.list, func(a, b *Layer) int {
		if c := cmp.Compare(a.z, b.z); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return l
}

func (s *Layers) remove(l *Layer) {
	s.list = slices.DeleteFunc(s.list, func(x *Layer) bool { return x == l })
}

// Live returns the attached layers bottom to top.
func (s *Layers) Live() []*Layer {
	return slices.Clone(s.list)
}

// Each calls fn for every batch of every live layer, bottom to top.
func (s *Layers) Each(fn func(z int, b host.Batch)) {
	for _, l := range s.list {
		for _, b := range l.batches {
			fn(l.z, b)
		}
	}
}

// Circles counts the circles across all live layers.
func (s *Layers) Circles() int {
	n := 0
	s.Each(func(_ int, b host.Batch) { n += len(b.Circles) })
	return n
}
