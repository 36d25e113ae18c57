package awareness

import "github.com/Garsondee/map-awareness/internal/host"

// classified is one eligible token after classification.
type classified struct {
	circle host.Circle
	actor  host.Actor
	result Result
}

// categoryBatches groups categorical tokens into one batch per non-empty
// category, in draw order.
func categoryBatches(items []classified, colors *ColorCache) []host.Batch {
	var groups [categoryCount][]host.Circle
	for _, it := range items {
		if it.result.PlayerColor {
			continue
		}
		groups[it.result.Category] = append(groups[it.result.Category], it.circle)
	}

	out := make([]host.Batch, 0, categoryCount)
	for _, cat := range Categories {
		if len(groups[cat]) == 0 {
			continue
		}
		out = append(out, host.Batch{
			Color:   colors.Color(cat),
			Opacity: 1,
			Circles: groups[cat],
		})
	}
	return out
}

// playerBatches produces one single-circle batch per player-colored token.
func playerBatches(items []classified, resolve func(host.Actor) OwnerColor) []host.Batch {
	var out []host.Batch
	for _, it := range items {
		if !it.result.PlayerColor {
			continue
		}
		oc := resolve(it.actor)
		out = append(out, host.Batch{
			Color:   oc.Color,
			Opacity: oc.Opacity,
			Circles: []host.Circle{it.circle},
		})
	}
	return out
}
