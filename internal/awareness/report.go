package awareness

import (
	"fmt"
	"sort"
	"strings"
)

// Report renders a plain-text summary of the overlay state for bug reports.
func (m *Module) Report() string {
	var b strings.Builder
	viewer := ViewerOf(m.host.CurrentUser())
	p := m.params()
	last := m.renderer.Last()
	renders, skips := m.renderer.Counts()
	triggers, fires := m.scheduler.Counts()

	fmt.Fprintf(&b, "--- map awareness report ---\n")
	fmt.Fprintf(&b, "viewer=%q gm=%v character=%q\n", viewer.UserID, viewer.GM, viewer.CharacterID)
	fmt.Fprintf(&b, "zoom=%.3f threshold=%.2f baseRadius=%.0f playerColors=%v\n",
		m.host.Zoom(), p.Threshold, p.BaseRadius, m.store.Bool(Namespace, KeyUsePlayerColors))
	fmt.Fprintf(&b, "last render: zoom=%.3f shown=%v radius=%.1f batches=%d circles=%d live=%v\n",
		last.Zoom, last.Shown, last.Radius, last.Batches, last.Circles, m.renderer.Live())
	fmt.Fprintf(&b, "renders=%d skipped=%d triggers=%d refreshes=%d scheduler=%s\n",
		renders, skips, triggers, fires, m.scheduler.State())

	b.WriteString("colors:")
	for _, cat := range Categories {
		fmt.Fprintf(&b, " %s=#%06x", cat, uint32(m.colors.Color(cat)))
	}
	b.WriteByte('\n')

	counts := m.snapshot.Counts()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	fmt.Fprintf(&b, "tokens=%d", m.snapshot.Len())
	for _, k := range kinds {
		fmt.Fprintf(&b, " %s=%d", k, counts[k])
	}
	b.WriteByte('\n')

	if ids := m.selection.IDs(); len(ids) > 0 {
		fmt.Fprintf(&b, "selected: %s\n", strings.Join(ids, ", "))
	} else {
		b.WriteString("selected: (none)\n")
	}
	return b.String()
}
