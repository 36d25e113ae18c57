package awareness

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Garsondee/map-awareness/internal/host"
)

// ErrBadColor reports an unparseable color string.
var ErrBadColor = errors.New("malformed color")

// ParseColor reads a hex color given as "#rrggbb", "rrggbb" or "0xrrggbb".
// Up to six hex digits are accepted.
func ParseColor(s string) (host.Color, error) {
	h := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(h, "#"):
		h = h[1:]
	case strings.HasPrefix(h, "0x"), strings.HasPrefix(h, "0X"):
		h = h[2:]
	}
	if h == "" || len(h) > 6 {
		return host.Black, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return host.Black, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return host.Color(n), nil
}

// ColorCache holds the parsed color of every category.
type ColorCache struct {
	read   func(key string) string
	colors [categoryCount]host.Color
	log    zerolog.Logger
}

// NewColorCache creates a cache reading hex strings through read. Every entry
// starts black until the first Refresh.
func NewColorCache(read func(key string) string, log zerolog.Logger) *ColorCache {
	return &ColorCache{read: read, log: log}
}

// Refresh re-reads all category colors. A malformed value keeps the previous
// color for that category; the others still update.
func (c *ColorCache) Refresh() {
	for _, cat := range Categories {
		raw := c.read(cat.SettingKey())
		col, err := ParseColor(raw)
		if err != nil {
			c.log.Warn().Err(err).Str("category", cat.String()).Msg("keeping previous indicator color")
			continue
		}
		c.colors[cat] = col
	}
}

// Color returns the cached color for a category.
func (c *ColorCache) Color(cat Category) host.Color {
	if cat < 0 || cat >= categoryCount {
		return host.Black
	}
	return c.colors[cat]
}
