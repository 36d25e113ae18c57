package awareness

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/map-awareness/internal/host"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want host.Color
	}{
		{"#ff0000", 0xff0000},
		{"00ff00", 0x00ff00},
		{"0x0000ff", 0x0000ff},
		{"0XABCDEF", 0xabcdef},
		{" #123456 ", 0x123456},
		{"#fff", 0x000fff},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseColorRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "#", "0x", "#gg0000", "#1234567", "red", "-12"} {
		_, err := ParseColor(in)
		assert.ErrorIs(t, err, ErrBadColor, in)
	}
}

func TestColorCacheRefresh(t *testing.T) {
	values := map[string]string{
		"yourCharacterColor":     "#00bfff",
		"selectedCharacterColor": "#ff00ff",
		"characterColor":         "#ff0000",
		"npcColor":               "#00ff00",
		"otherColor":             "#ffff00",
	}
	c := NewColorCache(func(k string) string { return values[k] }, zerolog.Nop())
	c.Refresh()

	assert.Equal(t, host.Color(0x00bfff), c.Color(CategoryYourCharacter))
	assert.Equal(t, host.Color(0xff00ff), c.Color(CategorySelectedCharacter))
	assert.Equal(t, host.Color(0xff0000), c.Color(CategoryCharacter))
	assert.Equal(t, host.Color(0x00ff00), c.Color(CategoryNPC))
	assert.Equal(t, host.Color(0xffff00), c.Color(CategoryOther))
}

func TestColorCacheMalformedKeepsPreviousAndUpdatesOthers(t *testing.T) {
	values := map[string]string{
		"yourCharacterColor":     "#000001",
		"selectedCharacterColor": "#000002",
		"characterColor":         "#000003",
		"npcColor":               "#000004",
		"otherColor":             "#000005",
	}
	c := NewColorCache(func(k string) string { return values[k] }, zerolog.Nop())
	c.Refresh()

	values["npcColor"] = "not-a-color"
	values["yourCharacterColor"] = "#100001"
	values["selectedCharacterColor"] = "#100002"
	values["characterColor"] = "#100003"
	values["otherColor"] = "#100005"

	require.NotPanics(t, c.Refresh)
	assert.Equal(t, host.Color(0x000004), c.Color(CategoryNPC), "malformed value keeps previous color")
	assert.Equal(t, host.Color(0x100001), c.Color(CategoryYourCharacter))
	assert.Equal(t, host.Color(0x100002), c.Color(CategorySelectedCharacter))
	assert.Equal(t, host.Color(0x100003), c.Color(CategoryCharacter))
	assert.Equal(t, host.Color(0x100005), c.Color(CategoryOther))
}

func TestColorCacheMalformedWithoutPreviousIsBlack(t *testing.T) {
	c := NewColorCache(func(string) string { return "zzz" }, zerolog.Nop())
	c.Refresh()
	for _, cat := range Categories {
		assert.Equal(t, host.Black, c.Color(cat), cat.String())
	}
	assert.Equal(t, host.Black, c.Color(Category(42)))
}
