package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/map-awareness/internal/awareness"
	"github.com/Garsondee/map-awareness/internal/config"
	"github.com/Garsondee/map-awareness/internal/settings"
	"github.com/Garsondee/map-awareness/internal/surface/raster"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	s       *Session
	clock   *fakeClock
	surface *raster.Surface
	copied  []string
	cfg     config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:   &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		surface: raster.New(raster.View{Scale: 0.1}),
		cfg: config.Config{
			SettingsFile:   filepath.Join(t.TempDir(), "settings.toml"),
			DebounceWindow: 100 * time.Millisecond,
		},
	}
	s, err := Open(f.cfg, f.surface,
		WithClock(f.clock),
		WithClipboard(func(text string) error {
			f.copied = append(f.copied, text)
			return nil
		}),
	)
	require.NoError(t, err)
	f.s = s
	return f
}

func (f *fixture) settle() bool {
	f.clock.Advance(100 * time.Millisecond)
	return f.s.Tick()
}

func TestOpenUsesSampleSceneAndDebouncesFirstRefresh(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Ruined Crossroads", f.s.Table.Name())
	assert.False(t, f.s.Tick(), "first refresh waits for the debounce window")
	assert.Zero(t, f.surface.Circles())

	require.True(t, f.settle())
	last := f.s.Module.Renderer().Last()
	assert.True(t, last.Shown)
	// Eight tokens have actors; the GM also sees the hidden one.
	assert.Equal(t, 8, last.Circles)
	assert.Equal(t, 3, last.Batches)
	assert.Equal(t, 8, f.surface.Circles())
}

func TestClickSelectsForGM(t *testing.T) {
	f := newFixture(t)
	f.settle()

	require.True(t, f.s.Click(2900, 900, 20))
	assert.Equal(t, "selected tok-orc-1", f.s.Status())
	assert.True(t, f.s.Module.Selection().Contains("tok-orc-1"))
	assert.Equal(t, 4, f.s.Module.Renderer().Last().Batches, "selected color gets its own batch")

	require.True(t, f.s.Click(2900, 900, 20))
	assert.Equal(t, "released tok-orc-1", f.s.Status())
	assert.False(t, f.s.Module.Selection().Contains("tok-orc-1"))

	assert.False(t, f.s.Click(10, 10, 20))
}

func TestPlayerViewAndSelectionDenied(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.NextUser())
	assert.Equal(t, "alice", f.s.Table.CurrentUser().ID())
	assert.Equal(t, "viewing as Alice", f.s.Status())
	f.settle()

	last := f.s.Module.Renderer().Last()
	assert.Equal(t, 7, last.Circles, "hidden token is not drawn for players")
	assert.Equal(t, 4, last.Batches)

	require.True(t, f.s.Click(2900, 900, 20))
	assert.Equal(t, "tok-orc-1 is not yours to select", f.s.Status())
	assert.Zero(t, f.s.Module.Selection().Len())
}

func TestNextUserWraps(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.s.NextUser())
	}
	assert.Equal(t, "gm", f.s.Table.CurrentUser().ID())
}

func TestSettingsAdjustmentsRedrawAndPersist(t *testing.T) {
	f := newFixture(t)
	f.settle()

	require.NoError(t, f.s.AdjustRadius(RadiusStep))
	assert.Equal(t, "base radius 45", f.s.Status())
	assert.InDelta(t, 45/0.5*0.3, f.s.Module.Renderer().Last().Radius, 1e-9)

	require.NoError(t, f.s.TogglePlayerColors())
	assert.Equal(t, "player colors on", f.s.Status())
	require.NoError(t, f.s.Close())

	s, err := Open(f.cfg, raster.New(raster.View{Scale: 1}), WithClock(f.clock))
	require.NoError(t, err)
	assert.Equal(t, 45.0, s.Store.Float(awareness.Namespace, awareness.KeyBaseRadius))
	assert.True(t, s.Store.Bool(awareness.Namespace, awareness.KeyUsePlayerColors))
}

func TestAdjustRadiusRefusesOutOfRange(t *testing.T) {
	f := newFixture(t)
	err := f.s.AdjustRadius(1000)
	assert.ErrorIs(t, err, settings.ErrOutOfRange)
	assert.Equal(t, "base radius limit reached", f.s.Status())
	assert.Equal(t, 40.0, f.s.Store.Float(awareness.Namespace, awareness.KeyBaseRadius))
}

func TestCopyReport(t *testing.T) {
	f := newFixture(t)
	f.settle()
	require.NoError(t, f.s.CopyReport())
	require.Len(t, f.copied, 1)
	assert.Contains(t, f.copied[0], `viewer="gm"`)
	assert.Equal(t, "report copied", f.s.Status())

	f.s.clipboard = func(string) error { return errors.New("no display") }
	assert.Error(t, f.s.CopyReport())
	assert.Equal(t, "copy failed: no display", f.s.Status())
}

func TestPanAndZoomTriggerDebouncedRefresh(t *testing.T) {
	f := newFixture(t)
	f.settle()

	f.s.Zoom(4)
	f.s.Pan(100, 0)
	assert.False(t, f.s.Tick())
	require.True(t, f.settle())
	assert.False(t, f.s.Module.Renderer().Last().Shown, "zoom 2 is above the threshold")
	assert.Zero(t, f.surface.Circles())
}

func TestHUDLines(t *testing.T) {
	f := newFixture(t)
	f.settle()
	f.s.ReleaseAll()

	lines := f.s.HUDLines()
	assert.Contains(t, lines[0], "Game Master (GM)")
	assert.Contains(t, lines[1], "indicators: 8")
	assert.Equal(t, "> selection cleared", lines[len(lines)-1])
}

func TestOpenMissingScene(t *testing.T) {
	_, err := Open(config.Config{SceneFile: "/nonexistent/scene.toml", DebounceWindow: time.Millisecond}, raster.New(raster.View{Scale: 1}))
	assert.Error(t, err)
}
