package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = "testmod"

func radiusDescriptor(onChange func(any)) Descriptor {
	return Descriptor{
		Name:     "Radius",
		Type:     TypeNumber,
		Default:  40,
		Range:    &Range{Min: 10, Max: 200, Step: 5},
		OnChange: onChange,
	}
}

func TestRegisterAndGetDefault(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(ns, "baseRadius", radiusDescriptor(nil)))

	v, err := s.Get(ns, "baseRadius")
	require.NoError(t, err)
	assert.Equal(t, 40.0, v)
	assert.Equal(t, 40.0, s.Float(ns, "baseRadius"))
}

func TestRegisterDuplicate(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(ns, "baseRadius", radiusDescriptor(nil)))
	err := s.Register(ns, "baseRadius", radiusDescriptor(nil))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRegisterRejectsBadDefault(t *testing.T) {
	s := New()
	d := radiusDescriptor(nil)
	d.Default = 500
	assert.ErrorIs(t, s.Register(ns, "baseRadius", d), ErrOutOfRange)
}

func TestSetRunsOnChangeSynchronously(t *testing.T) {
	s := New()
	var seen []any
	require.NoError(t, s.Register(ns, "baseRadius", radiusDescriptor(func(v any) {
		seen = append(seen, v)
	})))

	require.NoError(t, s.Set(ns, "baseRadius", 80))
	assert.Equal(t, []any{80.0}, seen)
	assert.Equal(t, 80.0, s.Float(ns, "baseRadius"))
}

func TestSetRejectsOutOfRangeAndKeepsValue(t *testing.T) {
	s := New()
	called := false
	require.NoError(t, s.Register(ns, "baseRadius", radiusDescriptor(func(any) { called = true })))

	err := s.Set(ns, "baseRadius", 5)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.False(t, called)
	assert.Equal(t, 40.0, s.Float(ns, "baseRadius"))
}

func TestSetWrongType(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(ns, "usePlayerColors", Descriptor{Type: TypeBoolean, Default: false}))
	assert.ErrorIs(t, s.Set(ns, "usePlayerColors", "yes"), ErrWrongType)
}

func TestUnregistered(t *testing.T) {
	s := New()
	_, err := s.Get(ns, "missing")
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.ErrorIs(t, s.Set(ns, "missing", 1), ErrNotRegistered)
	assert.Equal(t, "", s.String(ns, "missing"))
}

func TestColorIsNotValidated(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(ns, "npcColor", Descriptor{Type: TypeColor, Default: "#00ff00"}))
	require.NoError(t, s.Set(ns, "npcColor", "not a color"))
	assert.Equal(t, "not a color", s.String(ns, "npcColor"))
}

func TestEntriesKeepRegistrationOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(ns, "b", Descriptor{Type: TypeBoolean, Default: true}))
	require.NoError(t, s.Register(ns, "a", Descriptor{Type: TypeString, Default: "x"}))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Key)
	assert.Equal(t, "a", entries[1].Key)
	assert.Equal(t, ScopeClient, entries[0].Scope)
}

func TestPersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client", "settings.toml")

	first := New(WithFile(path))
	require.NoError(t, first.Register(ns, "baseRadius", radiusDescriptor(nil)))
	require.NoError(t, first.Register(ns, "npcColor", Descriptor{Type: TypeColor, Default: "#00ff00"}))
	require.NoError(t, first.Register(ns, "shared", Descriptor{Scope: ScopeWorld, Type: TypeBoolean, Default: false}))
	require.NoError(t, first.Set(ns, "baseRadius", 120))
	require.NoError(t, first.Set(ns, "npcColor", "#123456"))
	require.NoError(t, first.Set(ns, "shared", true))

	second := New(WithFile(path))
	require.NoError(t, second.Register(ns, "baseRadius", radiusDescriptor(nil)))
	require.NoError(t, second.Register(ns, "npcColor", Descriptor{Type: TypeColor, Default: "#00ff00"}))
	require.NoError(t, second.Register(ns, "shared", Descriptor{Scope: ScopeWorld, Type: TypeBoolean, Default: false}))
	require.NoError(t, second.Load())

	assert.Equal(t, 120.0, second.Float(ns, "baseRadius"))
	assert.Equal(t, "#123456", second.String(ns, "npcColor"))
	assert.False(t, second.Bool(ns, "shared"), "world scope is not persisted per client")
}

func TestLoadMissingFile(t *testing.T) {
	s := New(WithFile(filepath.Join(t.TempDir(), "absent.toml")))
	require.NoError(t, s.Register(ns, "baseRadius", radiusDescriptor(nil)))
	require.NoError(t, s.Load())
	assert.Equal(t, 40.0, s.Float(ns, "baseRadius"))
}
