package hooks

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallRunsHandlersInOrder(t *testing.T) {
	b := New(zerolog.Nop())
	var got []string
	b.On(CanvasPan, func(Event) { got = append(got, "first") })
	b.On(CanvasPan, func(Event) { got = append(got, "second") })

	n := b.Call(CanvasPan, Event{})
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestCallSetsName(t *testing.T) {
	b := New(zerolog.Nop())
	var seen Name
	b.On(ControlToken, func(e Event) { seen = e.Name })
	b.Call(ControlToken, Event{Controlled: true})
	assert.Equal(t, ControlToken, seen)
}

func TestOnceRunsOnce(t *testing.T) {
	b := New(zerolog.Nop())
	calls := 0
	b.Once(Ready, func(Event) { calls++ })

	b.Call(Ready, Event{})
	b.Call(Ready, Event{})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Len(Ready))
}

func TestOff(t *testing.T) {
	b := New(zerolog.Nop())
	calls := 0
	id := b.On(UpdateToken, func(Event) { calls++ })
	b.Off(id)
	b.Off(9999)

	assert.Equal(t, 0, b.Call(UpdateToken, Event{}))
	assert.Equal(t, 0, calls)
}

func TestPanickingHandlerIsIsolated(t *testing.T) {
	var buf bytes.Buffer
	b := New(zerolog.New(&buf))
	after := false
	b.On(UpdateScene, func(Event) { panic("boom") })
	b.On(UpdateScene, func(Event) { after = true })

	require.NotPanics(t, func() { b.Call(UpdateScene, Event{}) })
	assert.True(t, after, "handlers after a panic still run")
	assert.Contains(t, buf.String(), "boom")
}

func TestSubscribeDuringDispatch(t *testing.T) {
	b := New(zerolog.Nop())
	inner := 0
	b.On(CreateToken, func(Event) {
		b.On(CreateToken, func(Event) { inner++ })
	})

	b.Call(CreateToken, Event{})
	assert.Equal(t, 0, inner, "new subscriber waits for the next call")
	b.Call(CreateToken, Event{})
	assert.Equal(t, 1, inner)
}

func TestStructuralExcludesSelection(t *testing.T) {
	for _, n := range Structural {
		assert.NotEqual(t, ControlToken, n)
		assert.NotEqual(t, ReleaseAll, n)
	}
	assert.Len(t, Structural, 10)
}
