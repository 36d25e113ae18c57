// Package hooks dispatches named host events to subscribers. Handlers run
// synchronously, in registration order, on the caller's goroutine.
package hooks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Garsondee/map-awareness/internal/host"
	"github.com/Garsondee/map-awareness/internal/telemetry"
)

// Name identifies a hook.
type Name string

const (
	Ready        Name = "ready"
	CanvasReady  Name = "canvasReady"
	UpdateScene  Name = "updateScene"
	CreateActor  Name = "createActor"
	DeleteActor  Name = "deleteActor"
	UpdateActor  Name = "updateActor"
	CreateToken  Name = "createToken"
	DeleteToken  Name = "deleteToken"
	UpdateToken  Name = "updateToken"
	CanvasPan    Name = "canvasPan"
	ControlToken Name = "controlToken"
	ReleaseAll   Name = "releaseAll"
)

// Structural lists the hooks that change which tokens exist or where the view
// is, as opposed to selection changes.
var Structural = []Name{
	Ready, CanvasReady, UpdateScene,
	CreateActor, DeleteActor, UpdateActor,
	CreateToken, DeleteToken, UpdateToken,
	CanvasPan,
}

// Event carries hook arguments. Fields not relevant to a hook are zero.
type Event struct {
	Name       Name
	Token      host.Token
	ActorID    string
	Controlled bool
}

// Handler receives an event.
type Handler func(Event)

// ID identifies a subscription.
type ID uint64

type subscription struct {
	id   ID
	fn   Handler
	once bool
}

// Bus routes events to subscribers.
type Bus struct {
	subs   map[Name][]subscription
	nextID ID
	log    zerolog.Logger

	dispatched metric.Int64Counter
	panicked   metric.Int64Counter
}

// New creates an empty bus.
func New(log zerolog.Logger) *Bus {
	m := telemetry.Meter("hooks")
	return &Bus{
		subs:       make(map[Name][]subscription),
		log:        log,
		dispatched: telemetry.Counter(m, "hooks.events.dispatched", "Hook events dispatched"),
		panicked:   telemetry.Counter(m, "hooks.handlers.panicked", "Hook handlers recovered from panic"),
	}
}

// On subscribes fn to name.
func (b *Bus) On(name Name, fn Handler) ID {
	return b.add(name, fn, false)
}

// Once subscribes fn to the next call of name only.
func (b *Bus) Once(name Name, fn Handler) ID {
	return b.add(name, fn, true)
}

func (b *Bus) add(name Name, fn Handler, once bool) ID {
	b.nextID++
	b.subs[name] = append(b.subs[name], subscription{id: b.nextID, fn: fn, once: once})
	return b.nextID
}

// Off removes a subscription. Unknown ids are ignored.
func (b *Bus) Off(id ID) {
	for name, subs := range b.subs {
		for i, s := range subs {
			if s.id == id {
				b.subs[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Call dispatches e to every subscriber of name and returns how many ran. A
// panicking handler is logged and skipped; the rest still run.
func (b *Bus) Call(name Name, e Event) int {
	e.Name = name
	subs := b.subs[name]
	if len(subs) == 0 {
		return 0
	}

	// Snapshot so handlers may subscribe or unsubscribe while we iterate.
	run := make([]subscription, len(subs))
	copy(run, subs)

	kept := subs[:0]
	for _, s := range subs {
		if !s.once {
			kept = append(kept, s)
		}
	}
	b.subs[name] = kept

	attrs := metric.WithAttributes(attribute.String("hook", string(name)))
	b.dispatched.Add(context.Background(), 1, attrs)
	b.log.Trace().Str("hook", string(name)).Int("handlers", len(run)).Msg("dispatching")

	for _, s := range run {
		if err := b.invoke(s.fn, e); err != nil {
			b.panicked.Add(context.Background(), 1, attrs)
			b.log.Error().Err(err).Str("hook", string(name)).Uint64("subscription", uint64(s.id)).Msg("hook handler failed")
		}
	}
	return len(run)
}

func (b *Bus) invoke(fn Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn(e)
	return nil
}

// Len reports the number of subscribers for name.
func (b *Bus) Len(name Name) int {
	return len(b.subs[name])
}
