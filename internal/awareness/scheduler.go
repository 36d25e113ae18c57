package awareness

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/Garsondee/map-awareness/internal/telemetry"
)

// DebounceWindow coalesces bursts of structural events.
const DebounceWindow = 100 * time.Millisecond

// Clock supplies the current time to the scheduler.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// SchedulerState is idle or pending.
type SchedulerState int

const (
	StateIdle SchedulerState = iota
	StatePending
)

func (s SchedulerState) String() string {
	if s == StatePending {
		return "pending"
	}
	return "idle"
}

// Scheduler is a trailing-edge debounce driven by the host loop. Trigger arms
// or re-arms the deadline; Poll, called once per loop iteration, runs the
// refresh once the deadline has passed. Nothing runs off the loop goroutine.
type Scheduler struct {
	clock    Clock
	window   time.Duration
	run      func()
	state    SchedulerState
	deadline time.Time

	triggers int
	fires    int

	triggerCtr metric.Int64Counter
	fireCtr    metric.Int64Counter
}

// NewScheduler creates an idle scheduler that calls run when a debounce
// window elapses.
func NewScheduler(clock Clock, window time.Duration, run func()) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if window <= 0 {
		window = DebounceWindow
	}
	m := telemetry.Meter("awareness")
	return &Scheduler{
		clock:      clock,
		window:     window,
		run:        run,
		triggerCtr: telemetry.Counter(m, "awareness.refresh.triggered", "Structural refresh triggers"),
		fireCtr:    telemetry.Counter(m, "awareness.refresh.fired", "Debounced refreshes executed"),
	}
}

// Trigger restarts the debounce window.
func (s *Scheduler) Trigger() {
	s.deadline = s.clock.Now().Add(s.window)
	s.state = StatePending
	s.triggers++
	s.triggerCtr.Add(context.Background(), 1)
}

// Poll runs the pending refresh if its window has elapsed and reports whether
// it ran.
func (s *Scheduler) Poll() bool {
	if s.state != StatePending || s.clock.Now().Before(s.deadline) {
		return false
	}
	return s.fire()
}

// Flush runs a pending refresh immediately.
func (s *Scheduler) Flush() bool {
	if s.state != StatePending {
		return false
	}
	return s.fire()
}

func (s *Scheduler) fire() bool {
	s.state = StateIdle
	s.fires++
	s.fireCtr.Add(context.Background(), 1)
	s.run()
	return true
}

// Cancel drops a pending refresh.
func (s *Scheduler) Cancel() {
	s.state = StateIdle
}

// State returns the current state.
func (s *Scheduler) State() SchedulerState {
	return s.state
}

// Deadline returns when a pending refresh will run.
func (s *Scheduler) Deadline() (time.Time, bool) {
	return s.deadline, s.state == StatePending
}

// Counts returns how many triggers were received and refreshes executed.
func (s *Scheduler) Counts() (triggers, fires int) {
	return s.triggers, s.fires
}
