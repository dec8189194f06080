package timer

import (
	"errors"
	"time"

	"github.com/hperssn/intervals/internal/domain"
)

var (
	ErrInvalidSequence = errors.New("timer: step sequence is empty")
	ErrAlreadyStarted  = errors.New("timer: session already started")
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateComplete
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateComplete:
		return "complete"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateCancelled
}

type EventType int

const (
	EventStepBoundary EventType = iota + 1
	EventComplete
)

type Feedback int

const (
	FeedbackStepBoundary Feedback = iota + 1
	FeedbackCompletion
)

// Event is raised when a step's countdown reaches zero. For a boundary,
// StepIndex is the step about to start. For completion, TotalSeconds is the
// planned workout length, which never includes time spent paused.
type Event struct {
	Type         EventType
	StepIndex    int
	TotalSeconds int
}

func (e Event) Feedback() Feedback {
	if e.Type == EventComplete {
		return FeedbackCompletion
	}
	return FeedbackStepBoundary
}

// Snapshot is what a renderer reads on every frame.
type Snapshot struct {
	State        State
	Running      bool
	Step         domain.Step
	StepIndex    int
	TotalSteps   int
	SecondsLeft  int
	Progress     float64
	TotalSeconds int
}

// Engine drives the countdown through a step sequence. It is not safe for
// concurrent use: the host must make every call, including scheduled ticks,
// from one logical thread.
type Engine struct {
	clock  Clock
	sched  Scheduler
	notify func(Event)

	steps domain.Sequence
	total int

	state         State
	index         int
	stepStartedAt time.Time
	pausedAt      time.Time
	secondsLeft   int

	// suspended is set only when the host lifecycle paused a running session.
	suspended bool
	pending   Handle
}

func New(clock Clock, sched Scheduler, notify func(Event)) *Engine {
	if clock == nil {
		clock = SystemClock
	}
	if notify == nil {
		notify = func(Event) {}
	}
	return &Engine{
		clock:  clock,
		sched:  sched,
		notify: notify,
	}
}

func (e *Engine) Start(steps domain.Sequence) error {
	if len(steps) == 0 {
		return ErrInvalidSequence
	}
	if e.state != StateIdle {
		return ErrAlreadyStarted
	}

	e.steps = steps
	e.total = steps.TotalSeconds()
	e.index = 0
	e.stepStartedAt = e.clock.Now()
	e.secondsLeft = steps[0].Duration()
	e.state = StateRunning
	e.schedule()
	return nil
}

// Tick recomputes the remaining time from now - stepStartedAt and advances
// when it reaches zero. It does nothing unless the engine is running, so a
// callback that was already in flight when the session paused is harmless.
func (e *Engine) Tick(now time.Time) {
	if e.state != StateRunning {
		return
	}
	e.cancelPending()

	step := e.steps[e.index]
	remaining := time.Duration(step.Duration())*time.Second - now.Sub(e.stepStartedAt)
	if remaining < 0 {
		remaining = 0
	}
	e.secondsLeft = ceilSeconds(remaining)

	if remaining > 0 {
		e.schedule()
		return
	}

	next := e.index + 1
	if next < len(e.steps) {
		e.notify(Event{Type: EventStepBoundary, StepIndex: next})
		e.index = next
		e.stepStartedAt = now
		e.secondsLeft = e.steps[next].Duration()
		e.schedule()
		return
	}

	e.state = StateComplete
	e.notify(Event{Type: EventComplete, StepIndex: e.index, TotalSeconds: e.total})
}

func (e *Engine) Pause(now time.Time) {
	if e.state != StateRunning {
		return
	}
	e.cancelPending()
	e.state = StatePaused
	e.pausedAt = now
}

// Resume shifts stepStartedAt forward by the paused interval so time spent
// paused never counts against the step.
func (e *Engine) Resume(now time.Time) {
	if e.state != StatePaused {
		return
	}

	paused := now.Sub(e.pausedAt)
	if paused < 0 {
		paused = 0
	}
	e.stepStartedAt = e.stepStartedAt.Add(paused)
	e.pausedAt = time.Time{}
	e.suspended = false
	e.state = StateRunning
	e.schedule()
}

// Toggle is the user play/pause control.
func (e *Engine) Toggle() {
	now := e.clock.Now()
	switch e.state {
	case StateRunning:
		e.Pause(now)
	case StatePaused:
		e.Resume(now)
	}
}

// Suspend pauses a running session because the host went to the background.
// A session the user already paused stays user-paused.
func (e *Engine) Suspend(now time.Time) {
	if e.state != StateRunning {
		return
	}
	e.Pause(now)
	e.suspended = true
}

// Foreground resumes only a session that Suspend paused.
func (e *Engine) Foreground(now time.Time) {
	if e.state != StatePaused || !e.suspended {
		return
	}
	e.Resume(now)
}

// Cancel ends the session without completing it and revokes the pending tick.
func (e *Engine) Cancel() {
	if e.state.Terminal() {
		return
	}
	e.cancelPending()
	e.state = StateCancelled
	e.pausedAt = time.Time{}
	e.suspended = false
}

func (e *Engine) State() State { return e.state }

// Suspended reports whether the current pause came from the host lifecycle.
func (e *Engine) Suspended() bool { return e.suspended }

func (e *Engine) Steps() domain.Sequence { return e.steps }

func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:        e.state,
		Running:      e.state == StateRunning,
		StepIndex:    e.index,
		TotalSteps:   len(e.steps),
		SecondsLeft:  e.secondsLeft,
		TotalSeconds: e.total,
	}
	if len(e.steps) > 0 {
		snap.Step = e.steps[e.index]
		snap.Progress = domain.Progress(snap.Step, e.secondsLeft)
	}
	return snap
}

func (e *Engine) schedule() {
	if e.sched == nil {
		return
	}
	var h Handle
	h = e.sched.Schedule(func() {
		if e.pending == h {
			e.pending = nil
		}
		e.Tick(e.clock.Now())
	})
	e.pending = h
}

func (e *Engine) cancelPending() {
	if e.pending != nil {
		e.pending.Cancel()
		e.pending = nil
	}
}

// ceilSeconds rounds up so the display only reaches 0 at the true boundary.
func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
