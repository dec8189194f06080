package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hperssn/intervals/internal/domain"
	"github.com/hperssn/intervals/internal/timer"
)

const subscriberBuffer = 32

// Status is the last published view of a session, readable without waiting
// on the runner loop.
type Status struct {
	SessionID  string
	UserID     string
	Snapshot   timer.Snapshot
	Suspended  bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// sessionRunner owns one engine. Every engine call, scheduled ticks included,
// runs on the loop goroutine.
type sessionRunner struct {
	session *domain.Session
	engine  *timer.Engine
	clock   timer.Clock
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	cmds   chan command
	done   chan struct{}

	mu      sync.Mutex
	status  Status
	subs    map[int]chan StepEvent
	nextSub int
	closed  bool
}

func NewSessionRunner(s *domain.Session, opts Options) *sessionRunner {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	r := &sessionRunner{
		session: s,
		clock:   opts.Clock,
		logger:  opts.Logger.With("session_id", s.ID),
		ctx:     ctx,
		cancel:  cancel,
		cmds:    make(chan command),
		done:    make(chan struct{}),
		subs:    make(map[int]chan StepEvent),
		status:  Status{SessionID: s.ID, UserID: s.UserID},
	}

	sched := &frameScheduler{interval: opts.TickInterval, post: r.post}
	r.engine = timer.New(opts.Clock, sched, r.onEngineEvent)

	go r.loop()

	return r
}

func (r *sessionRunner) loop() {
	defer close(r.done)

	for {
		select {
		case c := <-r.cmds:
			c.fn()
			r.publish()
			if c.done != nil {
				close(c.done)
			}

		case <-r.ctx.Done():
			r.engine.Cancel()
			r.publish()
			r.closeSubscribers()
			return
		}
	}
}

type command struct {
	fn   func()
	done chan struct{}
}

func (r *sessionRunner) send(c command) bool {
	select {
	case r.cmds <- c:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *sessionRunner) post(fn func()) bool {
	return r.send(command{fn: fn})
}

// do runs fn on the loop and waits until its changes are published.
func (r *sessionRunner) do(fn func()) error {
	c := command{fn: fn, done: make(chan struct{})}
	if !r.send(c) {
		return ErrSessionClosed
	}

	select {
	case <-c.done:
		return nil
	case <-r.done:
		return ErrSessionClosed
	}
}

// control applies op unless the session already ended.
func (r *sessionRunner) control(op func(now time.Time)) error {
	var opErr error
	err := r.do(func() {
		if r.engine.State().Terminal() {
			opErr = ErrSessionFinished
			return
		}
		op(r.clock.Now())
	})
	if err != nil {
		return err
	}
	return opErr
}

func (r *sessionRunner) Start() error {
	var startErr error
	err := r.do(func() {
		startErr = r.engine.Start(r.session.Steps)
		if startErr == nil {
			r.mu.Lock()
			r.status.StartedAt = r.clock.Now()
			r.mu.Unlock()
		}
	})
	if err != nil {
		return err
	}
	return startErr
}

func (r *sessionRunner) Toggle() error {
	return r.control(func(time.Time) { r.engine.Toggle() })
}

func (r *sessionRunner) Pause() error {
	return r.control(r.engine.Pause)
}

func (r *sessionRunner) Resume() error {
	return r.control(r.engine.Resume)
}

// SetForeground relays the host lifecycle signal.
func (r *sessionRunner) SetForeground(active bool) error {
	return r.control(func(now time.Time) {
		if active {
			r.engine.Foreground(now)
		} else {
			r.engine.Suspend(now)
		}
	})
}

func (r *sessionRunner) Cancel() error {
	return r.control(func(time.Time) { r.engine.Cancel() })
}

// Stop ends the loop. A session that has not finished is cancelled.
func (r *sessionRunner) Stop() {
	r.cancel()
	<-r.done
}

func (r *sessionRunner) Session() *domain.Session {
	return r.session
}

func (r *sessionRunner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Subscribe returns a channel that first carries the current status and then
// every change until the session ends, when it is closed.
func (r *sessionRunner) Subscribe() (<-chan StepEvent, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan StepEvent, subscriberBuffer)
	snap := r.status.Snapshot

	if r.closed {
		typ := EventStatus
		switch snap.State {
		case timer.StateComplete:
			typ = EventComplete
		case timer.StateCancelled:
			typ = EventCancelled
		}
		ch <- newStepEvent(typ, r.session.ID, snap)
		close(ch)
		return ch, func() {}
	}

	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	ch <- newStepEvent(EventStatus, r.session.ID, snap)

	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
	}
}

func (r *sessionRunner) onEngineEvent(e timer.Event) {
	switch e.Type {
	case timer.EventStepBoundary:
		r.logger.Debug("step boundary", "step_index", e.StepIndex)
	case timer.EventComplete:
		r.logger.Info("session complete", "total_sec", e.TotalSeconds)
	}
}

func (r *sessionRunner) publish() {
	snap := r.engine.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.status.Snapshot
	r.status.Snapshot = snap
	r.status.Suspended = r.engine.Suspended()

	typ := classify(prev, snap)
	if typ == "" {
		return
	}

	ev := newStepEvent(typ, r.session.ID, snap)
	for _, ch := range r.subs {
		deliver(ch, ev, snap.State.Terminal())
	}

	if snap.State.Terminal() {
		r.status.FinishedAt = r.clock.Now()
		r.closeSubscribersLocked()
	}
}

// deliver sends ev without blocking. A full buffer drops ev, unless it is
// the final event: that one evicts the oldest buffered events until it fits.
// Only publish sends, under r.mu, so the freed slot cannot be taken.
func deliver(ch chan StepEvent, ev StepEvent, final bool) {
	for {
		select {
		case ch <- ev:
			return
		default:
		}
		if !final {
			return
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (r *sessionRunner) closeSubscribers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeSubscribersLocked()
}

func (r *sessionRunner) closeSubscribersLocked() {
	if r.closed {
		return
	}
	r.closed = true
	for id, ch := range r.subs {
		close(ch)
		delete(r.subs, id)
	}
}
