// Package timertest provides a manual clock and scheduler for driving a
// timer.Engine deterministically in tests.
package timertest

import (
	"sync"
	"time"

	"github.com/hperssn/intervals/internal/timer"
)

type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type handle struct {
	s    *Scheduler
	fn   func()
	dead bool
}

func (h *handle) Cancel() {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.dead = true
}

// Scheduler queues callbacks until RunPending is called.
type Scheduler struct {
	mu        sync.Mutex
	queue     []*handle
	scheduled int
}

func (s *Scheduler) Schedule(fn func()) timer.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &handle{s: s, fn: fn}
	s.queue = append(s.queue, h)
	s.scheduled++
	return h
}

// Pending counts callbacks that are queued and not cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, h := range s.queue {
		if !h.dead {
			n++
		}
	}
	return n
}

// Scheduled counts every Schedule call so far.
func (s *Scheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// RunPending runs the callbacks queued before the call, one frame's worth.
// Callbacks scheduled while running wait for the next call.
func (s *Scheduler) RunPending() int {
	s.mu.Lock()
	batch := s.queue
	s.queue = nil
	s.mu.Unlock()

	ran := 0
	for _, h := range batch {
		s.mu.Lock()
		dead := h.dead
		h.dead = true
		s.mu.Unlock()
		if dead {
			continue
		}
		h.fn()
		ran++
	}
	return ran
}
