package runner

import (
	"time"

	"github.com/hperssn/intervals/internal/timer"
)

// frameScheduler arms a time.AfterFunc per tick and hands the callback back
// to the runner loop, so every engine call stays on the loop goroutine.
type frameScheduler struct {
	interval time.Duration
	post     func(func()) bool
}

type frameHandle struct {
	t *time.Timer
	// dead is only read and written on the loop goroutine.
	dead bool
}

func (h *frameHandle) Cancel() {
	h.dead = true
	h.t.Stop()
}

func (s *frameScheduler) Schedule(fn func()) timer.Handle {
	h := &frameHandle{}
	h.t = time.AfterFunc(s.interval, func() {
		s.post(func() {
			if h.dead {
				return
			}
			h.dead = true
			fn()
		})
	})
	return h
}
