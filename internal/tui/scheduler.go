package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hperssn/intervals/internal/timer"
)

// frameMsg fires a scheduled engine callback on the Update goroutine.
type frameMsg struct {
	id int
}

// frameScheduler turns engine callbacks into tea.Tick commands. Schedule is
// only ever called from Update, so the queued commands are handed back to
// bubbletea with the message that caused them.
type frameScheduler struct {
	interval time.Duration
	nextID   int
	live     map[int]func()
	queued   []tea.Cmd
}

func newFrameScheduler(interval time.Duration) *frameScheduler {
	return &frameScheduler{
		interval: interval,
		live:     make(map[int]func()),
	}
}

func (s *frameScheduler) Schedule(fn func()) timer.Handle {
	s.nextID++
	id := s.nextID
	s.live[id] = fn
	s.queued = append(s.queued, tea.Tick(s.interval, func(time.Time) tea.Msg {
		return frameMsg{id: id}
	}))
	return frameHandle{s: s, id: id}
}

// fire runs the callback for id unless it was cancelled.
func (s *frameScheduler) fire(id int) {
	fn, ok := s.live[id]
	if !ok {
		return
	}
	delete(s.live, id)
	fn()
}

func (s *frameScheduler) drain() []tea.Cmd {
	cmds := s.queued
	s.queued = nil
	return cmds
}

type frameHandle struct {
	s  *frameScheduler
	id int
}

func (h frameHandle) Cancel() {
	delete(h.s.live, h.id)
}
