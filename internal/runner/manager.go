package runner

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hperssn/intervals/internal/domain"
	"github.com/hperssn/intervals/internal/timer"
)

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFinished = errors.New("session already finished")
	ErrSessionClosed   = errors.New("session closed")
)

type Options struct {
	Clock        timer.Clock
	TickInterval time.Duration
	// Retention is how long a finished session stays readable.
	Retention time.Duration
	// MaxAge cancels sessions left unfinished for longer than this.
	MaxAge          time.Duration
	CleanupInterval time.Duration
	Logger          *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = timer.SystemClock
	}
	if o.TickInterval <= 0 {
		o.TickInterval = 50 * time.Millisecond
	}
	if o.Retention <= 0 {
		o.Retention = time.Hour
	}
	if o.MaxAge <= 0 {
		o.MaxAge = 12 * time.Hour
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = 5 * time.Minute
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionRunner
	opts     Options

	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionManager(opts Options) *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*sessionRunner),
		opts:     opts.withDefaults(),
		stop:     make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

func (m *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(m.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupOldSessions(m.opts.Clock.Now())
		case <-m.stop:
			return
		}
	}
}

func (m *SessionManager) cleanupOldSessions(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	finishedCutoff := now.Add(-m.opts.Retention)
	abandonedCutoff := now.Add(-m.opts.MaxAge)

	for id, r := range m.sessions {
		st := r.Status()
		finished := st.Snapshot.State.Terminal()

		switch {
		case finished && st.FinishedAt.Before(finishedCutoff):
		case !finished && st.StartedAt.Before(abandonedCutoff):
			m.opts.Logger.Info("cancelling abandoned session", "session_id", id)
		default:
			continue
		}

		r.Stop()
		delete(m.sessions, id)
	}
}

// Create validates c, builds the session and starts its timer.
func (m *SessionManager) Create(userID string, c domain.WorkoutConfig) (*domain.Session, error) {
	s, err := domain.NewSession("", userID, c)
	if err != nil {
		return nil, err
	}
	if err := m.StartSession(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *SessionManager) StartSession(s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; exists {
		return ErrSessionExists
	}

	r := NewSessionRunner(s, m.opts)
	if err := r.Start(); err != nil {
		r.Stop()
		return err
	}
	m.sessions[s.ID] = r

	m.opts.Logger.Info("session started",
		"session_id", s.ID,
		"user_id", s.UserID,
		"steps", len(s.Steps),
		"total_sec", s.TotalSec,
	)
	return nil
}

func (m *SessionManager) get(id string) (*sessionRunner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return r, nil
}

func (m *SessionManager) GetSession(id string) (*domain.Session, bool) {
	r, err := m.get(id)
	if err != nil {
		return nil, false
	}
	return r.Session(), true
}

func (m *SessionManager) GetStatus(id string) (Status, bool) {
	r, err := m.get(id)
	if err != nil {
		return Status{}, false
	}
	return r.Status(), true
}

func (m *SessionManager) Toggle(id string) error {
	r, err := m.get(id)
	if err != nil {
		return err
	}
	return r.Toggle()
}

func (m *SessionManager) Pause(id string) error {
	r, err := m.get(id)
	if err != nil {
		return err
	}
	return r.Pause()
}

func (m *SessionManager) Resume(id string) error {
	r, err := m.get(id)
	if err != nil {
		return err
	}
	return r.Resume()
}

func (m *SessionManager) SetForeground(id string, active bool) error {
	r, err := m.get(id)
	if err != nil {
		return err
	}
	return r.SetForeground(active)
}

// CancelSession ends the session and releases its runner.
func (m *SessionManager) CancelSession(id string) error {
	m.mu.Lock()
	r, exists := m.sessions[id]
	if exists {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}

	err := r.Cancel()
	r.Stop()
	if errors.Is(err, ErrSessionFinished) {
		return nil
	}
	return err
}

func (m *SessionManager) Subscribe(id string) (<-chan StepEvent, func(), error) {
	r, err := m.get(id)
	if err != nil {
		return nil, nil, err
	}
	events, unsubscribe := r.Subscribe()
	return events, unsubscribe, nil
}

// Close stops the cleanup loop and every session.
func (m *SessionManager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.sessions {
		r.Stop()
		delete(m.sessions, id)
	}
}
