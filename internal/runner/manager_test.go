package runner_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hperssn/intervals/internal/domain"
	"github.com/hperssn/intervals/internal/runner"
	"github.com/hperssn/intervals/internal/timer"
	"github.com/hperssn/intervals/internal/timer/timertest"
)

var validConfig = domain.WorkoutConfig{Sets: 2, Reps: 3, InterSetRest: 60, InterRepRest: 5, RepWorkTime: 10}

func newManager(t *testing.T) (*runner.SessionManager, *timertest.Clock) {
	t.Helper()

	clock := timertest.NewClock(time.Now())
	m := runner.NewSessionManager(testOptions(clock))
	t.Cleanup(m.Close)
	return m, clock
}

func TestSessionManager_CreateAndGet(t *testing.T) {
	m, _ := newManager(t)

	s, err := m.Create("user-1", validConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := m.GetSession(s.ID)
	if !ok {
		t.Fatalf("expected session to exist")
	}
	if got.ID != s.ID || got.UserID != "user-1" {
		t.Fatalf("expected session %s for user-1, got %s for %s", s.ID, got.ID, got.UserID)
	}

	st, ok := m.GetStatus(s.ID)
	if !ok {
		t.Fatalf("expected status to exist")
	}
	if !st.Snapshot.Running || st.Snapshot.TotalSteps != 11 || st.Snapshot.SecondsLeft != 10 {
		t.Fatalf("unexpected status %+v", st.Snapshot)
	}
}

func TestSessionManager_CreateInvalid(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.Create("user-1", domain.WorkoutConfig{Sets: 2, Reps: 1, RepWorkTime: 10})
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("Create = %v want ErrInvalidConfig", err)
	}
}

func TestSessionManager_DuplicateStart(t *testing.T) {
	m, _ := newManager(t)

	s, err := domain.NewSession("session-dup", "user-1", validConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.StartSession(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.StartSession(s); !errors.Is(err, runner.ErrSessionExists) {
		t.Fatalf("Expected ErrSessionExists on duplicate start, got %v", err)
	}
}

func TestSessionManager_Cancel(t *testing.T) {
	m, _ := newManager(t)

	s, err := m.Create("user-1", validConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events, _, err := m.Subscribe(s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.CancelSession(s.ID); err != nil {
		t.Fatalf("unexpected error cancelling session: %v", err)
	}

	waitFor(t, events, runner.EventCancelled)
	waitClosed(t, events)

	if _, ok := m.GetSession(s.ID); ok {
		t.Fatalf("cancelled session should be released")
	}
	if err := m.Toggle(s.ID); !errors.Is(err, runner.ErrSessionNotFound) {
		t.Fatalf("Toggle after cancel = %v want ErrSessionNotFound", err)
	}
}

func TestSessionManager_CancelMissing(t *testing.T) {
	m, _ := newManager(t)

	if err := m.CancelSession("missing"); !errors.Is(err, runner.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound when cancelling missing session, got %v", err)
	}
	if _, _, err := m.Subscribe("missing"); !errors.Is(err, runner.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound subscribing to missing session, got %v", err)
	}
}

func TestSessionManager_Controls(t *testing.T) {
	m, clock := newManager(t)

	s, err := m.Create("user-1", validConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := []struct {
		name    string
		op      func() error
		running bool
	}{
		{"toggle pauses", func() error { return m.Toggle(s.ID) }, false},
		{"toggle resumes", func() error { return m.Toggle(s.ID) }, true},
		{"pause", func() error { return m.Pause(s.ID) }, false},
		{"background keeps user pause", func() error { return m.SetForeground(s.ID, false) }, false},
		{"foreground keeps user pause", func() error { return m.SetForeground(s.ID, true) }, false},
		{"resume", func() error { return m.Resume(s.ID) }, true},
		{"background suspends", func() error { return m.SetForeground(s.ID, false) }, false},
		{"foreground resumes", func() error { return m.SetForeground(s.ID, true) }, true},
	}
	for _, step := range steps {
		clock.Advance(100 * time.Millisecond)
		if err := step.op(); err != nil {
			t.Fatalf("%s: unexpected error: %v", step.name, err)
		}
		st, _ := m.GetStatus(s.ID)
		if st.Snapshot.Running != step.running {
			t.Fatalf("%s: running = %v want %v", step.name, st.Snapshot.Running, step.running)
		}
	}

	st, _ := m.GetStatus(s.ID)
	if st.Snapshot.State != timer.StateRunning {
		t.Fatalf("final state = %s", st.Snapshot.State)
	}
}
