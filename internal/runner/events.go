package runner

import (
	"github.com/hperssn/intervals/internal/domain"
	"github.com/hperssn/intervals/internal/timer"
)

type EventType string

const (
	EventStatus    EventType = "status"
	EventStarted   EventType = "started"
	EventTick      EventType = "tick"
	EventAdvance   EventType = "advance"
	EventPaused    EventType = "paused"
	EventResumed   EventType = "resumed"
	EventComplete  EventType = "complete"
	EventCancelled EventType = "cancelled"
)

// StepEvent is one published change of a session's timer.
type StepEvent struct {
	Type         EventType       `json:"type"`
	SessionID    string          `json:"sessionId"`
	State        string          `json:"state"`
	Running      bool            `json:"running"`
	StepIndex    int             `json:"stepIndex"`
	TotalSteps   int             `json:"totalSteps"`
	SecondsLeft  int             `json:"secondsLeft"`
	Label        string          `json:"label,omitempty"`
	Kind         domain.StepKind `json:"kind,omitempty"`
	Feedback     string          `json:"feedback,omitempty"`
	TotalSeconds int             `json:"totalSeconds,omitempty"`
}

func newStepEvent(typ EventType, sessionID string, snap timer.Snapshot) StepEvent {
	ev := StepEvent{
		Type:        typ,
		SessionID:   sessionID,
		State:       snap.State.String(),
		Running:     snap.Running,
		StepIndex:   snap.StepIndex,
		TotalSteps:  snap.TotalSteps,
		SecondsLeft: snap.SecondsLeft,
	}
	if snap.Step != nil {
		ev.Label = snap.Step.Label()
		ev.Kind = snap.Step.Kind()
	}

	switch typ {
	case EventAdvance:
		ev.Feedback = "step"
	case EventComplete:
		ev.Feedback = "complete"
		ev.TotalSeconds = snap.TotalSeconds
	}
	return ev
}

// classify names the transition between two snapshots, or returns "" when
// nothing a client renders has changed.
func classify(prev, next timer.Snapshot) EventType {
	switch {
	case next.State == timer.StateComplete && prev.State != timer.StateComplete:
		return EventComplete
	case next.State == timer.StateCancelled && prev.State != timer.StateCancelled:
		return EventCancelled
	case prev.State == timer.StateIdle && next.State == timer.StateRunning:
		return EventStarted
	case next.StepIndex != prev.StepIndex:
		return EventAdvance
	case prev.State == timer.StateRunning && next.State == timer.StatePaused:
		return EventPaused
	case prev.State == timer.StatePaused && next.State == timer.StateRunning:
		return EventResumed
	case next.SecondsLeft != prev.SecondsLeft:
		return EventTick
	}
	return ""
}
