package httpapi

import (
	"github.com/hperssn/intervals/internal/domain"
	"github.com/hperssn/intervals/internal/runner"
)

type stepView struct {
	Index           int             `json:"index"`
	Kind            domain.StepKind `json:"kind"`
	Label           string          `json:"label"`
	DurationSeconds int             `json:"durationSeconds"`
	StartsAt        int             `json:"startsAt"`
	SetNumber       *int            `json:"setNumber"`
	IsFirstRepOfSet bool            `json:"isFirstRepOfSet"`
}

func newStepView(index, startsAt int, s domain.Step) stepView {
	v := stepView{
		Index:           index,
		Kind:            s.Kind(),
		Label:           s.Label(),
		DurationSeconds: s.Duration(),
		StartsAt:        startsAt,
		IsFirstRepOfSet: domain.IsFirstRepOfSet(s),
	}
	if set, ok := domain.SetNumber(s); ok {
		v.SetNumber = &set
	}
	return v
}

func newStepViews(steps domain.Sequence) []stepView {
	offsets := steps.Offsets()
	views := make([]stepView, len(steps))
	for i, s := range steps {
		views[i] = newStepView(i, offsets[i], s)
	}
	return views
}

type sessionView struct {
	ID           string               `json:"id"`
	State        string               `json:"state"`
	Running      bool                 `json:"running"`
	Suspended    bool                 `json:"suspended"`
	StepIndex    int                  `json:"stepIndex"`
	TotalSteps   int                  `json:"totalSteps"`
	SecondsLeft  int                  `json:"secondsLeft"`
	Progress     float64              `json:"progress"`
	TotalSeconds int                  `json:"totalSeconds"`
	Step         *stepView            `json:"step,omitempty"`
	Config       domain.WorkoutConfig `json:"config"`
}

func newSessionView(s *domain.Session, st runner.Status) sessionView {
	snap := st.Snapshot
	v := sessionView{
		ID:           s.ID,
		State:        snap.State.String(),
		Running:      snap.Running,
		Suspended:    st.Suspended,
		StepIndex:    snap.StepIndex,
		TotalSteps:   snap.TotalSteps,
		SecondsLeft:  snap.SecondsLeft,
		Progress:     snap.Progress,
		TotalSeconds: s.TotalSec,
		Config:       s.Config,
	}
	if snap.Step != nil {
		offsets := s.Steps.Offsets()
		step := newStepView(snap.StepIndex, offsets[snap.StepIndex], snap.Step)
		v.Step = &step
	}
	return v
}
