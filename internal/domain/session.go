package domain

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        string
	UserID    string
	Config    WorkoutConfig
	Steps     Sequence
	TotalSec  int
	CreatedAt time.Time
}

// Sequence is the ordered, immutable list of steps for one workout.
type Sequence []Step

func (s Sequence) TotalSeconds() int {
	total := 0
	for _, st := range s {
		total += st.Duration()
	}
	return total
}

// Offsets returns the second at which each step starts, measured from the
// start of the workout with no pauses.
func (s Sequence) Offsets() []int {
	offsets := make([]int, len(s))
	at := 0
	for i, st := range s {
		offsets[i] = at
		at += st.Duration()
	}
	return offsets
}

// StepCount is the length GenerateSteps produces for c.
func StepCount(c WorkoutConfig) int {
	if c.Sets < 1 || c.Reps < 1 {
		return 0
	}
	return c.Sets*(2*c.Reps-1) + (c.Sets - 1)
}

// GenerateSteps expands a config into its timed steps. A zero rest is still
// emitted as a zero-length step; only the rest after the last rep of a set
// and the rest after the last set are left out.
func GenerateSteps(c WorkoutConfig) Sequence {
	steps := make(Sequence, 0, StepCount(c))

	for set := 1; set <= c.Sets; set++ {
		for rep := 1; rep <= c.Reps; rep++ {
			steps = append(steps, Work{
				Set:           set,
				Rep:           rep,
				Seconds:       c.RepWorkTime,
				FirstRepOfSet: rep == 1,
			})

			if rep < c.Reps {
				steps = append(steps, InterRepRest{
					Set:     set,
					Rep:     rep,
					Seconds: c.InterRepRest,
				})
			}
		}

		if set < c.Sets {
			steps = append(steps, InterSetRest{
				AfterSet: set,
				Seconds:  c.InterSetRest,
			})
		}
	}

	return steps
}

// NewSession validates c and builds the session's step sequence. An empty id
// gets a fresh UUID.
func NewSession(id string, userID string, c WorkoutConfig) (*Session, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if id == "" {
		id = uuid.New().String()
	}

	return &Session{
		ID:        id,
		UserID:    userID,
		Config:    c,
		Steps:     GenerateSteps(c),
		TotalSec:  TotalSeconds(c),
		CreatedAt: time.Now(),
	}, nil
}
