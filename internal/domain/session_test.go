package domain

import (
	"errors"
	"math/rand"
	"testing"
)

func TestGenerateStepsSingleRep(t *testing.T) {
	c := WorkoutConfig{Sets: 1, Reps: 1, InterSetRest: 60, InterRepRest: 5, RepWorkTime: 10}

	steps := GenerateSteps(c)

	if len(steps) != 1 {
		t.Fatalf("len(steps) = %d want 1", len(steps))
	}
	w, ok := steps[0].(Work)
	if !ok {
		t.Fatalf("step 0 is %T, want Work", steps[0])
	}
	if w.Duration() != 10 || !w.FirstRepOfSet || w.Set != 1 {
		t.Fatalf("unexpected work step %+v", w)
	}
	if got := TotalSeconds(c); got != 10 {
		t.Fatalf("TotalSeconds = %d want 10", got)
	}
}

func TestGenerateStepsStructure(t *testing.T) {
	c := WorkoutConfig{Sets: 2, Reps: 3, InterSetRest: 60, InterRepRest: 5, RepWorkTime: 10}

	steps := GenerateSteps(c)

	want := []struct {
		kind     StepKind
		label    string
		duration int
	}{
		{KindWork, "Set 1 - Rep 1 Work", 10},
		{KindInterRepRest, "Set 1 - Rep 1 Rest", 5},
		{KindWork, "Set 1 - Rep 2 Work", 10},
		{KindInterRepRest, "Set 1 - Rep 2 Rest", 5},
		{KindWork, "Set 1 - Rep 3 Work", 10},
		{KindInterSetRest, "Rest after Set 1", 60},
		{KindWork, "Set 2 - Rep 1 Work", 10},
		{KindInterRepRest, "Set 2 - Rep 1 Rest", 5},
		{KindWork, "Set 2 - Rep 2 Work", 10},
		{KindInterRepRest, "Set 2 - Rep 2 Rest", 5},
		{KindWork, "Set 2 - Rep 3 Work", 10},
	}

	if len(steps) != len(want) {
		t.Fatalf("len(steps) = %d want %d", len(steps), len(want))
	}
	for i, w := range want {
		s := steps[i]
		if s.Kind() != w.kind || s.Label() != w.label || s.Duration() != w.duration {
			t.Errorf("step %d = {%s %q %d}, want {%s %q %d}",
				i, s.Kind(), s.Label(), s.Duration(), w.kind, w.label, w.duration)
		}
	}

	if got := TotalSeconds(c); got != 140 {
		t.Fatalf("TotalSeconds = %d want 140", got)
	}
	if got := steps.TotalSeconds(); got != 140 {
		t.Fatalf("Sequence.TotalSeconds = %d want 140", got)
	}
}

func TestGenerateStepsSetNumbers(t *testing.T) {
	steps := GenerateSteps(WorkoutConfig{Sets: 3, Reps: 2, InterSetRest: 30, InterRepRest: 5, RepWorkTime: 20})

	for i, s := range steps {
		set, ok := SetNumber(s)
		if s.Kind() == KindInterSetRest {
			if ok {
				t.Errorf("step %d: inter-set rest reports set %d", i, set)
			}
			continue
		}
		if !ok || set < 1 || set > 3 {
			t.Errorf("step %d: SetNumber = (%d, %v)", i, set, ok)
		}
	}
}

func TestGenerateStepsZeroRestsKept(t *testing.T) {
	steps := GenerateSteps(WorkoutConfig{Sets: 2, Reps: 2, InterSetRest: 0, InterRepRest: 0, RepWorkTime: 5})

	if len(steps) != 7 {
		t.Fatalf("len(steps) = %d want 7", len(steps))
	}
	zero := 0
	for _, s := range steps {
		if s.Kind() != KindWork && s.Duration() == 0 {
			zero++
		}
	}
	if zero != 3 {
		t.Fatalf("zero-length rests = %d want 3", zero)
	}
}

func checkSequence(t *testing.T, c WorkoutConfig) {
	t.Helper()

	steps := GenerateSteps(c)

	if len(steps) != StepCount(c) {
		t.Fatalf("%+v: len(steps) = %d want %d", c, len(steps), StepCount(c))
	}
	if got, want := steps.TotalSeconds(), TotalSeconds(c); got != want {
		t.Fatalf("%+v: summed durations = %d, TotalSeconds = %d", c, got, want)
	}

	firsts := 0
	lastSet := 0
	for i, s := range steps {
		if !IsFirstRepOfSet(s) {
			continue
		}
		firsts++
		w := s.(Work)
		if w.Set != lastSet+1 {
			t.Fatalf("%+v: first rep of set %d after set %d", c, w.Set, lastSet)
		}
		lastSet = w.Set
		for j := i - 1; j >= 0; j-- {
			if ws, ok := steps[j].(Work); ok && ws.Set == w.Set {
				t.Fatalf("%+v: work step %d precedes first rep of set %d", c, j, w.Set)
			}
		}
	}
	if firsts != c.Sets {
		t.Fatalf("%+v: first reps = %d want %d", c, firsts, c.Sets)
	}
}

func TestGenerateStepsMatchesTotalExhaustive(t *testing.T) {
	for sets := 1; sets <= 6; sets++ {
		for reps := 1; reps <= 6; reps++ {
			for _, setRest := range []int{0, 45} {
				for _, repRest := range []int{0, 5} {
					checkSequence(t, WorkoutConfig{
						Sets:         sets,
						Reps:         reps,
						InterSetRest: setRest,
						InterRepRest: repRest,
						RepWorkTime:  12,
					})
				}
			}
		}
	}
}

func TestGenerateStepsMatchesTotalRandom(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		checkSequence(t, WorkoutConfig{
			Sets:         1 + r.Intn(MaxSets),
			Reps:         1 + r.Intn(MaxReps),
			InterSetRest: r.Intn(MaxInterSetRest + 1),
			InterRepRest: r.Intn(MaxInterRepRest + 1),
			RepWorkTime:  1 + r.Intn(MaxRepWorkTime),
		})
	}
}

func TestValidate(t *testing.T) {
	valid := WorkoutConfig{Sets: 3, Reps: 8, InterSetRest: 90, InterRepRest: 10, RepWorkTime: 30}

	tests := []struct {
		name   string
		mutate func(c *WorkoutConfig)
		fields []string
	}{
		{name: "valid", mutate: func(c *WorkoutConfig) {}},
		{name: "single set no set rest", mutate: func(c *WorkoutConfig) { c.Sets = 1; c.InterSetRest = 0 }},
		{name: "single rep no rep rest", mutate: func(c *WorkoutConfig) { c.Reps = 1; c.InterRepRest = 0 }},
		{name: "zero sets", mutate: func(c *WorkoutConfig) { c.Sets = 0 }, fields: []string{"sets"}},
		{name: "too many reps", mutate: func(c *WorkoutConfig) { c.Reps = 100 }, fields: []string{"reps"}},
		{name: "work too long", mutate: func(c *WorkoutConfig) { c.RepWorkTime = 601 }, fields: []string{"repWorkTime"}},
		{name: "set rest too long", mutate: func(c *WorkoutConfig) { c.InterSetRest = 1801 }, fields: []string{"interSetRest"}},
		{name: "negative rep rest", mutate: func(c *WorkoutConfig) { c.InterRepRest = -1 }, fields: []string{"interRepRest"}},
		{name: "set rest required", mutate: func(c *WorkoutConfig) { c.InterSetRest = 0 }, fields: []string{"interSetRest"}},
		{name: "rep rest required", mutate: func(c *WorkoutConfig) { c.InterRepRest = 0 }, fields: []string{"interRepRest"}},
		{
			name:   "everything wrong",
			mutate: func(c *WorkoutConfig) { *c = WorkoutConfig{} },
			fields: []string{"sets", "reps", "repWorkTime"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)

			err := c.Validate()

			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() error is %T, want *ConfigError", err)
			}
			if len(ce.Fields) != len(tt.fields) {
				t.Fatalf("got %d field errors %+v want %v", len(ce.Fields), ce.Fields, tt.fields)
			}
			for i, f := range tt.fields {
				if ce.Fields[i].Field != f {
					t.Errorf("field %d = %s want %s", i, ce.Fields[i].Field, f)
				}
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	c := WorkoutConfig{Sets: 2, Reps: 3, InterSetRest: 60, InterRepRest: 5, RepWorkTime: 10}

	s, err := NewSession("", "user-1", c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected a generated ID")
	}
	if s.TotalSec != 140 || len(s.Steps) != 11 {
		t.Fatalf("session total=%d steps=%d", s.TotalSec, len(s.Steps))
	}

	if _, err := NewSession("x", "user-1", WorkoutConfig{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("NewSession with empty config = %v want ErrInvalidConfig", err)
	}
}

func TestOffsets(t *testing.T) {
	steps := GenerateSteps(WorkoutConfig{Sets: 1, Reps: 3, InterRepRest: 5, RepWorkTime: 10})

	got := steps.Offsets()
	want := []int{0, 10, 15, 25, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Offsets() = %v want %v", got, want)
		}
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name        string
		step        Step
		secondsLeft int
		expected    float64
	}{
		{name: "zero duration", step: InterRepRest{Seconds: 0}, secondsLeft: 0, expected: 1},
		{name: "fresh step", step: Work{Seconds: 10}, secondsLeft: 10, expected: 0},
		{name: "half way", step: Work{Seconds: 10}, secondsLeft: 5, expected: 0.5},
		{name: "done", step: Work{Seconds: 10}, secondsLeft: 0, expected: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.step, tt.secondsLeft); got != tt.expected {
				t.Fatalf("Progress = %v want %v", got, tt.expected)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{140, "2:20"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-4, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.expected {
			t.Errorf("FormatClock(%d) = %q want %q", tt.seconds, got, tt.expected)
		}
	}
}
