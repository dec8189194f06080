package domain

import (
	"errors"
	"strings"
)

var ErrInvalidConfig = errors.New("invalid workout config")

const (
	MaxSets         = 99
	MaxReps         = 99
	MaxRepWorkTime  = 600
	MaxInterRepRest = 60
	MaxInterSetRest = 1800
)

// WorkoutConfig is the validated input a session is generated from.
// Durations are whole seconds.
type WorkoutConfig struct {
	Sets         int `json:"sets" yaml:"sets"`
	Reps         int `json:"reps" yaml:"reps"`
	InterSetRest int `json:"interSetRest" yaml:"interSetRest"`
	InterRepRest int `json:"interRepRest" yaml:"interRepRest"`
	RepWorkTime  int `json:"repWorkTime" yaml:"repWorkTime"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ConfigError struct {
	Fields []FieldError
}

func (e *ConfigError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return ErrInvalidConfig.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks every range and the required-rest rules. It reports all
// violations at once rather than stopping at the first.
func (c WorkoutConfig) Validate() error {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	if c.Sets < 1 || c.Sets > MaxSets {
		add("sets", "Set count must be a number between 1 and 99")
	}
	if c.Reps < 1 || c.Reps > MaxReps {
		add("reps", "Rep count must be a number between 1 and 99")
	}
	if c.RepWorkTime < 1 || c.RepWorkTime > MaxRepWorkTime {
		add("repWorkTime", "Rep Work Time must be a number between 1 and 600")
	}

	switch {
	case c.InterSetRest < 0 || c.InterSetRest > MaxInterSetRest:
		add("interSetRest", "Inter-set Rest must be a number between 0 and 1800")
	case c.Sets > 1 && c.InterSetRest == 0:
		add("interSetRest", "Inter-set Rest is required when Set count > 1")
	}

	switch {
	case c.InterRepRest < 0 || c.InterRepRest > MaxInterRepRest:
		add("interRepRest", "Inter-rep Rest must be a number between 0 and 60")
	case c.Reps > 1 && c.InterRepRest == 0:
		add("interRepRest", "Inter-rep Rest is required when Rep Count > 1")
	}

	if len(fields) > 0 {
		return &ConfigError{Fields: fields}
	}
	return nil
}

// TotalSeconds is the closed form of the summed step durations. The last rep
// of a set has no following rest and the last set has no following rest.
func TotalSeconds(c WorkoutConfig) int {
	return c.Sets*(c.Reps*(c.RepWorkTime+c.InterRepRest)-c.InterRepRest) +
		(c.Sets-1)*c.InterSetRest
}
