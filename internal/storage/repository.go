package storage

import "github.com/hperssn/intervals/internal/domain"

// Repository persists user preferences: saved presets and the config the
// user last started. Workout history is never stored.
type Repository interface {
	SavePreset(record *PresetRecord) error

	GetPreset(userID, id string) (*PresetRecord, error)

	ListPresets(userID string) ([]PresetRecord, error)

	DeletePreset(userID, id string) error

	SaveLastConfig(userID string, c domain.WorkoutConfig) error

	// GetLastConfig reports false when the user never started a session.
	GetLastConfig(userID string) (domain.WorkoutConfig, bool, error)

	Ping() error

	Close() error
}
