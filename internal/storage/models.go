package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hperssn/intervals/internal/domain"
)

var ErrPresetNotFound = errors.New("preset not found")

// PresetRecord is a named workout configuration a user saved for reuse.
type PresetRecord struct {
	ID        string               `json:"id"`
	UserID    string               `json:"userId"`
	Name      string               `json:"name"`
	Config    domain.WorkoutConfig `json:"config"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// NewPresetRecord validates c and stamps a fresh ID.
func NewPresetRecord(userID, name string, c domain.WorkoutConfig) (*PresetRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &PresetRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Config:    c,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
