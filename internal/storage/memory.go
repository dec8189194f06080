package storage

import (
	"sort"
	"sync"

	"github.com/hperssn/intervals/internal/domain"
)

// MemoryRepository keeps preferences in process memory. They are lost on
// restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	presets map[string]PresetRecord
	last    map[string]domain.WorkoutConfig
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		presets: make(map[string]PresetRecord),
		last:    make(map[string]domain.WorkoutConfig),
	}
}

func (r *MemoryRepository) SavePreset(record *PresetRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.presets[record.ID]; ok {
		if existing.UserID != record.UserID {
			return nil
		}
		updated := existing
		updated.Name = record.Name
		updated.Config = record.Config
		updated.UpdatedAt = record.UpdatedAt
		r.presets[record.ID] = updated
		return nil
	}

	r.presets[record.ID] = *record
	return nil
}

func (r *MemoryRepository) GetPreset(userID, id string) (*PresetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.presets[id]
	if !ok || p.UserID != userID {
		return nil, ErrPresetNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) ListPresets(userID string) ([]PresetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []PresetRecord
	for _, p := range r.presets {
		if p.UserID == userID {
			records = append(records, p)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (r *MemoryRepository) DeletePreset(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.presets[id]
	if !ok || p.UserID != userID {
		return ErrPresetNotFound
	}
	delete(r.presets, id)
	return nil
}

func (r *MemoryRepository) SaveLastConfig(userID string, c domain.WorkoutConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[userID] = c
	return nil
}

func (r *MemoryRepository) GetLastConfig(userID string) (domain.WorkoutConfig, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.last[userID]
	return c, ok, nil
}

func (r *MemoryRepository) Ping() error  { return nil }
func (r *MemoryRepository) Close() error { return nil }
