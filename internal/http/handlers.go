package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/intervals/internal/domain"
	"github.com/hperssn/intervals/internal/runner"
	"github.com/hperssn/intervals/internal/storage"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(); err != nil {
		respondJSON(w, map[string]string{"status": "degraded", "storage": err.Error()}, http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var cfg domain.WorkoutConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.start(w, UserID(r), cfg)
}

func (s *Server) start(w http.ResponseWriter, userID string, cfg domain.WorkoutConfig) {
	session, err := s.manager.Create(userID, cfg)
	if err != nil {
		s.respondRunnerError(w, err)
		return
	}

	if err := s.repo.SaveLastConfig(userID, cfg); err != nil {
		s.logger.Warn("failed to save last config", "user_id", userID, "error", err)
	}

	st, _ := s.manager.GetStatus(session.ID)
	respondJSON(w, newSessionView(session, st), http.StatusCreated)
}

// owned looks the session up and hides sessions of other users.
func (s *Server) owned(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	id := chi.URLParam(r, "id")

	session, ok := s.manager.GetSession(id)
	if !ok || session.UserID != UserID(r) {
		respondError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.owned(w, r)
	if !ok {
		return
	}
	s.respondStatus(w, session)
}

func (s *Server) respondStatus(w http.ResponseWriter, session *domain.Session) {
	st, ok := s.manager.GetStatus(session.ID)
	if !ok {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}
	respondJSON(w, newSessionView(session, st), http.StatusOK)
}

func (s *Server) getSteps(w http.ResponseWriter, r *http.Request) {
	session, ok := s.owned(w, r)
	if !ok {
		return
	}
	respondJSON(w, newStepViews(session.Steps), http.StatusOK)
}

func (s *Server) control(op func(id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.owned(w, r)
		if !ok {
			return
		}
		if err := op(session.ID); err != nil {
			s.respondRunnerError(w, err)
			return
		}
		s.respondStatus(w, session)
	}
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	s.control(s.manager.Toggle)(w, r)
}

func (s *Server) pause(w http.ResponseWriter, r *http.Request) {
	s.control(s.manager.Pause)(w, r)
}

func (s *Server) resume(w http.ResponseWriter, r *http.Request) {
	s.control(s.manager.Resume)(w, r)
}

// lifecycle takes the host app state. Anything other than "active" counts as
// leaving the foreground.
func (s *Server) lifecycle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.State == "" {
		respondError(w, "state is required", http.StatusBadRequest)
		return
	}

	active := req.State == "active"
	s.control(func(id string) error {
		return s.manager.SetForeground(id, active)
	})(w, r)
}

func (s *Server) cancelSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.owned(w, r)
	if !ok {
		return
	}

	if err := s.manager.CancelSession(session.ID); err != nil {
		s.respondRunnerError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondRunnerError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigError

	switch {
	case errors.As(err, &cfgErr):
		respondJSON(w, struct {
			Error  string              `json:"error"`
			Fields []domain.FieldError `json:"fields"`
		}{
			Error:  domain.ErrInvalidConfig.Error(),
			Fields: cfgErr.Fields,
		}, http.StatusBadRequest)
	case errors.Is(err, runner.ErrSessionNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, runner.ErrSessionExists),
		errors.Is(err, runner.ErrSessionFinished),
		errors.Is(err, runner.ErrSessionClosed):
		respondError(w, err.Error(), http.StatusConflict)
	default:
		s.logger.Error("session operation failed", "error", err)
		respondError(w, "internal error", http.StatusInternalServerError)
	}
}

type presetRequest struct {
	Name   string               `json:"name"`
	Config domain.WorkoutConfig `json:"config"`
}

func (s *Server) listPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.repo.ListPresets(UserID(r))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	if presets == nil {
		presets = []storage.PresetRecord{}
	}
	respondJSON(w, presets, http.StatusOK)
}

func (s *Server) createPreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondError(w, "name is required", http.StatusBadRequest)
		return
	}

	record, err := storage.NewPresetRecord(UserID(r), req.Name, req.Config)
	if err != nil {
		s.respondRunnerError(w, err)
		return
	}
	if err := s.repo.SavePreset(record); err != nil {
		s.respondStorageError(w, err)
		return
	}

	respondJSON(w, record, http.StatusCreated)
}

func (s *Server) getPreset(w http.ResponseWriter, r *http.Request) {
	record, err := s.repo.GetPreset(UserID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	respondJSON(w, record, http.StatusOK)
}

func (s *Server) deletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeletePreset(UserID(r), chi.URLParam(r, "id")); err != nil {
		s.respondStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) startPreset(w http.ResponseWriter, r *http.Request) {
	record, err := s.repo.GetPreset(UserID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}

	record.UpdatedAt = time.Now().UTC()
	if err := s.repo.SavePreset(record); err != nil {
		s.logger.Warn("failed to touch preset", "preset_id", record.ID, "error", err)
	}

	s.start(w, record.UserID, record.Config)
}

func (s *Server) lastConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok, err := s.repo.GetLastConfig(UserID(r))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	if !ok {
		respondError(w, "no saved config", http.StatusNotFound)
		return
	}
	respondJSON(w, cfg, http.StatusOK)
}

func (s *Server) respondStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrPresetNotFound) {
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Error("storage operation failed", "error", err)
	respondError(w, "internal error", http.StatusInternalServerError)
}
