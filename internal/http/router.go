package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hperssn/intervals/internal/runner"
	"github.com/hperssn/intervals/internal/storage"
)

type Server struct {
	manager *runner.SessionManager
	repo    storage.Repository
	logger  *slog.Logger
}

func NewServer(manager *runner.SessionManager, repo storage.Repository, logger *slog.Logger) *Server {
	return &Server{manager: manager, repo: repo, logger: logger}
}

// Router wires every route. devUser is passed to ExtractUser.
func (s *Server) Router(devUser string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)

	r.Group(func(r chi.Router) {
		r.Use(ExtractUser(devUser, s.logger))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.startSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Get("/steps", s.getSteps)
				r.Post("/toggle", s.toggle)
				r.Post("/pause", s.pause)
				r.Post("/resume", s.resume)
				r.Post("/lifecycle", s.lifecycle)
				r.Post("/cancel", s.cancelSession)
				r.Get("/events", s.streamEvents)
			})
		})

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.listPresets)
			r.Post("/", s.createPreset)
			r.Get("/{id}", s.getPreset)
			r.Delete("/{id}", s.deletePreset)
			r.Post("/{id}/start", s.startPreset)
		})

		r.Get("/preferences/last", s.lastConfig)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
