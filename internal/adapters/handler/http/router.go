package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shaonsust/poll-app/internal/core/ports"
)

// NewHandler wires the public poll pages and, when adminHandler is non-nil,
// the token-protected admin API.
func NewHandler(pollHandler *PollHandler, adminHandler *AdminHandler, healthHandler *HealthHandler, verifier ports.TokenVerifier, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/polls/index", http.StatusFound)
	})

	if healthHandler != nil {
		r.Get("/healthz", healthHandler.Check)
	}

	r.Route("/polls", func(r chi.Router) {
		r.Get("/index", pollHandler.Index)
		r.Get("/{id}", pollHandler.Detail)
		r.Get("/{id}/results", pollHandler.Results)
		r.Post("/{id}/vote", pollHandler.Vote)
	})

	if adminHandler != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuth(verifier))

			r.Route("/questions", func(r chi.Router) {
				r.Get("/", adminHandler.ListQuestions)
				r.Post("/", adminHandler.CreateQuestion)
				r.Get("/{id}", adminHandler.GetQuestion)
				r.Put("/{id}", adminHandler.UpdateQuestion)
				r.Delete("/{id}", adminHandler.DeleteQuestion)
				r.Post("/{id}/choices", adminHandler.AddChoice)
			})

			r.Route("/choices", func(r chi.Router) {
				r.Get("/", adminHandler.ListChoices)
				r.Put("/{id}", adminHandler.UpdateChoice)
				r.Delete("/{id}", adminHandler.DeleteChoice)
			})
		})
	}

	return r
}
