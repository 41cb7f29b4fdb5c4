package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"task-planner/internal/repository"
	"task-planner/internal/service"
)

// Server exposes the planner over HTTP. It is a thin boundary: identity
// resolution, JSON codecs and status mapping only — all decisions live in the
// services and the recurrence engine.
type Server struct {
	users       *repository.UserRepository
	tasks       *service.TaskService
	categories  *service.CategoryService
	rollForward *service.RollForwardService
}

func NewServer(users *repository.UserRepository, tasks *service.TaskService, categories *service.CategoryService, rollForward *service.RollForwardService) *Server {
	return &Server{
		users:       users,
		tasks:       tasks,
		categories:  categories,
		rollForward: rollForward,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListDue)
			r.Post("/", s.handleCreate)
			r.Get("/active", s.handleListActive)
			r.Get("/markers", s.handleMarkers)
			r.Get("/{id}", s.handleGet)
			r.Post("/{id}/complete", s.handleComplete)
			r.Delete("/{id}", s.handleDelete)
		})
		r.Get("/categories", s.handleListCategories)
		r.Post("/maintenance/rollforward", s.handleRollForward)
	})

	return r
}
