/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/activities/*           Activity log
  /api/projects/*             Projects and their board
  /api/tasks/*                Tasks and their board
  /api/processes/*            Processes and their steps
  /api/process-activities/*   Step status and dependency queries
  /api/users/*                Accounts and daily goals
  /api/areas/*                Areas
  /api/reports/*              Role-scoped rollups

SECURITY NOTE:
  Acting-user identification via X-User-ID header only. No authentication.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Activity log
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", h.ListActivities)
			r.Post("/", h.CreateActivity)
			r.Get("/{id}", h.GetActivity)
			r.Put("/{id}", h.UpdateActivity)
			r.Delete("/{id}", h.DeleteActivity)
		})

		// Projects
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Put("/{id}", h.UpdateProject)
			r.Delete("/{id}", h.DeleteProject)
			r.Post("/{id}/status", h.UpdateProjectStatus)
		})

		// Tasks
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Get("/{id}", h.GetTask)
			r.Put("/{id}", h.UpdateTask)
			r.Post("/{id}/status", h.UpdateTaskStatus)
		})

		// Processes and their steps
		r.Route("/processes", func(r chi.Router) {
			r.Get("/", h.ListProcesses)
			r.Post("/", h.CreateProcess)
			r.Get("/{id}", h.GetProcess)
			r.Post("/{id}/status", h.UpdateProcessStatus)
			r.Get("/{id}/activities", h.ListProcessActivities)
			r.Post("/{id}/activities", h.CreateProcessActivity)
		})

		// Step status and dependency queries
		r.Route("/process-activities", func(r chi.Router) {
			r.Post("/{id}/status", h.UpdateProcessActivityStatus)
			r.Get("/{id}/can-start", h.GetCanStart)
			r.Get("/{id}/blocked", h.GetBlocked)
			r.Get("/{id}/chain", h.GetChain)
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Get("/{id}/daily-goal", h.GetDailyGoal)
		})

		// Areas
		r.Route("/areas", func(r chi.Router) {
			r.Get("/", h.ListAreas)
			r.Post("/", h.CreateArea)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/overview", h.GetOverview)
			r.Get("/users", h.GetUserReport)
			r.Get("/projects", h.GetProjectReport)
		})
	})

	return r
}
