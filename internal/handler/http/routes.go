package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
	})

	// routes behind JWT authentication
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/projects/", h.listProjects)
		r.Post("/api/projects/", h.createProject)
		r.Get("/api/projects/{namespace}/{name}/metadata", h.getProjectMetadata)
		r.Get("/api/projects/{namespace}/{name}/raw", h.downloadFile)
		r.Post("/api/projects/{namespace}/{name}/raw", h.uploadFile)
		r.Post("/api/projects/push", h.push)
	})

	return router
}
