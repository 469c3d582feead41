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
		r.Post("/api/auth/session", h.openSession)
		r.Get("/api/version", h.getServerVersion)
	})

	// document routes, JWT required
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/api/docs/{kind}", func(r chi.Router) {
			r.Get("/", h.getDocument)
			r.Patch("/", h.mergeDocument)
			r.Get("/watch", h.watchDocument)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
