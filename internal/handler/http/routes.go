package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging)

	// routes without authorization
	router.Get("/api/version/", h.getServerVersion)

	router.Route("/api/collections/{collection}", func(r chi.Router) {
		r.Use(h.auth)

		r.With(withGZip).Get("/items", h.fetchAll)
		r.With(withGZip).Put("/items", h.batchWrite)
		r.Put("/items/{id}", h.pushOne)
		r.Delete("/items/{id}", h.deleteOne)
		r.Get("/subscribe", h.subscribe)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
