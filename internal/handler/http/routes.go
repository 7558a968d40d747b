package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging)

	router.Get("/health", h.health)
	// authentication of the channel happens in-band via the authenticate event
	router.Get("/ws", h.serveWS)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/{resource}", h.fetchSince)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
