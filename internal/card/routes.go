package card

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/QuadraMap/QM-Backend/internal/middleware"
)

func SetupRoutes(h *Handlers, fetcher middleware.SessionFetcher) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(fetcher))

	r.Get("/", h.ListHandler)
	r.Post("/", h.CreateHandler)
	r.Get("/unavailable", h.UnavailableHandler)
	r.Delete("/{id}", h.DeleteHandler)

	return r
}
