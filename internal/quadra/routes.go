package quadra

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/QuadraMap/QM-Backend/internal/middleware"
)

func SetupRoutes(h *Handlers, fetcher middleware.SessionFetcher) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(fetcher))

	r.Get("/", h.ListHandler)
	r.Get("/search", h.SearchHandler)
	r.Post("/{id}/advance", h.AdvanceHandler)
	r.Get("/{id}/properties", h.GetPropertiesHandler)
	r.Put("/{id}/properties", h.PutPropertiesHandler)

	// Adding quadras reshapes the map for everyone; admins only.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminMiddleware(fetcher))
		r.Post("/", h.CreateHandler)
	})

	return r
}
