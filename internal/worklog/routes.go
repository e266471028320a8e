package worklog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/QuadraMap/QM-Backend/internal/middleware"
)

func SetupRoutes(h *Handlers, fetcher middleware.SessionFetcher) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(fetcher))

	r.Get("/", h.ListHandler)
	r.Get("/quadras", h.QuadrasHandler)
	r.Get("/recent", h.RecentHandler)
	r.Get("/export.pdf", h.ExportPDFHandler)
	r.Delete("/{quadraId}", h.DeleteHandler)

	return r
}
