package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/QuadraMap/QM-Backend/internal/middleware"
)

func SetupRoutes(s *Service) http.Handler {
	r := chi.NewRouter()

	r.Post("/register", s.RegisterHandler)
	r.Post("/login", s.LoginHandler)
	r.Post("/logout", s.LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(SessionInfo{}))
		r.Get("/me", s.MeHandler)
		r.Post("/update-password", s.UpdatePasswordHandler)
	})

	return r
}
