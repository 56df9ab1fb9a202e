// Package httpapi exposes the REST surface: request decoding, the uniform
// response envelope, and routing with bearer-token enforcement.
package httpapi

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kursattkorkmazzz/garagely/internal/auth"
	"github.com/kursattkorkmazzz/garagely/internal/storage"
	"github.com/kursattkorkmazzz/garagely/internal/user"
)

const serviceTimeout = 30 * time.Second

// Deps collects everything the HTTP layer needs.
type Deps struct {
	Auth     auth.Service
	Users    user.Service
	Storage  storage.Service
	Verifier auth.Verifier
	Limits   storage.Limits
	Logger   *slog.Logger
}

// RegisterRoutes mounts every API route. Registration and login are public;
// everything else requires a verified bearer token.
func RegisterRoutes(r chi.Router, deps Deps) {
	requireAuth := auth.Middleware(deps.Verifier)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", register(deps))
		r.Post("/login", login(deps))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/change-password", changePassword(deps))
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/me", getMe(deps))
		r.Patch("/me", updateMe(deps))
		r.Delete("/me", deleteMe(deps))
		r.Patch("/me/preferences", updatePreferences(deps))

		r.Post("/me/avatar", uploadAvatar(deps))
		r.Get("/me/avatar", getAvatar(deps))
		r.Delete("/me/avatar", removeAvatar(deps))
	})

	r.Route("/storage", func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/upload", uploadDocument(deps))
		r.Get("/documents", listDocuments(deps))
		r.Get("/documents/{id}", getDocument(deps))
		r.Delete("/documents/{id}", deleteDocument(deps))

		r.Post("/relations", createRelation(deps))
		r.Delete("/relations/{id}", deleteRelation(deps))
	})
}
