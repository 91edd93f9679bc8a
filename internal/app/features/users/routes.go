// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the users API. Callers wrap it with admin verification.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Patch("/", h.Update)
}
