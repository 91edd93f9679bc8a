// internal/app/features/notifications/routes.go
package notifications

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the notifications API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Send)
}
