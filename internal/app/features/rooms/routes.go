// internal/app/features/rooms/routes.go
package rooms

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the rooms API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Patch("/", h.Update)
	r.Delete("/", h.Delete)
}
