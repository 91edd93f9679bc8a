// internal/app/features/premium/routes.go
package premium

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the premium API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Grant)
	r.Patch("/", h.Cancel)
	r.Get("/analytics", h.Analytics)
}
