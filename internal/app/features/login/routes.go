// internal/app/features/login/routes.go
package login

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountSession mounts POST /api/admin/session.
func (h *Handler) MountSession(r chi.Router) {
	r.Post("/", h.CreateSession)
}

// MountVerify mounts GET /api/admin/verify behind requireAdmin.
func (h *Handler) MountVerify(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.With(requireAdmin).Get("/", h.VerifyToken)
}
