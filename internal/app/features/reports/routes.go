// internal/app/features/reports/routes.go
package reports

import "github.com/go-chi/chi/v5"

// MountUserReports mounts /api/admin/reports.
func (h *Handler) MountUserReports(r chi.Router) {
	r.Get("/", h.ListUserReports)
	r.Patch("/", h.UpdateUserReport)
}

// MountMessageReports mounts /api/admin/message-reports.
func (h *Handler) MountMessageReports(r chi.Router) {
	r.Get("/", h.ListMessageReports)
	r.Patch("/", h.messages.patchStatus)
	r.Delete("/", h.messages.delete)
}

// MountRoomUserReports mounts /api/admin/user-reports.
func (h *Handler) MountRoomUserReports(r chi.Router) {
	r.Get("/", h.ListRoomUserReports)
	r.Patch("/", h.roomUser.patchStatus)
	r.Delete("/", h.roomUser.delete)
}
