// internal/app/features/reports/userreports.go
package reports

import (
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

// Action is a user-report PATCH verb.
type Action string

const (
	ActionReview  Action = "review"
	ActionResolve Action = "resolve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
)

type updateRequest struct {
	ReportID string `json:"reportId" validate:"required"`
	Action   Action `json:"action" validate:"required,oneof=review resolve reject delete"`
	Notes    string `json:"notes"`
}

// UpdateUserReport handles PATCH /api/admin/reports.
//
//	{ "reportId": "...", "action": "review|resolve|reject|delete", "notes": "..." }
func (h *Handler) UpdateUserReport(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := apiresp.Decode(w, r, &req); err != nil {
		apiresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	switch req.Action {
	case ActionReview:
		h.users.review(w, r, req.ReportID, models.ReportReviewing, req.Notes, false)
	case ActionResolve:
		h.users.review(w, r, req.ReportID, models.ReportResolved, req.Notes, false)
	case ActionReject:
		h.users.review(w, r, req.ReportID, models.ReportRejected, req.Notes, false)
	case ActionDelete:
		h.users.review(w, r, req.ReportID, "", "", true)
	default:
		apiresp.Error(w, http.StatusBadRequest, "Invalid action")
	}
}

// ListUserReports handles GET /api/admin/reports.
func (h *Handler) ListUserReports(w http.ResponseWriter, r *http.Request) { h.users.list(w, r) }

// ListMessageReports handles GET /api/admin/message-reports.
func (h *Handler) ListMessageReports(w http.ResponseWriter, r *http.Request) { h.messages.list(w, r) }

// ListRoomUserReports handles GET /api/admin/user-reports.
func (h *Handler) ListRoomUserReports(w http.ResponseWriter, r *http.Request) { h.roomUser.list(w, r) }
