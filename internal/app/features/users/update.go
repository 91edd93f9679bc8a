// internal/app/features/users/update.go
package users

import (
	"errors"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
)

// Update handles PATCH /api/admin/users.
//
//	{ "userId": "...", "action": "ban|unban|setPremium|delete", "data": {"isPremium": true, "premiumUntil": "..."} }
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := apiresp.Decode(w, r, &req); err != nil {
		apiresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users update")
	defer cancel()

	var (
		err         error
		auditAction string
		details     map[string]string
	)
	switch req.Action {
	case ActionBan, ActionUnban:
		banned := req.Action == ActionBan
		if err = h.Store.SetBanned(ctx, req.UserID, banned, h.Now()); err == nil {
			err = h.Accounts.SetDisabled(ctx, req.UserID, banned)
		}
		auditAction = audit.ActionUserUnbanned
		if banned {
			auditAction = audit.ActionUserBanned
		}
	case ActionSetPremium:
		if req.Data == nil {
			apiresp.Error(w, http.StatusBadRequest, "data is required for setPremium")
			return
		}
		err = h.Store.SetPremiumFlag(ctx, req.UserID, req.Data.IsPremium, req.Data.PremiumUntil)
		auditAction = audit.ActionUserPremiumSet
		details = map[string]string{"is_premium": boolString(req.Data.IsPremium)}
	case ActionDelete:
		if err = h.Store.Delete(ctx, req.UserID); err == nil {
			err = h.Accounts.Delete(ctx, req.UserID)
		}
		auditAction = audit.ActionUserDeleted
	default:
		apiresp.Error(w, http.StatusBadRequest, "Invalid action")
		return
	}

	if errors.Is(err, userstore.ErrNotFound) {
		apiresp.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		apiresp.Internal(w, r, h.Log, "update user failed", err)
		return
	}

	h.Cache.Clear(ctx)
	h.Audit.Admin(r, auditAction, "user", req.UserID, details)
	apiresp.Success(w)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
