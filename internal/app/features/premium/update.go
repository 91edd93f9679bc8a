// internal/app/features/premium/update.go
package premium

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
)

type grantRequest struct {
	UserID      string `json:"userId" validate:"required"`
	PremiumType string `json:"premiumType" validate:"required,oneof=monthly yearly"`
	Duration    int    `json:"duration" validate:"gt=0"` // days
}

// Grant handles POST /api/admin/premium. The new window starts at the later
// of now and the current window end.
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := apiresp.Decode(w, r, &req); err != nil {
		apiresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "premium grant")
	defer cancel()

	until, err := h.Store.GrantPremium(ctx, req.UserID, req.PremiumType, req.Duration, h.Now())
	if errors.Is(err, userstore.ErrNotFound) {
		apiresp.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		apiresp.Internal(w, r, h.Log, "grant premium failed", err)
		return
	}

	h.Cache.Clear(ctx)
	h.Audit.Admin(r, audit.ActionPremiumGranted, "user", req.UserID, map[string]string{
		"premium_type": req.PremiumType,
		"duration":     strconv.Itoa(req.Duration),
	})
	apiresp.JSON(w, http.StatusOK, struct {
		Success      bool      `json:"success"`
		PremiumUntil time.Time `json:"premiumUntil"`
	}{true, until})
}

type cancelRequest struct {
	UserID string `json:"userId" validate:"required"`
	Action string `json:"action" validate:"required,oneof=cancel"`
}

// Cancel handles PATCH /api/admin/premium {userId, action: "cancel"}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := apiresp.Decode(w, r, &req); err != nil {
		apiresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "premium cancel")
	defer cancel()

	err := h.Store.CancelPremium(ctx, req.UserID, h.Now())
	if errors.Is(err, userstore.ErrNotFound) {
		apiresp.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		apiresp.Internal(w, r, h.Log, "cancel premium failed", err)
		return
	}

	h.Cache.Clear(ctx)
	h.Audit.Admin(r, audit.ActionPremiumCancelled, "user", req.UserID, nil)
	apiresp.Success(w)
}
