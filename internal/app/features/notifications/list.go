// internal/app/features/notifications/list.go
package notifications

import (
	"context"
	"net/http"

	notificationstore "github.com/dalemusser/studyhub/internal/app/store/notifications"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

type listResult struct {
	Notifications []models.Notification `json:"notifications"`
}

// List handles GET /api/admin/notifications: the newest sends.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "notifications list")
	defer cancel()

	res, cached, err := cache.Fetch(ctx, h.Cache, "notifications_list", listTTL, func(ctx context.Context) (listResult, error) {
		ns, err := h.Records.List(ctx, notificationstore.DefaultListLimit)
		if err != nil {
			return listResult{}, err
		}
		return listResult{Notifications: ns}, nil
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "list notifications failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		listResult
		Cached bool `json:"cached"`
	}{res, cached})
}
