// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/auditlog"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Sessions reads and expires the signed admin cookie.
type Sessions interface {
	Current(r *http.Request) (auth.SessionAdmin, bool)
	Revoke(w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	Sessions Sessions
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(s Sessions, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Sessions: s, Audit: audit, Log: logger}
}

// MountRoutes mounts DELETE /api/admin/session.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Delete("/", h.EndSession)
}

// EndSession clears the admin cookie. It succeeds even without a current
// session so the client can always sign out.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	cur, had := h.Sessions.Current(r)

	if err := h.Sessions.Revoke(w, r); err != nil {
		apiresp.Internal(w, r, h.Log, "revoke admin session failed", err)
		return
	}

	if had {
		h.Audit.Log(r.Context(), models.AuditEvent{
			Action:     audit.ActionSessionEnded,
			ActorUID:   cur.UID,
			ActorEmail: cur.Email,
			TargetType: "admin",
			TargetID:   cur.UID,
			IP:         ratelimit.ClientIP(r),
		})
	}
	apiresp.Success(w)
}
