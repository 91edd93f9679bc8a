// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	"github.com/dalemusser/studyhub/internal/app/system/adminauth"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/auditlog"
	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Verifier checks a bearer token against the identity provider and the
// admin allow-list.
type Verifier interface {
	Verify(ctx context.Context, token string) (*adminauth.AdminUser, error)
}

// Sessions issues the signed admin cookie.
type Sessions interface {
	Issue(w http.ResponseWriter, r *http.Request, uid, email string) error
}

type Handler struct {
	Verifier Verifier
	Sessions Sessions
	Limiter  *ratelimit.Limiter
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(v Verifier, s Sessions, limiter *ratelimit.Limiter, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Verifier: v, Sessions: s, Limiter: limiter, Audit: audit, Log: logger}
}

type userResponse struct {
	User *adminauth.AdminUser `json:"user"`
}

// CreateSession handles POST /api/admin/session. The bearer token is
// verified once here; a valid admin gets the signed cookie that lets the
// browser into /admin pages.
//
//	too many attempts from one IP -> 429
//	missing / invalid token      -> 401
//	not allow-listed             -> 403
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)
	if h.Limiter != nil && !h.Limiter.Allow(ip) {
		h.Limiter.Reject(w)
		return
	}

	u, err := h.Verifier.Verify(r.Context(), adminauth.BearerToken(r.Header.Get("Authorization")))
	if err != nil {
		adminauth.WriteError(w, err)
		return
	}

	if err := h.Sessions.Issue(w, r, u.UID, u.Email); err != nil {
		apiresp.Internal(w, r, h.Log, "issue admin session failed", err)
		return
	}
	if h.Limiter != nil {
		h.Limiter.Reset(ip)
	}

	r = r.WithContext(adminauth.WithAdmin(r.Context(), u))
	h.Audit.Admin(r, audit.ActionSessionStarted, "admin", u.UID, nil)
	h.Log.Info("admin session issued", zap.String("email", u.Email))

	apiresp.JSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		userResponse
	}{true, userResponse{User: u}})
}

// VerifyToken handles GET /api/admin/verify. It runs behind RequireAdmin, so
// reaching it means the token is valid and allow-listed.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	u, ok := adminauth.FromContext(r.Context())
	if !ok {
		apiresp.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	apiresp.JSON(w, http.StatusOK, userResponse{User: u})
}
