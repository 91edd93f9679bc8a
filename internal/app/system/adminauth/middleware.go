package adminauth

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
)

type ctxKey string

const adminKey ctxKey = "adminUser"

// WithAdmin returns ctx carrying u.
func WithAdmin(ctx context.Context, u *AdminUser) context.Context {
	return context.WithValue(ctx, adminKey, u)
}

// FromContext returns the verified admin placed by RequireAdmin.
func FromContext(ctx context.Context) (*AdminUser, bool) {
	u, ok := ctx.Value(adminKey).(*AdminUser)
	return u, ok && u != nil
}

// RequireAdmin verifies the request's bearer token before any handler runs
// and injects the AdminUser into the context.
//
//	missing / invalid token -> 401 {"error":"Unauthorized"}
//	valid but not allow-listed -> 403 {"error":"Forbidden"}
func (v *Verifier) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := v.Verify(r.Context(), BearerToken(r.Header.Get("Authorization")))
		if err != nil {
			WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), u)))
	})
}

// WriteError maps a Verify error to its HTTP response.
func WriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotAdmin) || errors.Is(err, ErrNoEmail) {
		apiresp.Error(w, http.StatusForbidden, "Forbidden")
		return
	}
	apiresp.Error(w, http.StatusUnauthorized, "Unauthorized")
}
