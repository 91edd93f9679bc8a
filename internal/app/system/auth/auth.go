// Package auth owns the signed admin session cookie and the route guard
// that keeps anonymous browsers out of the admin area.
//
// The cookie only decides whether to show admin pages or bounce to the
// login page. API handlers never trust it: every admin API request is
// re-verified from its bearer token by adminauth.RequireAdmin.
package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	// LoginPath is the only admin page reachable without a session.
	LoginPath = "/admin/login"

	adminUIDKey   = "admin_uid"
	adminEmailKey = "admin_email"
	issuedAtKey   = "issued_at"
)

// SessionAdmin is what the signed cookie carries.
type SessionAdmin struct {
	UID      string
	Email    string
	IssuedAt time.Time
}

// SessionManager signs and reads the admin session cookie.
type SessionManager struct {
	store  *sessions.CookieStore
	name   string
	log    *zap.Logger
	bypass map[string]struct{}
}

// NewSessionManager builds a CookieStore keyed by sessionKey. An empty key
// is only accepted outside production; a random one is generated so that
// sessions simply do not survive restarts.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	key := []byte(sessionKey)
	if len(key) == 0 {
		if secure {
			return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
		}
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("session key not set; generated an ephemeral key")
	} else if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{
		store: store,
		name:  name,
		log:   logger,
		bypass: map[string]struct{}{
			LoginPath:            {},
			"/api/admin/session": {},
			"/api/admin/verify":  {},
		},
	}, nil
}

// Issue writes a fresh signed session for the verified admin.
func (sm *SessionManager) Issue(w http.ResponseWriter, r *http.Request, uid, email string) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[adminUIDKey] = uid
	sess.Values[adminEmailKey] = email
	sess.Values[issuedAtKey] = time.Now().Unix()
	return sess.Save(r, w)
}

// Revoke expires the session cookie.
func (sm *SessionManager) Revoke(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Current decodes the session. A missing, tampered or expired cookie yields
// ok=false.
func (sm *SessionManager) Current(r *http.Request) (SessionAdmin, bool) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil || sess.IsNew {
		return SessionAdmin{}, false
	}
	uid, _ := sess.Values[adminUIDKey].(string)
	if uid == "" {
		return SessionAdmin{}, false
	}
	email, _ := sess.Values[adminEmailKey].(string)
	issued, _ := sess.Values[issuedAtKey].(int64)
	return SessionAdmin{UID: uid, Email: email, IssuedAt: time.Unix(issued, 0)}, true
}

// RequireAdminSession guards /admin and /api/admin paths:
//   - pages without a session: 303 to /admin/login?return=...
//   - API without a session:   401 {"error":"Unauthorized"}
//
// Other paths pass straight through.
func (sm *SessionManager) RequireAdminSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if !IsAdminPath(p) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := sm.bypass[strings.TrimSuffix(p, "/")]; ok {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := sm.Current(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		if isAPIPath(p) {
			apiresp.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		http.Redirect(w, r, LoginPath+"?return="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
	})
}

// IsAdminPath reports whether p is inside the admin area.
func IsAdminPath(p string) bool {
	return hasSegmentPrefix(p, "/admin") || isAPIPath(p)
}

func isAPIPath(p string) bool {
	return hasSegmentPrefix(p, "/api/admin")
}

func hasSegmentPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
