package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/app/features/logout"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newSessions(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32b", "test-admin", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func TestEndSession_ClearsCookie(t *testing.T) {
	sm := newSessions(t)
	h := logout.NewHandler(sm, nil, zap.NewNop())

	// issue a session first
	issue := httptest.NewRecorder()
	if err := sm.Issue(issue, httptest.NewRequest(http.MethodPost, "/api/admin/session", nil), "uid-1", "a@x.com"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/session", nil)
	for _, c := range issue.Result().Cookies() {
		req.AddCookie(c)
	}
	if _, ok := sm.Current(req); !ok {
		t.Fatal("issued cookie should decode")
	}

	rec := httptest.NewRecorder()
	h.EndSession(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-admin" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the session cookie to be expired")
	}
}

func TestEndSession_WithoutSession(t *testing.T) {
	h := logout.NewHandler(newSessions(t), nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.EndSession(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/session", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d", rec.Code)
	}
}
