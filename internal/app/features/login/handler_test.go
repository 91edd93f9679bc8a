package login_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/app/features/login"
	"github.com/dalemusser/studyhub/internal/app/system/adminauth"
	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.uber.org/zap"
)

type fakeVerifier map[string]error

func (f fakeVerifier) Verify(_ context.Context, token string) (*adminauth.AdminUser, error) {
	if token == "" {
		return nil, adminauth.ErrMissingToken
	}
	if err, ok := f[token]; ok {
		return nil, err
	}
	return testutil.Admin(), nil
}

type fakeSessions struct {
	issued []string
	err    error
}

func (f *fakeSessions) Issue(w http.ResponseWriter, _ *http.Request, uid, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.issued = append(f.issued, uid)
	http.SetCookie(w, &http.Cookie{Name: "admin", Value: "signed"})
	return nil
}

func newHandler(limit int) (*login.Handler, *fakeSessions) {
	s := &fakeSessions{}
	v := fakeVerifier{"bad": adminauth.ErrInvalidToken, "user": adminauth.ErrNotAdmin}
	return login.NewHandler(v, s, ratelimit.New(limit, time.Minute), nil, zap.NewNop()), s
}

func post(h *login.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/session", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.CreateSession(rec, req)
	return rec
}

func TestCreateSession_Issues(t *testing.T) {
	h, s := newHandler(5)

	rec := post(h, "good")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if len(s.issued) != 1 || s.issued[0] != testutil.Admin().UID {
		t.Errorf("issued: %v", s.issued)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Error("expected a session cookie")
	}
	var body struct {
		Success bool                `json:"success"`
		User    adminauth.AdminUser `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.User.Email != testutil.Admin().Email {
		t.Errorf("body: %+v", body)
	}
}

func TestCreateSession_Rejections(t *testing.T) {
	h, s := newHandler(10)
	tests := []struct {
		token string
		want  int
	}{
		{"", http.StatusUnauthorized},
		{"bad", http.StatusUnauthorized},
		{"user", http.StatusForbidden},
	}
	for _, tt := range tests {
		if rec := post(h, tt.token); rec.Code != tt.want {
			t.Errorf("token %q: got %d, want %d", tt.token, rec.Code, tt.want)
		}
	}
	if len(s.issued) != 0 {
		t.Error("no session may be issued on rejection")
	}
}

func TestCreateSession_RateLimited(t *testing.T) {
	h, _ := newHandler(2)
	post(h, "bad")
	post(h, "bad")
	rec := post(h, "good")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestCreateSession_IssueFailure(t *testing.T) {
	h, s := newHandler(5)
	s.err = errors.New("encode failed")
	if rec := post(h, "good"); rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestVerifyToken(t *testing.T) {
	h, _ := newHandler(5)

	rec := httptest.NewRecorder()
	h.VerifyToken(rec, testutil.NewAdminRequest(http.MethodGet, "/api/admin/verify", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body struct {
		User adminauth.AdminUser `json:"user"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if !body.User.IsAdmin || body.User.UID != testutil.Admin().UID {
		t.Errorf("user: %+v", body.User)
	}

	rec = httptest.NewRecorder()
	h.VerifyToken(rec, httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("without admin: got %d", rec.Code)
	}
}
