package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/studyhub/internal/app/system/adminauth"
)

// Admin returns a verified admin identity for handler tests.
func Admin() *adminauth.AdminUser {
	return &adminauth.AdminUser{
		UID:         "uid-admin",
		Email:       "admin@test.com",
		DisplayName: "Test Admin",
		IsAdmin:     true,
	}
}

// NewAdminRequest builds a request that already carries a verified admin,
// bypassing bearer verification.
func NewAdminRequest(method, target, body string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(adminauth.WithAdmin(req.Context(), Admin()))
}
