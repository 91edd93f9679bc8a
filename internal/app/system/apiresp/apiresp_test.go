package apiresp_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
)

type grantRequest struct {
	UserID      string `json:"userId" validate:"required"`
	PremiumType string `json:"premiumType" validate:"required,oneof=monthly yearly"`
	Duration    int    `json:"duration" validate:"gt=0"`
}

func TestDecode_Valid(t *testing.T) {
	body := `{"userId":"u1","premiumType":"yearly","duration":30}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	var req grantRequest
	if err := apiresp.Decode(w, r, &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.UserID != "u1" || req.Duration != 30 {
		t.Errorf("got %+v", req)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "request body is required"},
		{"malformed", "{", "malformed JSON body"},
		{"missing user", `{"premiumType":"monthly","duration":1}`, "userId is required"},
		{"bad plan", `{"userId":"u","premiumType":"weekly","duration":1}`, "premiumType must be one of"},
		{"zero duration", `{"userId":"u","premiumType":"monthly","duration":0}`, "duration must be at least 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req grantRequest
			err := apiresp.Decode(httptest.NewRecorder(), r, &req)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error: got %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestError_WritesJSON(t *testing.T) {
	w := httptest.NewRecorder()
	apiresp.Error(w, http.StatusUnauthorized, "Unauthorized")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"Unauthorized"}` {
		t.Errorf("body: got %s", got)
	}
}
