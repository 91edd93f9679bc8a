// Package adminauth verifies identity-provider bearer tokens and checks the
// resulting email against the configured admin allow-list.
package adminauth

import (
	"context"
	"errors"
	"strings"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

var (
	ErrMissingToken = errors.New("adminauth: missing bearer token")
	ErrInvalidToken = errors.New("adminauth: token rejected")
	ErrNoEmail      = errors.New("adminauth: token has no email claim")
	ErrNotAdmin     = errors.New("adminauth: email not on admin allow-list")
)

// AdminUser is the verified identity of an allow-listed admin.
type AdminUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
}

// TokenVerifier decodes and cryptographically verifies an ID token.
// *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AllowList is a case-insensitive set of admin emails.
type AllowList map[string]struct{}

// NewAllowList parses a comma-separated list of emails.
func NewAllowList(raw string) AllowList {
	al := AllowList{}
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			al[e] = struct{}{}
		}
	}
	return al
}

// Contains reports whether email is allow-listed.
func (al AllowList) Contains(email string) bool {
	_, ok := al[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Verifier checks bearer tokens. One attempt per call; no retries.
type Verifier struct {
	tokens TokenVerifier
	allow  AllowList
	log    *zap.Logger
}

func NewVerifier(tokens TokenVerifier, allow AllowList, logger *zap.Logger) *Verifier {
	return &Verifier{tokens: tokens, allow: allow, log: logger}
}

// Verify returns the admin identity for token. Provider failures of any kind
// come back as ErrInvalidToken; the log line says whether the token was bad
// or the provider could not be reached.
func (v *Verifier) Verify(ctx context.Context, token string) (*AdminUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	if v.tokens == nil {
		v.log.Error("admin token check without an auth provider")
		return nil, ErrInvalidToken
	}

	decoded, err := v.tokens.VerifyIDToken(ctx, token)
	if err != nil {
		if isBadToken(err) {
			v.log.Info("admin token rejected", zap.Error(err))
		} else {
			v.log.Warn("auth provider unavailable during token verification", zap.Error(err))
		}
		return nil, ErrInvalidToken
	}

	email, _ := decoded.Claims["email"].(string)
	if email == "" {
		return nil, ErrNoEmail
	}
	if !v.allow.Contains(email) {
		v.log.Warn("non-admin attempted admin access", zap.String("email", email))
		return nil, ErrNotAdmin
	}

	name, _ := decoded.Claims["name"].(string)
	return &AdminUser{
		UID:         decoded.UID,
		Email:       strings.ToLower(email),
		DisplayName: name,
		IsAdmin:     true,
	}, nil
}

func isBadToken(err error) bool {
	return auth.IsIDTokenInvalid(err) || auth.IsIDTokenExpired(err) || auth.IsIDTokenRevoked(err)
}

// BearerToken extracts the token from an "Authorization: Bearer x" value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
