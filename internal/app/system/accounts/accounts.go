// Package accounts applies admin decisions to the identity provider: a banned
// user's sign-in is disabled and a deleted user's account is removed.
package accounts

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// Client is the subset of *auth.Client used here.
type Client interface {
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

// Firebase manages Firebase Auth accounts. A profile without an auth
// account (seeded or already removed) is not an error.
type Firebase struct {
	c Client
}

func NewFirebase(c Client) *Firebase {
	return &Firebase{c: c}
}

// SetDisabled blocks or restores sign-in for uid.
func (f *Firebase) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	_, err := f.c.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Disabled(disabled))
	if err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("update auth account %s: %w", uid, err)
	}
	return nil
}

// Delete removes uid's auth account.
func (f *Firebase) Delete(ctx context.Context, uid string) error {
	if err := f.c.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("delete auth account %s: %w", uid, err)
	}
	return nil
}

// Noop is used when no provider credentials are configured (local
// development). Every call succeeds.
type Noop struct{}

func (Noop) SetDisabled(context.Context, string, bool) error { return nil }
func (Noop) Delete(context.Context, string) error            { return nil }
