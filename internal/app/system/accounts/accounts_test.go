package accounts

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
)

type fakeClient struct {
	updated []string
	deleted []string
	err     error
}

func (f *fakeClient) UpdateUser(_ context.Context, uid string, _ *auth.UserToUpdate) (*auth.UserRecord, error) {
	f.updated = append(f.updated, uid)
	return &auth.UserRecord{}, f.err
}

func (f *fakeClient) DeleteUser(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return f.err
}

func TestFirebase_PassesThrough(t *testing.T) {
	c := &fakeClient{}
	f := NewFirebase(c)

	if err := f.SetDisabled(context.Background(), "uid-1", true); err != nil {
		t.Fatalf("SetDisabled: %v", err)
	}
	if err := f.Delete(context.Background(), "uid-2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(c.updated) != 1 || c.updated[0] != "uid-1" || len(c.deleted) != 1 || c.deleted[0] != "uid-2" {
		t.Errorf("calls: updated=%v deleted=%v", c.updated, c.deleted)
	}
}

func TestFirebase_WrapsProviderErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	f := NewFirebase(&fakeClient{err: boom})

	if err := f.SetDisabled(context.Background(), "uid-1", true); !errors.Is(err, boom) {
		t.Errorf("SetDisabled: got %v", err)
	}
	if err := f.Delete(context.Background(), "uid-1"); !errors.Is(err, boom) {
		t.Errorf("Delete: got %v", err)
	}
}

func TestNoop(t *testing.T) {
	var n Noop
	if n.SetDisabled(context.Background(), "x", true) != nil || n.Delete(context.Background(), "x") != nil {
		t.Error("Noop must always succeed")
	}
}
