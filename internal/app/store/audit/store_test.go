package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
)

func TestStore_LogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	err := store.Log(ctx, models.AuditEvent{
		Action:     audit.ActionUserBanned,
		ActorUID:   "uid-admin",
		ActorEmail: "admin@test.com",
		TargetType: "user",
		TargetID:   "uid-0001",
		IP:         "192.168.1.1",
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if err := store.Log(ctx, models.AuditEvent{Action: audit.ActionRoomDeleted, ActorUID: "uid-admin", TargetType: "room", TargetID: "r1"}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByTarget(ctx, "user", "uid-0001", 10)
	if err != nil {
		t.Fatalf("GetByTarget failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Action != audit.ActionUserBanned {
		t.Errorf("Action: got %q, want %q", events[0].Action, audit.ActionUserBanned)
	}
	if events[0].Timestamp.IsZero() || events[0].ID.IsZero() {
		t.Error("expected Log to fill ID and Timestamp")
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{ActorUID: "uid-admin"})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}
}

func TestStore_QueryTimeRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)
	_ = store.Log(ctx, models.AuditEvent{Action: "a", Timestamp: old})
	_ = store.Log(ctx, models.AuditEvent{Action: "b", Timestamp: now})

	since := now.Add(-time.Hour)
	events, err := store.Query(ctx, audit.QueryFilter{StartTime: &since})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 || events[0].Action != "b" {
		t.Errorf("got %+v, want only the recent event", events)
	}
}
