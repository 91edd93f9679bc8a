package reportstore_test

import (
	"errors"
	"testing"
	"time"

	reportstore "github.com/dalemusser/studyhub/internal/app/store/reports"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestList_StatusFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateUserReport(ctx, "uid-1", models.ReportPending)
	fx.CreateUserReport(ctx, "uid-2", models.ReportPending)
	fx.CreateUserReport(ctx, "uid-3", models.ReportResolved)

	store := reportstore.NewUserReports(db)
	page := paging.Page{Number: 1, Limit: 20}

	got, total, err := store.List(ctx, reportstore.Query{Status: models.ReportPending}, page)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Errorf("pending: total=%d len=%d, want 2", total, len(got))
	}

	_, total, err = store.List(ctx, reportstore.Query{}, page)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("all: total=%d, want 3", total)
	}
}

func TestList_PendingIncludesMissingStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	_, err := db.Collection("message_reports").InsertMany(ctx, []any{
		bson.M{"_id": primitive.NewObjectID(), "room_id": "r1", "created_at": now},
		bson.M{"_id": primitive.NewObjectID(), "room_id": "r1", "status": "pending", "created_at": now},
		bson.M{"_id": primitive.NewObjectID(), "room_id": "r1", "status": "resolved", "created_at": now},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	store := reportstore.NewMessageReports(db)
	page := paging.Page{Number: 1, Limit: 20}

	_, total, err := store.List(ctx, reportstore.Query{Status: models.ReportPending, RoomID: "r1"}, page)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("pending: total=%d, want 2", total)
	}

	_, total, err = store.List(ctx, reportstore.Query{Status: models.ReportResolved}, page)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("resolved: total=%d, want 1", total)
	}
}

func TestReview_Transitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	rep := fx.CreateUserReport(ctx, "uid-1", models.ReportPending)
	store := reportstore.NewUserReports(db)
	now := time.Now().UTC()

	if err := store.Review(ctx, rep.ID, models.ReportReviewing, "uid-admin", "", now); err != nil {
		t.Fatalf("pending->reviewing: %v", err)
	}
	if err := store.Review(ctx, rep.ID, models.ReportResolved, "uid-admin", "warned", now); err != nil {
		t.Fatalf("reviewing->resolved: %v", err)
	}
	if err := store.Review(ctx, rep.ID, models.ReportReviewing, "uid-admin", "", now); !errors.Is(err, reportstore.ErrTransition) {
		t.Errorf("resolved->reviewing: got %v, want ErrTransition", err)
	}
	if err := store.Review(ctx, rep.ID, models.ReportPending, "uid-admin", "", now); !errors.Is(err, reportstore.ErrTransition) {
		t.Errorf("->pending: got %v, want ErrTransition", err)
	}

	var got models.UserReport
	if err := db.Collection("reports").FindOne(ctx, bson.M{"_id": rep.ID}).Decode(&got); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.ReportResolved || got.ReviewedBy != "uid-admin" || got.AdminNotes != "warned" {
		t.Errorf("stored review = %+v", got.ReportReview)
	}
}

func TestReview_MissingStatusReadsAsPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	if _, err := db.Collection("message_reports").InsertOne(ctx, bson.M{"_id": id, "room_id": "r1", "created_at": time.Now()}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	store := reportstore.NewMessageReports(db)

	st, err := store.Status(ctx, id)
	if err != nil || st != models.ReportPending {
		t.Fatalf("Status = %q, %v", st, err)
	}
	if err := store.Review(ctx, id, models.ReportRejected, "uid-admin", "", time.Now()); err != nil {
		t.Fatalf("Review: %v", err)
	}
}

func TestReview_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := reportstore.NewRoomUserReports(db)
	err := store.Review(ctx, primitive.NewObjectID(), models.ReportResolved, "uid-admin", "", time.Now())
	if !errors.Is(err, reportstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, reportstore.ErrNotFound) {
		t.Errorf("Delete: got %v, want ErrNotFound", err)
	}
}
