package userstore_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestList_BannedSecondPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	for i := 0; i < 25; i++ {
		fx.CreateUser(ctx, fmt.Sprintf("banned%02d@x.com", i), testutil.Banned())
	}
	for i := 0; i < 10; i++ {
		fx.CreateUser(ctx, fmt.Sprintf("ok%02d@x.com", i))
	}

	store := userstore.New(db)
	q := userstore.Query{Filter: userstore.FilterBanned, Now: time.Now()}
	users, total, err := store.List(ctx, q, paging.Page{Number: 2, Limit: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 25 {
		t.Errorf("total: got %d, want 25", total)
	}
	if len(users) != 5 {
		t.Errorf("page 2 items: got %d, want 5", len(users))
	}
	if got := paging.TotalPages(total, 20); got != 2 {
		t.Errorf("totalPages: got %d, want 2", got)
	}

	beyond, _, err := store.List(ctx, q, paging.Page{Number: 9, Limit: 20})
	if err != nil {
		t.Fatalf("List beyond: %v", err)
	}
	if len(beyond) != 0 {
		t.Errorf("page beyond end: got %d items, want 0", len(beyond))
	}
}

func TestList_NewestFirstAndSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()
	fx.CreateUser(ctx, "old@x.com", testutil.CreatedAt(now.Add(-48*time.Hour)))
	fx.CreateUser(ctx, "new@x.com", testutil.CreatedAt(now.Add(-time.Hour)))
	fx.CreateUser(ctx, "ancient@x.com", testutil.CreatedAt(now.Add(-30*24*time.Hour)))

	store := userstore.New(db)
	users, _, err := store.List(ctx, userstore.Query{Filter: userstore.FilterRecent, Now: now}, paging.Page{Number: 1, Limit: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 || users[0].Email != "new@x.com" {
		t.Errorf("recent newest-first: got %+v", users)
	}

	found, total, err := store.List(ctx, userstore.Query{Filter: userstore.FilterAll, Search: "ANC", Now: now}, paging.Page{Number: 1, Limit: 20})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || found[0].Email != "ancient@x.com" {
		t.Errorf("search: got total=%d %+v", total, found)
	}
}

func TestList_SearchByDisplayName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Written the way the mobile app writes users: no derived search fields.
	now := time.Now().UTC()
	_, err := db.Collection("users").InsertMany(ctx, []any{
		bson.M{"_id": "uid-bella", "email": "zz1@x.com", "display_name": "Bella Study", "created_at": now},
		bson.M{"_id": "uid-other", "email": "zz2@x.com", "display_name": "Omar", "created_at": now},
	})
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}

	store := userstore.New(db)
	found, total, err := store.List(ctx, userstore.Query{Filter: userstore.FilterAll, Search: "bELLa", Now: now}, paging.Page{Number: 1, Limit: 20})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || found[0].ID != "uid-bella" {
		t.Errorf("name search: got total=%d %+v", total, found)
	}

	found, _, err = store.List(ctx, userstore.Query{Filter: userstore.FilterAll, Search: "ZZ2@", Now: now}, paging.Page{Number: 1, Limit: 20})
	if err != nil {
		t.Fatalf("email search: %v", err)
	}
	if len(found) != 1 || found[0].ID != "uid-other" {
		t.Errorf("email search: got %+v", found)
	}
}

func TestMutations_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	if err := store.SetBanned(ctx, "missing", true, time.Now()); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("SetBanned: got %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "missing"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("Delete: got %v, want ErrNotFound", err)
	}
	if _, err := store.GrantPremium(ctx, "missing", models.PlanMonthly, 30, time.Now()); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("GrantPremium: got %v, want ErrNotFound", err)
	}
}

func TestGrantPremium_ExtendsFromCurrentEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	u := fx.CreateUser(ctx, "sub@x.com")
	store := userstore.New(db)
	now := time.Now().UTC().Truncate(time.Millisecond)

	first, err := store.GrantPremium(ctx, u.ID, models.PlanMonthly, 30, now)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if want := now.Add(30 * 24 * time.Hour); !first.Equal(want) {
		t.Errorf("first until: got %v, want %v", first, want)
	}

	second, err := store.GrantPremium(ctx, u.ID, models.PlanMonthly, 10, now)
	if err != nil {
		t.Fatalf("grant again: %v", err)
	}
	if want := first.Add(10 * 24 * time.Hour); !second.Equal(want) {
		t.Errorf("extension: got %v, want %v", second, want)
	}

	got, _ := store.Get(ctx, u.ID)
	if !got.IsPremium || got.PremiumStartedAt == nil {
		t.Errorf("premium fields not set: %+v", got)
	}

	if err := store.CancelPremium(ctx, u.ID, now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, _ = store.Get(ctx, u.ID)
	if got.IsPremium || got.PremiumUntil != nil || got.PremiumCancelledAt == nil {
		t.Errorf("cancel fields: %+v", got)
	}
}

func TestAudienceIDs_Deterministic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()
	for i := 0; i < 6; i++ {
		if i%2 == 0 {
			fx.CreateUser(ctx, fmt.Sprintf("p%d@x.com", i), testutil.Premium(models.PlanMonthly, now))
		} else {
			fx.CreateUser(ctx, fmt.Sprintf("f%d@x.com", i))
		}
	}

	store := userstore.New(db)
	a, err := store.AudienceIDs(ctx, models.AudiencePremium, now)
	if err != nil {
		t.Fatalf("AudienceIDs: %v", err)
	}
	b, _ := store.AudienceIDs(ctx, models.AudiencePremium, now)
	if len(a) != 3 || fmt.Sprint(a) != fmt.Sprint(b) {
		t.Errorf("premium audience: %v vs %v", a, b)
	}

	free, _ := store.AudienceIDs(ctx, models.AudienceFree, now)
	if len(free) != 3 {
		t.Errorf("free audience: got %d, want 3", len(free))
	}
}

func TestPushTargetsAndClear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	a := fx.CreateUser(ctx, "a@x.com", testutil.WithPushToken("tok-a"))
	b := fx.CreateUser(ctx, "b@x.com", testutil.WithPushToken("tok-b"))
	c := fx.CreateUser(ctx, "c@x.com")

	store := userstore.New(db)
	targets, err := store.PushTargets(ctx, []string{a.ID, b.ID, c.ID})
	if err != nil {
		t.Fatalf("PushTargets: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("targets: got %d, want 2", len(targets))
	}

	n, err := store.ClearPushTokens(ctx, []models.PushTarget{{UserID: a.ID, Token: "tok-a"}, {UserID: b.ID, Token: "stale"}})
	if err != nil {
		t.Fatalf("ClearPushTokens: %v", err)
	}
	if n != 1 {
		t.Errorf("cleared: got %d, want 1", n)
	}
	got, _ := store.Get(ctx, a.ID)
	if got.HasPushToken() {
		t.Error("a's token should be cleared")
	}
	got, _ = store.Get(ctx, b.ID)
	if !got.HasPushToken() {
		t.Error("b's refreshed token must survive")
	}
}

func TestIDByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := testutil.NewFixtures(t, db).CreateUser(ctx, "a@x.com")
	store := userstore.New(db)

	id, err := store.IDByEmail(ctx, " A@X.com ")
	if err != nil || id != u.ID {
		t.Errorf("IDByEmail: got %q, %v", id, err)
	}
	if _, err := store.IDByEmail(ctx, "b@x.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("missing email: got %v", err)
	}
}

func TestParseListFilter(t *testing.T) {
	for _, s := range []string{"", "all", "premium", "banned", "recent"} {
		if _, ok := userstore.ParseListFilter(s); !ok {
			t.Errorf("%q should parse", s)
		}
	}
	if _, ok := userstore.ParseListFilter("deleted"); ok {
		t.Error("unknown filter should not parse")
	}
}
