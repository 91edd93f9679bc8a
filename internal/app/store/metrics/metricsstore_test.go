package metricsstore_test

import (
	"math"
	"testing"
	"time"

	metricsstore "github.com/dalemusser/studyhub/internal/app/store/metrics"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestExtrapolate(t *testing.T) {
	tests := []struct {
		name          string
		sum, total, n int64
		want          int64
	}{
		{"sample covers everyone", 12345, 800, 800, 12345},
		{"scales linearly", 1000, 5000, 1000, 5000},
		{"floors", 10, 3, 4, 7},
		{"empty sample", 500, 100, 0, 0},
		{"no minutes", 0, 100, 10, 0},
		{"large product does not overflow", math.MaxInt64 / 2, 4, 4, math.MaxInt64 / 2},
		{"saturates", math.MaxInt64, math.MaxInt64, 1, math.MaxInt64},
	}
	for _, tt := range tests {
		if got := metricsstore.Extrapolate(tt.sum, tt.total, tt.n); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0+"},
		{950, "950+"},
		{1000, "1K+"},
		{12_345, "12K+"},
		{999_999, "999K+"},
		{1_000_000, "1M+"},
		{1_234_567, "1.2M+"},
		{25_990_000, "25.9M+"},
	}
	for _, tt := range tests {
		if got := metricsstore.Label(tt.n); got != tt.want {
			t.Errorf("Label(%d): got %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDays(t *testing.T) {
	now := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	got := metricsstore.Days(now, 3)
	want := []string{"2024-02-29", "2024-03-01", "2024-03-02"}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if s := metricsstore.StartOfDay("2024-03-01"); !s.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay: got %v", s)
	}
}

func TestFetchAdminCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts, err := metricsstore.FetchAdminCounts(ctx, db, time.Now(), 0)
	if err != nil {
		t.Fatalf("FetchAdminCounts: %v", err)
	}
	if counts != (metricsstore.AdminCounts{}) {
		t.Errorf("got %+v, want all zero", counts)
	}
}

func TestFetchAdminCounts_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateUser(ctx, "a@x.com", testutil.LastActive(now.Add(-time.Hour)), testutil.Minutes(30))
	fx.CreateUser(ctx, "b@x.com", testutil.LastActive(now.Add(-3*24*time.Hour)), testutil.Minutes(70))
	fx.CreateUser(ctx, "c@x.com", testutil.Premium(models.PlanMonthly, now))
	fx.CreateRoom(ctx, "r1", nil)
	fx.CreateRoom(ctx, "r2", func(r *models.Room) { r.IsActive = false })
	fx.CreateUserReport(ctx, "uid-0001", models.ReportPending)
	fx.CreateUserReport(ctx, "uid-0002", models.ReportResolved)
	if _, err := db.Collection(models.KindUserReport.Collection()).InsertOne(ctx, bson.M{"reported_user_id": "uid-0003", "created_at": now}); err != nil {
		t.Fatalf("insert report without status: %v", err)
	}
	if _, err := db.Collection("messages").InsertOne(ctx, bson.M{"text": "hi"}); err != nil {
		t.Fatalf("insert message: %v", err)
	}

	counts, err := metricsstore.FetchAdminCounts(ctx, db, now, 1000)
	if err != nil {
		t.Fatalf("FetchAdminCounts: %v", err)
	}
	want := metricsstore.AdminCounts{
		TotalUsers:        3,
		ActiveUsers24h:    1,
		ActiveUsers7d:     2,
		TotalPremiumUsers: 1,
		TotalStudyMinutes: 100,
		TotalRooms:        2,
		ActiveRooms:       1,
		TotalMessages:     1,
		PendingReports:    2,
	}
	if counts != want {
		t.Errorf("got %+v, want %+v", counts, want)
	}
}

func TestFetchPublicCounts_SampleExtrapolates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 4; i++ {
		fx.CreateUser(ctx, "u@x.com", testutil.Minutes(10))
	}
	if _, err := db.Collection("study_sessions").InsertOne(ctx, bson.M{"user_id": "uid-0001"}); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	// a sample of 2 users summing 20 minutes out of 4 users extrapolates to 40
	got, err := metricsstore.FetchPublicCounts(ctx, db, 2)
	if err != nil {
		t.Fatalf("FetchPublicCounts: %v", err)
	}
	if got.TotalUsers != 4 || got.CompletedSessions != 1 || got.TotalMinutes != 40 {
		t.Errorf("got %+v", got)
	}
}

func TestCountByDayAndDailyTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	day := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	fx.CreateUser(ctx, "a@x.com", testutil.CreatedAt(day))
	fx.CreateUser(ctx, "b@x.com", testutil.CreatedAt(day.Add(time.Hour)))
	fx.CreateUser(ctx, "c@x.com", testutil.CreatedAt(day.AddDate(0, 0, 1)))

	got, err := metricsstore.CountByDay(ctx, db, "created_at", day.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("CountByDay: %v", err)
	}
	if got["2024-05-10"] != 2 || got["2024-05-11"] != 1 {
		t.Errorf("got %v", got)
	}

	stats := []any{
		models.DailyStat{UserID: "u1", Date: "2024-05-10", Minutes: 30},
		models.DailyStat{UserID: "u2", Date: "2024-05-10", Minutes: 45},
		models.DailyStat{UserID: "u1", Date: "2024-05-01", Minutes: 99},
	}
	if _, err := db.Collection("daily_stats").InsertMany(ctx, stats); err != nil {
		t.Fatalf("insert stats: %v", err)
	}
	totals, err := metricsstore.DailyTotals(ctx, db, day.AddDate(0, 0, -2))
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}
	if len(totals) != 1 || totals["2024-05-10"].ActiveUsers != 2 || totals["2024-05-10"].Minutes != 75 {
		t.Errorf("got %+v", totals)
	}
}
