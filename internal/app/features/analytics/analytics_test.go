package analytics_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/app/features/analytics"
	metricsstore "github.com/dalemusser/studyhub/internal/app/store/metrics"
	roomstore "github.com/dalemusser/studyhub/internal/app/store/rooms"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.uber.org/zap"
)

var now = time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC)

type fakeMetrics struct{ since time.Time }

func (f *fakeMetrics) DailyTotals(_ context.Context, since time.Time) (map[string]metricsstore.DayTotals, error) {
	f.since = since
	return map[string]metricsstore.DayTotals{
		"2026-06-09": {ActiveUsers: 4, Minutes: 150},
		"2026-06-10": {ActiveUsers: 2, Minutes: 59},
	}, nil
}

func (f *fakeMetrics) CountByDay(_ context.Context, field string, _ time.Time) (map[string]int64, error) {
	if field != "created_at" {
		return nil, nil
	}
	return map[string]int64{"2026-06-05": 3, "2026-06-10": 1}, nil
}

func (f *fakeMetrics) UsersCreatedBefore(context.Context, time.Time) (int64, error) { return 100, nil }

type fakeRooms struct{}

func (fakeRooms) TopCategories(_ context.Context, n int64, fallback string) ([]roomstore.CategoryCount, error) {
	return []roomstore.CategoryCount{{Category: "Math", Count: 3}, {Category: fallback, Count: 1}}, nil
}

func newHandler() (*analytics.Handler, *fakeMetrics) {
	m := &fakeMetrics{}
	h := analytics.NewHandler(m, fakeRooms{}, cache.NewMemory(cache.SystemClock{}), zap.NewNop())
	h.Now = func() time.Time { return now }
	return h, m
}

func TestGet_SevenDaySeries(t *testing.T) {
	h, m := newHandler()

	rec := httptest.NewRecorder()
	h.Get(rec, testutil.NewAdminRequest(http.MethodGet, "/api/admin/analytics?range=7d", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body struct {
		UserGrowth []struct {
			Date  string `json:"date"`
			Count int64  `json:"count"`
		} `json:"userGrowth"`
		StudyTime []struct {
			Date  string `json:"date"`
			Hours int64  `json:"hours"`
		} `json:"studyTime"`
		ActiveUsers []struct {
			Count int64 `json:"count"`
		} `json:"activeUsers"`
		TopCategories []struct {
			Category string `json:"category"`
			Count    int64  `json:"count"`
		} `json:"topCategories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.UserGrowth) != 7 || len(body.StudyTime) != 7 || len(body.ActiveUsers) != 7 {
		t.Fatalf("series lengths: %d %d %d", len(body.UserGrowth), len(body.StudyTime), len(body.ActiveUsers))
	}
	if want := time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC); !m.since.Equal(want) {
		t.Errorf("since: got %v", m.since)
	}
	if body.UserGrowth[0].Date != "2026-06-04" || body.UserGrowth[0].Count != 100 {
		t.Errorf("first growth point: %+v", body.UserGrowth[0])
	}
	if body.UserGrowth[1].Count != 103 || body.UserGrowth[6].Count != 104 {
		t.Errorf("cumulative growth: %+v", body.UserGrowth)
	}
	if body.StudyTime[5].Hours != 2 || body.StudyTime[6].Hours != 0 {
		t.Errorf("hours floor: %+v", body.StudyTime)
	}
	if body.ActiveUsers[5].Count != 4 {
		t.Errorf("active: %+v", body.ActiveUsers)
	}
	if len(body.TopCategories) != 2 || body.TopCategories[1].Category != "Other" {
		t.Errorf("categories: %+v", body.TopCategories)
	}
}

func TestGet_BadRange(t *testing.T) {
	h, _ := newHandler()
	rec := httptest.NewRecorder()
	h.Get(rec, testutil.NewAdminRequest(http.MethodGet, "/api/admin/analytics?range=1y", ""))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
}
