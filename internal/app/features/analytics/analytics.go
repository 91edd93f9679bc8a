// internal/app/features/analytics/analytics.go
package analytics

import (
	"context"
	"net/http"

	metricsstore "github.com/dalemusser/studyhub/internal/app/store/metrics"
	roomstore "github.com/dalemusser/studyhub/internal/app/store/rooms"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"golang.org/x/sync/errgroup"
)

// rangeDays maps the accepted range values to a day count.
var rangeDays = map[string]int{"7d": 7, "30d": 30, "90d": 90}

type countPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type hoursPoint struct {
	Date  string `json:"date"`
	Hours int64  `json:"hours"`
}

type result struct {
	Range         string                    `json:"range"`
	UserGrowth    []countPoint              `json:"userGrowth"`
	StudyTime     []hoursPoint              `json:"studyTime"`
	ActiveUsers   []countPoint              `json:"activeUsers"`
	TopCategories []roomstore.CategoryCount `json:"topCategories"`
}

// Get handles GET /api/admin/analytics?range=7d|30d|90d (default 30d).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rng := query.Get(r, "range")
	if rng == "" {
		rng = "30d"
	}
	days, ok := rangeDays[rng]
	if !ok {
		apiresp.Error(w, http.StatusBadRequest, "range must be one of [7d 30d 90d]")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "analytics")
	defer cancel()

	res, cached, err := cache.Fetch(ctx, h.Cache, cache.Key("analytics", rng), ttl, func(ctx context.Context) (result, error) {
		return h.build(ctx, rng, days)
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "analytics failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		result
		Cached bool `json:"cached"`
	}{res, cached})
}

func (h *Handler) build(ctx context.Context, rng string, days int) (result, error) {
	keys := metricsstore.Days(h.Now(), days)
	start := metricsstore.StartOfDay(keys[0])

	var (
		daily   map[string]metricsstore.DayTotals
		created map[string]int64
		base    int64
		cats    []roomstore.CategoryCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		daily, err = h.Metrics.DailyTotals(gctx, start)
		return err
	})
	g.Go(func() (err error) {
		created, err = h.Metrics.CountByDay(gctx, "created_at", start)
		return err
	})
	g.Go(func() (err error) {
		base, err = h.Metrics.UsersCreatedBefore(gctx, start)
		return err
	})
	g.Go(func() (err error) {
		cats, err = h.Rooms.TopCategories(gctx, topCategories, models.DefaultCategory)
		return err
	})
	if err := g.Wait(); err != nil {
		return result{}, err
	}

	out := result{
		Range:         rng,
		UserGrowth:    make([]countPoint, 0, days),
		StudyTime:     make([]hoursPoint, 0, days),
		ActiveUsers:   make([]countPoint, 0, days),
		TopCategories: cats,
	}
	if out.TopCategories == nil {
		out.TopCategories = []roomstore.CategoryCount{}
	}
	total := base
	for _, day := range keys {
		total += created[day]
		d := daily[day]
		out.UserGrowth = append(out.UserGrowth, countPoint{Date: day, Count: total})
		out.StudyTime = append(out.StudyTime, hoursPoint{Date: day, Hours: d.Minutes / 60})
		out.ActiveUsers = append(out.ActiveUsers, countPoint{Date: day, Count: d.ActiveUsers})
	}
	return out, nil
}
