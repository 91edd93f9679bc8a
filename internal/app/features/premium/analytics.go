// internal/app/features/premium/analytics.go
package premium

import (
	"context"
	"net/http"
	"strconv"
	"time"

	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

const (
	defaultMonths = 6
	maxMonths     = 24
)

// MonthPoint is one bar of the subscription chart.
type MonthPoint struct {
	Key           string  `json:"key"`   // YYYY-MM
	Month         string  `json:"month"` // short label, e.g. "Mar"
	Revenue       float64 `json:"revenue"`
	Subscriptions int64   `json:"subscriptions"`
	Monthly       int64   `json:"monthly"`
	Yearly        int64   `json:"yearly"`
}

type chartTotals struct {
	Revenue       float64 `json:"revenue"`
	Subscriptions int64   `json:"subscriptions"`
}

type analyticsResult struct {
	ChartData []MonthPoint `json:"chartData"`
	Totals    chartTotals  `json:"totals"`
}

// Chart lays bucket counts over the last n calendar months ending with the
// month containing now. Months without starts are zero.
func (p Pricing) Chart(buckets []userstore.MonthBucket, now time.Time, n int) []MonthPoint {
	byKey := make(map[string]userstore.MonthBucket, len(buckets))
	for _, b := range buckets {
		byKey[b.Month] = b
	}
	first := monthStart(now).AddDate(0, -(n - 1), 0)
	out := make([]MonthPoint, 0, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i, 0)
		key := m.Format("2006-01")
		b := byKey[key]
		out = append(out, MonthPoint{
			Key:           key,
			Month:         m.Month().String()[:3],
			Revenue:       float64(b.Monthly)*p.Monthly + float64(b.Yearly)*p.Yearly,
			Subscriptions: b.Monthly + b.Yearly,
			Monthly:       b.Monthly,
			Yearly:        b.Yearly,
		})
	}
	return out
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Analytics handles GET /api/admin/premium/analytics?months=.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	months := defaultMonths
	if raw := query.Get(r, "months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxMonths {
			apiresp.Error(w, http.StatusBadRequest, "months must be between 1 and 24")
			return
		}
		months = n
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "premium analytics")
	defer cancel()

	key := cache.Key("premium_analytics", months)
	res, cached, err := cache.Fetch(ctx, h.Cache, key, analyticsTTL, func(ctx context.Context) (analyticsResult, error) {
		now := h.Now()
		since := monthStart(now).AddDate(0, -(months - 1), 0)
		buckets, err := h.Store.StartsByMonth(ctx, since)
		if err != nil {
			return analyticsResult{}, err
		}
		out := analyticsResult{ChartData: h.Pricing.Chart(buckets, now, months)}
		for _, p := range out.ChartData {
			out.Totals.Revenue += p.Revenue
			out.Totals.Subscriptions += p.Subscriptions
		}
		return out, nil
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "premium analytics failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		analyticsResult
		Cached bool `json:"cached"`
	}{res, cached})
}
