// internal/app/features/premium/list.go
package premium

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

type premiumRow struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	DisplayName      string     `json:"displayName"`
	PhotoURL         string     `json:"photoURL,omitempty"`
	PremiumType      string     `json:"premiumType"`
	PremiumStartedAt *time.Time `json:"premiumStartedAt"`
	PremiumUntil     *time.Time `json:"premiumUntil"`
	TotalMinutes     int64      `json:"totalMinutes"`
}

func toRow(u models.User) premiumRow {
	row := premiumRow{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		PhotoURL:         u.PhotoURL,
		PremiumType:      u.PremiumType,
		PremiumStartedAt: u.PremiumStartedAt,
		PremiumUntil:     u.PremiumUntil,
		TotalMinutes:     u.TotalMinutes,
	}
	if row.DisplayName == "" {
		row.DisplayName = "Unnamed"
	}
	if row.PremiumType == "" {
		row.PremiumType = models.PlanMonthly
	}
	if row.PremiumStartedAt == nil {
		created := u.CreatedAt
		row.PremiumStartedAt = &created
	}
	return row
}

// Revenue is the subscription revenue estimate.
type Revenue struct {
	TotalMonthlyRevenue  int64 `json:"totalMonthlyRevenue"`
	TotalYearlyRevenue   int64 `json:"totalYearlyRevenue"`
	MonthlySubscribers   int64 `json:"monthlySubscribers"`
	YearlySubscribers    int64 `json:"yearlySubscribers"`
	NewPremiumLast30Days int64 `json:"newPremiumLast30Days"`
}

// Estimate turns subscriber counts into a monthly run rate: monthly plans at
// full price plus yearly plans spread over twelve months.
func (p Pricing) Estimate(monthly, yearly, newLast30 int64) Revenue {
	perMonth := float64(monthly)*p.Monthly + float64(yearly)*p.Yearly/12
	return Revenue{
		TotalMonthlyRevenue:  int64(math.Round(perMonth)),
		TotalYearlyRevenue:   int64(math.Round(perMonth * 12)),
		MonthlySubscribers:   monthly,
		YearlySubscribers:    yearly,
		NewPremiumLast30Days: newLast30,
	}
}

type listResult struct {
	PremiumUsers      []premiumRow `json:"premiumUsers"`
	TotalPremiumUsers int64        `json:"totalPremiumUsers"`
	CurrentPage       int          `json:"currentPage"`
	TotalPages        int          `json:"totalPages"`
	Analytics         Revenue      `json:"analytics"`
}

// List handles GET /api/admin/premium?page=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "premium list")
	defer cancel()

	key := cache.Key("premium", page.Number, page.Limit)
	res, cached, err := cache.Fetch(ctx, h.Cache, key, listTTL, func(ctx context.Context) (listResult, error) {
		var out listResult
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			users, total, err := h.Store.PremiumList(gctx, page)
			if err != nil {
				return err
			}
			out.PremiumUsers = make([]premiumRow, 0, len(users))
			for _, u := range users {
				out.PremiumUsers = append(out.PremiumUsers, toRow(u))
			}
			out.TotalPremiumUsers = total
			return nil
		})
		g.Go(func() error {
			s, err := h.Store.Summary(gctx, h.Now())
			if err != nil {
				return err
			}
			out.Analytics = h.Pricing.Estimate(s.Monthly, s.Yearly, s.NewLast30)
			return nil
		})
		if err := g.Wait(); err != nil {
			return listResult{}, err
		}
		out.CurrentPage = page.Number
		out.TotalPages = paging.TotalPages(out.TotalPremiumUsers, page.Limit)
		return out, nil
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "list premium failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		listResult
		Cached bool `json:"cached"`
	}{res, cached})
}
