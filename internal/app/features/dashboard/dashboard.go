// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/studyhub/internal/app/store/metrics"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

type dayActivity struct {
	Date        string `json:"date"`
	ActiveUsers int64  `json:"activeUsers"`
	NewUsers    int64  `json:"newUsers"`
}

// ActivityChart handles GET /activity: active and new users for each of the
// last seven days.
func (h *Handler) ActivityChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard activity")
	defer cancel()

	data, cached, err := cache.Fetch(ctx, h.Cache, "dashboard_activity", activityTTL, func(ctx context.Context) ([]dayActivity, error) {
		days := metricsstore.Days(h.Now(), activityDays)
		since := metricsstore.StartOfDay(days[0])

		var active, created map[string]int64
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			active, err = h.Activity.CountByDay(gctx, "last_active_at", since)
			return err
		})
		g.Go(func() (err error) {
			created, err = h.Activity.CountByDay(gctx, "created_at", since)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		out := make([]dayActivity, 0, len(days))
		for _, d := range days {
			out = append(out, dayActivity{Date: d, ActiveUsers: active[d], NewUsers: created[d]})
		}
		return out, nil
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "dashboard activity failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		Data   []dayActivity `json:"data"`
		Cached bool          `json:"cached"`
	}{data, cached})
}

type recentUser struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	IsPremium   bool      `json:"isPremium"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecentUsers handles GET /recent-users.
func (h *Handler) RecentUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "dashboard recent users")
	defer cancel()

	rows, cached, err := cache.Fetch(ctx, h.Cache, "dashboard_recent_users", recentTTL, func(ctx context.Context) ([]recentUser, error) {
		users, err := h.Users.Recent(ctx, recentCount)
		if err != nil {
			return nil, err
		}
		out := make([]recentUser, 0, len(users))
		for _, u := range users {
			name := u.DisplayName
			if name == "" {
				name = "Unnamed"
			}
			out = append(out, recentUser{ID: u.ID, DisplayName: name, Email: u.Email, PhotoURL: u.PhotoURL, IsPremium: u.IsPremium, CreatedAt: u.CreatedAt})
		}
		return out, nil
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "dashboard recent users failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		RecentUsers []recentUser `json:"recentUsers"`
		Cached      bool         `json:"cached"`
	}{rows, cached})
}

type recentReport struct {
	ID               string              `json:"id"`
	ReporterName     string              `json:"reporterName"`
	ReportedUserName string              `json:"reportedUserName"`
	Reason           string              `json:"reason"`
	Status           models.ReportStatus `json:"status"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// RecentReports handles GET /recent-reports.
func (h *Handler) RecentReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "dashboard recent reports")
	defer cancel()

	rows, cached, err := cache.Fetch(ctx, h.Cache, "dashboard_recent_reports", recentTTL, func(ctx context.Context) ([]recentReport, error) {
		reports, err := h.Reports.Recent(ctx, recentCount)
		if err != nil {
			return nil, err
		}
		out := make([]recentReport, 0, len(reports))
		for _, rp := range reports {
			row := recentReport{
				ID:               rp.ID.Hex(),
				ReporterName:     rp.ReporterName,
				ReportedUserName: rp.ReportedUserName,
				Reason:           rp.Reason,
				Status:           rp.Status,
				CreatedAt:        rp.CreatedAt,
			}
			if row.ReporterName == "" {
				row.ReporterName = "Anonymous"
			}
			if row.ReportedUserName == "" {
				row.ReportedUserName = "Unknown"
			}
			if row.Status == "" {
				row.Status = models.ReportPending
			}
			out = append(out, row)
		}
		return out, nil
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "dashboard recent reports failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		RecentReports []recentReport `json:"recentReports"`
		Cached        bool           `json:"cached"`
	}{rows, cached})
}
