// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	activityTTL  = 5 * time.Minute
	recentTTL    = 2 * time.Minute
	activityDays = 7
	recentCount  = 5
)

// Activity groups users by calendar day of a timestamp field.
type Activity interface {
	CountByDay(ctx context.Context, field string, since time.Time) (map[string]int64, error)
}

// Users lists the newest sign-ups.
type Users interface {
	Recent(ctx context.Context, n int64) ([]models.User, error)
}

// Reports lists the newest user reports.
type Reports interface {
	Recent(ctx context.Context, n int64) ([]models.UserReport, error)
}

// Handler serves the dashboard widgets under /api/admin/dashboard.
type Handler struct {
	Activity Activity
	Users    Users
	Reports  Reports
	Cache    cache.Store
	Log      *zap.Logger
	Now      func() time.Time
}

func NewHandler(activity Activity, users Users, reports Reports, c cache.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Activity: activity,
		Users:    users,
		Reports:  reports,
		Cache:    c,
		Log:      logger,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// MountRoutes mounts the dashboard API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/activity", h.ActivityChart)
	r.Get("/recent-users", h.RecentUsers)
	r.Get("/recent-reports", h.RecentReports)
}
