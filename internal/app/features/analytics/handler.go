// internal/app/features/analytics/handler.go
package analytics

import (
	"context"
	"time"

	metricsstore "github.com/dalemusser/studyhub/internal/app/store/metrics"
	roomstore "github.com/dalemusser/studyhub/internal/app/store/rooms"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	ttl           = 10 * time.Minute
	topCategories = 5
)

// Metrics supplies the per-day series.
type Metrics interface {
	DailyTotals(ctx context.Context, since time.Time) (map[string]metricsstore.DayTotals, error)
	CountByDay(ctx context.Context, field string, since time.Time) (map[string]int64, error)
	UsersCreatedBefore(ctx context.Context, t time.Time) (int64, error)
}

// Rooms supplies the category breakdown.
type Rooms interface {
	TopCategories(ctx context.Context, n int64, fallback string) ([]roomstore.CategoryCount, error)
}

// Handler serves /api/admin/analytics.
type Handler struct {
	Metrics Metrics
	Rooms   Rooms
	Cache   cache.Store
	Log     *zap.Logger
	Now     func() time.Time
}

func NewHandler(m Metrics, rooms Rooms, c cache.Store, logger *zap.Logger) *Handler {
	return &Handler{Metrics: m, Rooms: rooms, Cache: c, Log: logger, Now: func() time.Time { return time.Now().UTC() }}
}

// MountRoutes mounts the analytics API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Get)
}
