// internal/app/features/stats/handler.go
package stats

import (
	"context"
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/studyhub/internal/app/store/metrics"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const ttl = 5 * time.Minute

// Source computes the headline counters.
type Source interface {
	AdminCounts(ctx context.Context, now time.Time) (metricsstore.AdminCounts, error)
}

// Handler serves /api/admin/stats.
type Handler struct {
	Source Source
	Cache  cache.Store
	Log    *zap.Logger
	Now    func() time.Time
}

func NewHandler(src Source, c cache.Store, logger *zap.Logger) *Handler {
	return &Handler{Source: src, Cache: c, Log: logger, Now: func() time.Time { return time.Now().UTC() }}
}

// MountRoutes mounts the stats API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

// Get returns the dashboard counters, cached for five minutes.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin stats")
	defer cancel()

	counts, cached, err := cache.Fetch(ctx, h.Cache, "admin_stats", ttl, func(ctx context.Context) (metricsstore.AdminCounts, error) {
		return h.Source.AdminCounts(ctx, h.Now())
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "admin stats failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		metricsstore.AdminCounts
		Cached bool `json:"cached"`
	}{counts, cached})
}
