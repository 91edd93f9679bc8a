// Package publicstats serves the unauthenticated landing-page counters.
package publicstats

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

const ttl = 10 * time.Minute

// activeShare is the fraction of all users shown as active on the landing page.
const activeShare = 0.15

// Source computes the raw public counts.
type Source interface {
	PublicCounts(ctx context.Context) (metricsstore.PublicCounts, error)
}

type Handler struct {
	Source Source
	Cache  cache.Store
	Log    *zap.Logger
}

func NewHandler(src Source, c cache.Store, logger *zap.Logger) *Handler {
	return &Handler{Source: src, Cache: c, Log: logger}
}

// Routes returns the subrouter mounted at /api/public/stats.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	return r
}

// Labels are the rounded display strings.
type Labels struct {
	Users    string `json:"users"`
	Sessions string `json:"sessions"`
	Minutes  string `json:"minutes"`
	Rooms    string `json:"rooms"`
}

// Fallback is shown when the counts cannot be computed.
var Fallback = Labels{Users: "10K+", Sessions: "500K+", Minutes: "1M+", Rooms: "50K+"}

// Stats is the success payload.
type Stats struct {
	TotalUsers        int64  `json:"totalUsers"`
	ActiveUsers       int64  `json:"activeUsers"`
	CompletedSessions int64  `json:"completedSessions"`
	TotalMinutes      int64  `json:"totalMinutes"`
	TotalHours        int64  `json:"totalHours"`
	TotalRooms        int64  `json:"totalRooms"`
	Stats             Labels `json:"stats"`
}

// FromCounts derives the public payload from raw counts.
func FromCounts(c metricsstore.PublicCounts) Stats {
	return Stats{
		TotalUsers:        c.TotalUsers,
		ActiveUsers:       int64(float64(c.TotalUsers) * activeShare),
		CompletedSessions: c.CompletedSessions,
		TotalMinutes:      c.TotalMinutes,
		TotalHours:        c.TotalMinutes / 60,
		TotalRooms:        c.TotalRooms,
		Stats: Labels{
			Users:    metricsstore.Label(c.TotalUsers),
			Sessions: metricsstore.Label(c.CompletedSessions),
			Minutes:  metricsstore.Label(c.TotalMinutes),
			Rooms:    metricsstore.Label(c.TotalRooms),
		},
	}
}

// Get handles GET /api/public/stats. Backend failures never surface as
// errors: the page gets the fallback labels with status 200.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "public stats")
	defer cancel()

	st, cached, err := cache.Fetch(ctx, h.Cache, "public_stats", ttl, func(ctx context.Context) (Stats, error) {
		c, err := h.Source.PublicCounts(ctx)
		if err != nil {
			return Stats{}, err
		}
		return FromCounts(c), nil
	})
	if err != nil {
		h.Log.Warn("public stats unavailable; serving fallback", zap.Error(err))
		apiresp.JSON(w, http.StatusOK, struct {
			Success  bool `json:"success"`
			Fallback bool `json:"fallback"`
			Data     struct {
				Stats Labels `json:"stats"`
			} `json:"data"`
		}{Success: false, Fallback: true, Data: struct {
			Stats Labels `json:"stats"`
		}{Fallback}})
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=600")
	apiresp.JSON(w, http.StatusOK, struct {
		Success bool  `json:"success"`
		Data    Stats `json:"data"`
		Cached  bool  `json:"cached"`
	}{true, st, cached})
}
