package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is anything that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MongoPinger pings the primary.
type MongoPinger struct{ Client *mongo.Client }

func (m MongoPinger) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB    Pinger
	Cache Pinger // nil for the in-process cache
	Log   *zap.Logger
}

// NewHandler constructs a health Handler. cache may be nil.
func NewHandler(db, cache Pinger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Cache: cache, Log: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "cache":"memory" }
//
// On DB failure: 503 with status "error". A failing shared cache degrades
// the status but keeps 200, since handlers fall back to the database.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "connected", Cache: "memory"}

	if err := h.DB.Ping(ctx); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Cache = ""
		resp.Message = "Database unavailable"
		apiresp.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if h.Cache != nil {
		resp.Cache = "connected"
		if err := h.Cache.Ping(ctx); err != nil {
			h.Log.Warn("health-check: cache ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Cache = "disconnected"
		}
	}

	apiresp.JSON(w, http.StatusOK, resp)
}
