// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Events reads the admin audit trail.
type Events interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]models.AuditEvent, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// Handler serves /api/admin/audit. The trail is always read live; it is
// never cached.
type Handler struct {
	Events Events
	Log    *zap.Logger
}

// NewHandler constructs an audit trail Handler bound to the given database.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Events: audit.New(db), Log: logger}
}

// MountRoutes mounts GET /api/admin/audit.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}
