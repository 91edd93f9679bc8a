// internal/app/features/rooms/handler.go
package rooms

import (
	"context"
	"time"

	roomstore "github.com/dalemusser/studyhub/internal/app/store/rooms"
	"github.com/dalemusser/studyhub/internal/app/system/auditlog"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const listTTL = 3 * time.Minute

// Store is the room persistence the handlers need.
type Store interface {
	List(ctx context.Context, f roomstore.ListFilter, now time.Time, p paging.Page) ([]models.Room, int64, error)
	SetDisabled(ctx context.Context, id primitive.ObjectID, disabled bool, now time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handler serves /api/admin/rooms.
type Handler struct {
	Store Store
	Cache cache.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
	Now   func() time.Time
}

func NewHandler(db *mongo.Database, c cache.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store: roomstore.New(db),
		Cache: c,
		Audit: audit,
		Log:   logger,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}
