// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"time"

	notificationstore "github.com/dalemusser/studyhub/internal/app/store/notifications"
	"github.com/dalemusser/studyhub/internal/app/system/auditlog"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/fanout"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const listTTL = time.Minute

// Records lists past notifications.
type Records interface {
	List(ctx context.Context, limit int64) ([]models.Notification, error)
}

// Sender runs one send action end to end.
type Sender interface {
	Send(ctx context.Context, req fanout.Request) (fanout.Outcome, error)
}

// Handler serves /api/admin/notifications.
type Handler struct {
	Records Records
	Sender  Sender
	Cache   cache.Store
	Audit   *auditlog.Logger
	Log     *zap.Logger
	Now     func() time.Time
}

func NewHandler(db *mongo.Database, sender Sender, c cache.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Records: notificationstore.New(db),
		Sender:  sender,
		Cache:   c,
		Audit:   audit,
		Log:     logger,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}
