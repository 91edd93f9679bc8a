// internal/app/features/reports/handler.go
package reports

import (
	"time"

	reportstore "github.com/dalemusser/studyhub/internal/app/store/reports"
	"github.com/dalemusser/studyhub/internal/app/system/auditlog"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	userReportTTL   = 2 * time.Minute
	scopedReportTTL = time.Minute
)

// Handler serves the three moderation queues.
type Handler struct {
	Cache cache.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
	Now   func() time.Time

	users    *board[models.UserReport, userReportRow]
	messages *board[models.MessageReport, messageReportRow]
	roomUser *board[models.RoomUserReport, roomUserReportRow]
}

// Stores bundles the per-kind stores.
type Stores struct {
	Users    Store[models.UserReport]
	Messages Store[models.MessageReport]
	RoomUser Store[models.RoomUserReport]
}

// New wires a Handler over explicit stores.
func New(s Stores, c cache.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	h := &Handler{
		Cache: c,
		Audit: audit,
		Log:   logger,
		Now:   func() time.Time { return time.Now().UTC() },
	}
	h.users = &board[models.UserReport, userReportRow]{
		h: h, store: s.Users, kind: models.KindUserReport,
		prefix: "reports", ttl: userReportTTL, toRow: toUserReportRow,
	}
	h.messages = &board[models.MessageReport, messageReportRow]{
		h: h, store: s.Messages, kind: models.KindMessageReport,
		prefix: "message_reports", ttl: scopedReportTTL, roomScope: true, toRow: toMessageReportRow,
	}
	h.roomUser = &board[models.RoomUserReport, roomUserReportRow]{
		h: h, store: s.RoomUser, kind: models.KindRoomUserReport,
		prefix: "user_reports", ttl: scopedReportTTL, roomScope: true, toRow: toRoomUserReportRow,
	}
	return h
}

func NewHandler(db *mongo.Database, c cache.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return New(Stores{
		Users:    reportstore.NewUserReports(db),
		Messages: reportstore.NewMessageReports(db),
		RoomUser: reportstore.NewRoomUserReports(db),
	}, c, audit, logger)
}
