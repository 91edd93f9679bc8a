// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	"github.com/dalemusser/studyhub/internal/app/system/adminauth"
	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.uber.org/zap"
)

// Destinations for audit events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Mode is one of "all", "db", "log" or "off".
	Mode string
}

// Recorder is the subset of audit.Store the logger writes to.
type Recorder interface {
	Log(ctx context.Context, event models.AuditEvent) error
}

// Logger records admin actions to the audit store and the structured log.
type Logger struct {
	store  Recorder
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when Mode is "log" or "off".
func New(store Recorder, zapLog *zap.Logger, config Config) *Logger {
	if config.Mode == "" {
		config.Mode = ModeAll
	}
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// NewStore adapts an audit.Store; kept separate so callers don't pass a
// typed nil through the interface.
func NewStore(s *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if s == nil {
		return New(nil, zapLog, config)
	}
	return New(s, zapLog, config)
}

func (l *Logger) logToZap(event models.AuditEvent) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("action", event.Action),
		zap.String("actor_uid", event.ActorUID),
		zap.String("actor_email", event.ActorEmail),
		zap.String("target_type", event.TargetType),
		zap.String("target_id", event.TargetID),
		zap.String("ip", event.IP),
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	l.zapLog.Info("audit event", fields...)
}

// Log records an event. A nil Logger is a no-op so handlers under test can
// run without one.
func (l *Logger) Log(ctx context.Context, event models.AuditEvent) {
	if l == nil || l.config.Mode == ModeOff {
		return
	}
	if l.config.Mode == ModeAll || l.config.Mode == ModeLog {
		l.logToZap(event)
	}
	if (l.config.Mode == ModeAll || l.config.Mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("action", event.Action),
			)
		}
	}
}

// Admin records an action taken by the admin carried in r's context.
func (l *Logger) Admin(r *http.Request, action, targetType, targetID string, details map[string]string) {
	if l == nil {
		return
	}
	ev := models.AuditEvent{
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		IP:         ratelimit.ClientIP(r),
		Details:    details,
	}
	if u, ok := adminauth.FromContext(r.Context()); ok {
		ev.ActorUID = u.UID
		ev.ActorEmail = u.Email
	}
	l.Log(r.Context(), ev)
}
