// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Admin actions recorded in the trail.
const (
	ActionUserBanned       = "user_banned"
	ActionUserUnbanned     = "user_unbanned"
	ActionUserPremiumSet   = "user_premium_set"
	ActionUserDeleted      = "user_deleted"
	ActionRoomDisabled     = "room_disabled"
	ActionRoomEnabled      = "room_enabled"
	ActionRoomDeleted      = "room_deleted"
	ActionReportReviewed   = "report_reviewed"
	ActionReportDeleted    = "report_deleted"
	ActionPremiumGranted   = "premium_granted"
	ActionPremiumCancelled = "premium_cancelled"
	ActionNotificationSent = "notification_sent"
	ActionSessionStarted   = "admin_session_started"
	ActionSessionEnded     = "admin_session_ended"
)

// QueryFilter narrows an audit query.
type QueryFilter struct {
	ActorUID   string
	TargetType string
	TargetID   string
	Action     string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int64
	Offset     int64
}

func (f QueryFilter) bson() bson.M {
	q := bson.M{}
	if f.ActorUID != "" {
		q["actor_uid"] = f.ActorUID
	}
	if f.TargetType != "" {
		q["target_type"] = f.TargetType
	}
	if f.TargetID != "" {
		q["target_id"] = f.TargetID
	}
	if f.Action != "" {
		q["action"] = f.Action
	}
	if f.StartTime != nil || f.EndTime != nil {
		tq := bson.M{}
		if f.StartTime != nil {
			tq["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			tq["$lte"] = *f.EndTime
		}
		q["timestamp"] = tq
	}
	return q
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// EnsureIndexes creates the indexes used by Query.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "actor_uid", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	return err
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event models.AuditEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query returns events matching the filter, newest first. Limit defaults to 100.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]models.AuditEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, filter.bson(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.AuditEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the number of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.bson())
}

// GetByTarget returns recent events for one target.
func (s *Store) GetByTarget(ctx context.Context, targetType, targetID string, limit int64) ([]models.AuditEvent, error) {
	return s.Query(ctx, QueryFilter{TargetType: targetType, TargetID: targetID, Limit: limit})
}
