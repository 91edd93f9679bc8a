// Package notificationstore persists admin notifications and the per-user
// inbox copies written during fan-out.
package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the notification does not exist.
var ErrNotFound = errors.New("notification not found")

// DefaultListLimit is how many notifications the admin list shows.
const DefaultListLimit = 50

type Store struct {
	c     *mongo.Collection
	inbox *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("notifications"),
		inbox: db.Collection("user_notifications"),
	}
}

// Create inserts n and fills its ID and CreatedAt when unset.
func (s *Store) Create(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, n)
	return err
}

// List returns the newest notifications.
func (s *Store) List(ctx context.Context, limit int64) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one notification.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var n models.Notification
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Delivery is the final outcome written back after a fan-out run.
type Delivery struct {
	Status         string
	RecipientCount int
	TokensFound    int
	SuccessCount   int
	FailureCount   int
	DispatchID     string
	SentAt         time.Time
}

// UpdateDelivery records the delivery counters on a notification.
func (s *Store) UpdateDelivery(ctx context.Context, id primitive.ObjectID, d Delivery) error {
	set := bson.M{
		"recipient_count":    d.RecipientCount,
		"tokens_found":       d.TokensFound,
		"push_success_count": d.SuccessCount,
		"push_failure_count": d.FailureCount,
		"dispatch_id":        d.DispatchID,
		"sent_at":            d.SentAt,
	}
	if d.Status != "" {
		set["status"] = d.Status
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimDue atomically moves the oldest scheduled notification whose time has
// come to "sending" and returns it. ok is false when nothing is due.
func (s *Store) ClaimDue(ctx context.Context, now time.Time) (n models.Notification, ok bool, err error) {
	filter := bson.M{
		"status":        models.NotificationScheduled,
		"scheduled_for": bson.M{"$lte": now},
	}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "scheduled_for", Value: 1}}).
		SetReturnDocument(options.After)
	err = s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"status": models.NotificationSending}}, opts).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Notification{}, false, nil
	}
	if err != nil {
		return models.Notification{}, false, err
	}
	return n, true, nil
}

// InsertInbox writes one batch of inbox copies.
func (s *Store) InsertInbox(ctx context.Context, items []models.InboxItem) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]any, len(items))
	for i := range items {
		if items[i].ID.IsZero() {
			items[i].ID = primitive.NewObjectID()
		}
		docs[i] = items[i]
	}
	_, err := s.inbox.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// CountInbox returns how many inbox copies exist for a notification.
func (s *Store) CountInbox(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return s.inbox.CountDocuments(ctx, bson.M{"notification_id": id})
}

// EnsureIndexes creates the indexes used by the list, the scheduler and
// the mobile inbox.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduled_for", Value: 1}}},
	}); err != nil {
		return err
	}
	_, err := s.inbox.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "notification_id", Value: 1}}},
	})
	return err
}
