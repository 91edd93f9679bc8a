package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// pushTokenChunk bounds the $in list per PushTargets query.
const pushTokenChunk = 1000

// clearBatch is the BulkWrite size for token cleanup.
const clearBatch = 500

// AudienceFilter maps a membership audience to its user filter. The
// specific audience has no filter; it is resolved per email.
func AudienceFilter(a models.Audience, now time.Time) (bson.M, error) {
	switch a {
	case models.AudienceAll:
		return bson.M{}, nil
	case models.AudiencePremium:
		return bson.M{"is_premium": true}, nil
	case models.AudienceFree:
		return bson.M{"is_premium": bson.M{"$ne": true}}, nil
	case models.AudienceActive:
		return bson.M{"last_active_at": bson.M{"$gte": now.Add(-models.ActiveWindow)}}, nil
	case models.AudienceInactive:
		return bson.M{"last_active_at": bson.M{"$lt": now.Add(-models.InactiveWindow)}}, nil
	}
	return nil, fmt.Errorf("userstore: no filter for audience %q", a)
}

// AudienceIDs returns the ids of every user in a, ordered by id.
func (s *Store) AudienceIDs(ctx context.Context, a models.Audience, now time.Time) ([]string, error) {
	f, err := AudienceFilter(a, now)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// IDByEmail resolves one email to a user id.
func (s *Store) IDByEmail(ctx context.Context, email string) (string, error) {
	var row struct {
		ID string `bson:"_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := s.c.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}, opts).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

// PushTargets returns the users among ids that carry a push token.
func (s *Store) PushTargets(ctx context.Context, ids []string) ([]models.PushTarget, error) {
	var out []models.PushTarget
	for start := 0; start < len(ids); start += pushTokenChunk {
		end := min(start+pushTokenChunk, len(ids))
		f := bson.M{
			"_id":        bson.M{"$in": ids[start:end]},
			"push_token": bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
		}
		opts := options.Find().
			SetProjection(bson.M{"_id": 1, "push_token": 1}).
			SetSort(bson.D{{Key: "_id", Value: 1}})
		cur, err := s.c.Find(ctx, f, opts)
		if err != nil {
			return nil, err
		}
		var chunk []models.PushTarget
		if err := cur.All(ctx, &chunk); err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// ClearPushTokens unsets the given stale tokens. A user whose token changed
// since the send keeps the new one. Writes go out in batches of 500.
func (s *Store) ClearPushTokens(ctx context.Context, targets []models.PushTarget) (int64, error) {
	var cleared int64
	for start := 0; start < len(targets); start += clearBatch {
		end := min(start+clearBatch, len(targets))
		writes := make([]mongo.WriteModel, 0, end-start)
		for _, t := range targets[start:end] {
			writes = append(writes, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": t.UserID, "push_token": t.Token}).
				SetUpdate(bson.M{"$unset": bson.M{"push_token": ""}}))
		}
		res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		if res != nil {
			cleared += res.ModifiedCount
		}
		if err != nil {
			return cleared, err
		}
	}
	return cleared, nil
}
