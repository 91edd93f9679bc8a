package roomstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when the target room does not exist.
var ErrNotFound = errors.New("room not found")

// ActiveWindow is how recent the last activity must be for "active".
const ActiveWindow = 24 * time.Hour

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("rooms")}
}

// ListFilter is the rooms list selector.
type ListFilter string

const (
	FilterAll      ListFilter = "all"
	FilterActive   ListFilter = "active"
	FilterPrivate  ListFilter = "private"
	FilterReported ListFilter = "reported"
)

// ParseListFilter maps the query value; empty means all.
func ParseListFilter(s string) (ListFilter, bool) {
	switch f := ListFilter(s); f {
	case "":
		return FilterAll, true
	case FilterAll, FilterActive, FilterPrivate, FilterReported:
		return f, true
	}
	return "", false
}

func listFilter(f ListFilter, now time.Time) bson.M {
	switch f {
	case FilterActive:
		return bson.M{"last_activity_at": bson.M{"$gt": now.Add(-ActiveWindow)}}
	case FilterPrivate:
		return bson.M{"is_private": true}
	case FilterReported:
		return bson.M{"has_reports": true}
	}
	return bson.M{}
}

// List returns one page of rooms, newest first, with the total count.
func (s *Store) List(ctx context.Context, f ListFilter, now time.Time, p paging.Page) ([]models.Room, int64, error) {
	filter := listFilter(f, now)

	var (
		total int64
		rooms []models.Room
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.c.CountDocuments(gctx, filter)
		total = n
		return err
	})
	g.Go(func() error {
		opts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
			SetSkip(p.Skip()).
			SetLimit(p.Limit64())
		cur, err := s.c.Find(gctx, filter, opts)
		if err != nil {
			return err
		}
		return cur.All(gctx, &rooms)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, total, nil
}

// SetDisabled disables or re-enables a room.
func (s *Store) SetDisabled(ctx context.Context, id primitive.ObjectID, disabled bool, now time.Time) error {
	upd := bson.M{"$set": bson.M{"is_disabled": true, "disabled_at": now}}
	if !disabled {
		upd = bson.M{"$set": bson.M{"is_disabled": false}, "$unset": bson.M{"disabled_at": ""}}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, upd)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a room.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryCount is one row of the top-categories chart.
type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// TopCategories returns the n most common room categories. Rooms without a
// category are grouped under fallback.
func (s *Store) TopCategories(ctx context.Context, n int64, fallback string) ([]CategoryCount, error) {
	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":   bson.M{"$ifNull": bson.A{"$category", fallback}},
			"count": bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
		bson.M{"$limit": n},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []CategoryCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
