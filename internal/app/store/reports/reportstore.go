// Package reportstore persists the three moderation report kinds. One
// generic Store serves each kind; the kind fixes the collection and the
// Go type documents decode into.
package reportstore

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

var (
	// ErrNotFound is returned when the target report does not exist.
	ErrNotFound = errors.New("report not found")
	// ErrTransition is returned when the report's current status does not
	// allow the requested move.
	ErrTransition = errors.New("report status does not allow this transition")
)

// Report constrains the document types a Store can hold.
type Report interface {
	models.UserReport | models.MessageReport | models.RoomUserReport
}

type Store[T Report] struct {
	c *mongo.Collection
}

func NewUserReports(db *mongo.Database) *Store[models.UserReport] {
	return newStore[models.UserReport](db, models.KindUserReport)
}

func NewMessageReports(db *mongo.Database) *Store[models.MessageReport] {
	return newStore[models.MessageReport](db, models.KindMessageReport)
}

func NewRoomUserReports(db *mongo.Database) *Store[models.RoomUserReport] {
	return newStore[models.RoomUserReport](db, models.KindRoomUserReport)
}

func newStore[T Report](db *mongo.Database, kind models.ReportKind) *Store[T] {
	return &Store[T]{c: db.Collection(kind.Collection())}
}

// Query selects reports for a list.
type Query struct {
	Status models.ReportStatus // empty means any
	RoomID string              // message and room-scoped kinds only
}

// StatusFilter matches reports in status st. Reports written without a
// status field count as pending, as they do in Status and Review.
func StatusFilter(st models.ReportStatus) bson.M {
	if st == models.ReportPending {
		return bson.M{"$or": bson.A{
			bson.M{"status": st},
			bson.M{"status": bson.M{"$exists": false}},
		}}
	}
	return bson.M{"status": st}
}

func (q Query) filter() bson.M {
	m := bson.M{}
	if q.Status != "" {
		m = StatusFilter(q.Status)
	}
	if q.RoomID != "" {
		m["room_id"] = q.RoomID
	}
	return m
}

// List returns one page, newest first, with the total match count.
func (s *Store[T]) List(ctx context.Context, q Query, p paging.Page) ([]T, int64, error) {
	f := q.filter()
	var (
		total int64
		out   []T
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.c.CountDocuments(gctx, f)
		total = n
		return err
	})
	g.Go(func() error {
		opts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
			SetSkip(p.Skip()).
			SetLimit(p.Limit64())
		cur, err := s.c.Find(gctx, f, opts)
		if err != nil {
			return err
		}
		return cur.All(gctx, &out)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if out == nil {
		out = []T{}
	}
	return out, total, nil
}

// Recent returns the n newest reports.
func (s *Store[T]) Recent(ctx context.Context, n int64) ([]T, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(n))
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Status returns a report's current status.
func (s *Store[T]) Status(ctx context.Context, id primitive.ObjectID) (models.ReportStatus, error) {
	var row struct {
		Status models.ReportStatus `bson:"status"`
	}
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"status": 1})).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if row.Status == "" {
		row.Status = models.ReportPending
	}
	return row.Status, nil
}

// Review records an admin decision. The update only applies while the
// report is still in a status that may move to next, so two admins racing
// on the same report cannot both win.
func (s *Store[T]) Review(ctx context.Context, id primitive.ObjectID, next models.ReportStatus, by, notes string, now time.Time) error {
	var from []models.ReportStatus
	for _, st := range []models.ReportStatus{models.ReportPending, models.ReportReviewing} {
		if st.CanTransition(next) {
			from = append(from, st)
		}
	}
	if len(from) == 0 {
		return ErrTransition
	}

	set := bson.M{"status": next, "reviewed_at": now, "reviewed_by": by}
	if notes != "" {
		set["admin_notes"] = notes
	}
	// a missing status reads as pending
	filter := bson.M{"_id": id, "$or": bson.A{
		bson.M{"status": bson.M{"$in": from}},
		bson.M{"status": bson.M{"$exists": false}},
	}}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if _, err := s.Status(ctx, id); err != nil {
		return err
	}
	return ErrTransition
}

// Delete removes a report.
func (s *Store[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
