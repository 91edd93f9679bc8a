package userstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/app/system/search"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when the target user does not exist.
var ErrNotFound = errors.New("user not found")

// RecentWindow bounds the "recent" list filter.
const RecentWindow = 7 * 24 * time.Hour

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// ListFilter is the users list selector.
type ListFilter string

const (
	FilterAll     ListFilter = "all"
	FilterPremium ListFilter = "premium"
	FilterBanned  ListFilter = "banned"
	FilterRecent  ListFilter = "recent"
)

// ParseListFilter maps the query value; empty means all.
func ParseListFilter(s string) (ListFilter, bool) {
	switch f := ListFilter(s); f {
	case "":
		return FilterAll, true
	case FilterAll, FilterPremium, FilterBanned, FilterRecent:
		return f, true
	}
	return "", false
}

// Query selects users for the admin list.
type Query struct {
	Filter ListFilter
	Search string // case-insensitive prefix of email or display name
	Now    time.Time
}

func (q Query) filter() bson.M {
	m := bson.M{}
	switch q.Filter {
	case FilterPremium:
		m["is_premium"] = true
	case FilterBanned:
		m["is_banned"] = true
	case FilterRecent:
		m["created_at"] = bson.M{"$gt": q.Now.Add(-RecentWindow)}
	}
	s := strings.TrimSpace(q.Search)
	plan := search.Plan(s)
	if !plan.Any() {
		return m
	}
	prefix := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s), Options: "i"}
	var or bson.A
	if plan.Email {
		or = append(or, bson.M{"email": prefix})
	}
	if plan.Name {
		or = append(or, bson.M{"display_name": prefix})
	}
	m["$or"] = or
	return m
}

// List returns one page of users, newest first, plus the total match count.
// The count and the page read run concurrently.
func (s *Store) List(ctx context.Context, q Query, p paging.Page) ([]models.User, int64, error) {
	f := q.filter()
	return s.page(ctx, f, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}, p)
}

func (s *Store) page(ctx context.Context, f bson.M, sort bson.D, p paging.Page) ([]models.User, int64, error) {
	var (
		total int64
		users []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.c.CountDocuments(gctx, f)
		total = n
		return err
	})
	g.Go(func() error {
		opts := options.Find().SetSort(sort).SetSkip(p.Skip()).SetLimit(p.Limit64())
		cur, err := s.c.Find(gctx, f, opts)
		if err != nil {
			return err
		}
		return cur.All(gctx, &users)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, total, nil
}

// Get loads one user.
func (s *Store) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Recent returns the n newest users.
func (s *Store) Recent(ctx context.Context, n int64) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(n)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetBanned bans or unbans a user.
func (s *Store) SetBanned(ctx context.Context, id string, banned bool, now time.Time) error {
	upd := bson.M{"$set": bson.M{"is_banned": true, "banned_at": now}}
	if !banned {
		upd = bson.M{
			"$set":   bson.M{"is_banned": false, "unbanned_at": now},
			"$unset": bson.M{"banned_at": ""},
		}
	}
	return s.updateOne(ctx, id, upd)
}

// SetPremiumFlag sets the premium flag and window end directly. A nil until
// clears the window.
func (s *Store) SetPremiumFlag(ctx context.Context, id string, isPremium bool, until *time.Time) error {
	set := bson.M{"is_premium": isPremium}
	upd := bson.M{"$set": set}
	if until != nil {
		set["premium_until"] = *until
	} else {
		upd["$unset"] = bson.M{"premium_until": ""}
	}
	return s.updateOne(ctx, id, upd)
}

// Delete removes the user document.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) updateOne(ctx context.Context, id string, upd bson.M) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, upd)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
