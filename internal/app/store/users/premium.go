package userstore

import (
	"context"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// NewPremiumWindow bounds the "new subscribers" counter.
const NewPremiumWindow = 30 * 24 * time.Hour

// PremiumList returns premium users, most recent subscription first.
func (s *Store) PremiumList(ctx context.Context, p paging.Page) ([]models.User, int64, error) {
	sort := bson.D{{Key: "premium_started_at", Value: -1}, {Key: "_id", Value: 1}}
	return s.page(ctx, bson.M{"is_premium": true}, sort, p)
}

// GrantPremium extends a user's premium window by days, starting from the
// later of now and the current window end. premium_started_at is kept if set.
func (s *Store) GrantPremium(ctx context.Context, id, plan string, days int, now time.Time) (time.Time, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return time.Time{}, err
	}

	base := now
	if u.PremiumUntil != nil && u.PremiumUntil.After(now) {
		base = *u.PremiumUntil
	}
	until := base.Add(time.Duration(days) * 24 * time.Hour)

	set := bson.M{
		"is_premium":    true,
		"premium_type":  plan,
		"premium_until": until,
	}
	if u.PremiumStartedAt == nil {
		set["premium_started_at"] = now
	}
	upd := bson.M{"$set": set, "$unset": bson.M{"premium_cancelled_at": ""}}
	if err := s.updateOne(ctx, id, upd); err != nil {
		return time.Time{}, err
	}
	return until, nil
}

// CancelPremium ends a subscription immediately.
func (s *Store) CancelPremium(ctx context.Context, id string, now time.Time) error {
	return s.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"is_premium": false, "premium_cancelled_at": now},
		"$unset": bson.M{"premium_until": ""},
	})
}

// PremiumSummary is the subscriber breakdown behind the revenue estimate.
type PremiumSummary struct {
	Monthly   int64 `json:"monthlySubscribers"`
	Yearly    int64 `json:"yearlySubscribers"`
	NewLast30 int64 `json:"newPremiumLast30Days"`
}

// Summary counts current subscribers by plan and recent sign-ups.
func (s *Store) Summary(ctx context.Context, now time.Time) (PremiumSummary, error) {
	var out PremiumSummary
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, f bson.M) {
		g.Go(func() error {
			n, err := s.c.CountDocuments(gctx, f)
			*dst = n
			return err
		})
	}
	count(&out.Monthly, bson.M{"is_premium": true, "premium_type": models.PlanMonthly})
	count(&out.Yearly, bson.M{"is_premium": true, "premium_type": models.PlanYearly})
	count(&out.NewLast30, bson.M{"is_premium": true, "premium_started_at": bson.M{"$gte": now.Add(-NewPremiumWindow)}})
	if err := g.Wait(); err != nil {
		return PremiumSummary{}, err
	}
	return out, nil
}

// MonthBucket counts subscriptions started in one calendar month.
type MonthBucket struct {
	Month   string `bson:"_id" json:"month"` // YYYY-MM
	Monthly int64  `bson:"monthly" json:"monthly"`
	Yearly  int64  `bson:"yearly" json:"yearly"`
}

// StartsByMonth groups subscription starts since the given time by month.
func (s *Store) StartsByMonth(ctx context.Context, since time.Time) ([]MonthBucket, error) {
	planCount := func(plan string) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$premium_type", plan}}, 1, 0}}}
	}
	pipeline := bson.A{
		bson.M{"$match": bson.M{"premium_started_at": bson.M{"$gte": since}}},
		bson.M{"$group": bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$premium_started_at"}},
			"monthly": planCount(models.PlanMonthly),
			"yearly":  planCount(models.PlanYearly),
		}},
		bson.M{"$sort": bson.M{"_id": 1}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var out []MonthBucket
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
