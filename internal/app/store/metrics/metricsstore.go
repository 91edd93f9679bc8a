// Package metricsstore computes the aggregate counts behind the admin stats,
// analytics and dashboard views and the public landing-page stats.
package metricsstore

import (
	"context"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
	"time"

	reportstore "github.com/dalemusser/studyhub/internal/app/store/reports"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// DefaultSampleSize bounds how many users are read to estimate total minutes.
const DefaultSampleSize = 1000

// DayFormat is the calendar-day key used by daily_stats and every series.
const DayFormat = "2006-01-02"

// AdminCounts is the payload of the admin stats endpoint.
type AdminCounts struct {
	TotalUsers        int64 `json:"totalUsers"`
	ActiveUsers24h    int64 `json:"activeUsers24h"`
	ActiveUsers7d     int64 `json:"activeUsers7d"`
	TotalPremiumUsers int64 `json:"totalPremiumUsers"`
	TotalStudyMinutes int64 `json:"totalStudyMinutes"`
	TotalRooms        int64 `json:"totalRooms"`
	ActiveRooms       int64 `json:"activeRooms"`
	TotalMessages     int64 `json:"totalMessages"`
	PendingReports    int64 `json:"pendingReports"`
}

// PublicCounts is the raw material of the public stats endpoint.
type PublicCounts struct {
	TotalUsers        int64
	TotalRooms        int64
	CompletedSessions int64
	TotalMinutes      int64
}

type counter struct {
	coll   string
	filter bson.M
	dst    *int64
}

func runCounts(ctx context.Context, g *errgroup.Group, db *mongo.Database, cs []counter) {
	for _, c := range cs {
		c := c
		g.Go(func() error {
			n, err := db.Collection(c.coll).CountDocuments(ctx, c.filter)
			if err != nil {
				return fmt.Errorf("count %s: %w", c.coll, err)
			}
			*c.dst = n
			return nil
		})
	}
}

// Sample sums total_minutes over at most limit users.
type Sample struct {
	Sum  int64 `bson:"sum"`
	Size int64 `bson:"size"`
}

// SampleMinutes reads a bounded sample of users' total_minutes.
func SampleMinutes(ctx context.Context, db *mongo.Database, limit int64) (Sample, error) {
	if limit <= 0 {
		limit = DefaultSampleSize
	}
	pipeline := bson.A{
		bson.M{"$limit": limit},
		bson.M{"$group": bson.M{
			"_id":  nil,
			"sum":  bson.M{"$sum": bson.M{"$ifNull": bson.A{"$total_minutes", 0}}},
			"size": bson.M{"$sum": 1},
		}},
	}
	cur, err := db.Collection("users").Aggregate(ctx, pipeline)
	if err != nil {
		return Sample{}, err
	}
	var rows []Sample
	if err := cur.All(ctx, &rows); err != nil {
		return Sample{}, err
	}
	if len(rows) == 0 {
		return Sample{}, nil
	}
	return rows[0], nil
}

// FetchAdminCounts runs every admin counter concurrently. Any failure fails
// the whole fetch.
func FetchAdminCounts(ctx context.Context, db *mongo.Database, now time.Time, sampleSize int64) (AdminCounts, error) {
	var (
		out    AdminCounts
		sample Sample
	)
	g, gctx := errgroup.WithContext(ctx)
	runCounts(gctx, g, db, []counter{
		{"users", bson.M{}, &out.TotalUsers},
		{"users", bson.M{"last_active_at": bson.M{"$gt": now.Add(-24 * time.Hour)}}, &out.ActiveUsers24h},
		{"users", bson.M{"last_active_at": bson.M{"$gt": now.Add(-7 * 24 * time.Hour)}}, &out.ActiveUsers7d},
		{"users", bson.M{"is_premium": true}, &out.TotalPremiumUsers},
		{"rooms", bson.M{}, &out.TotalRooms},
		{"rooms", bson.M{"is_active": true}, &out.ActiveRooms},
		{"messages", bson.M{}, &out.TotalMessages},
		{models.KindUserReport.Collection(), reportstore.StatusFilter(models.ReportPending), &out.PendingReports},
	})
	g.Go(func() error {
		s, err := SampleMinutes(gctx, db, sampleSize)
		sample = s
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminCounts{}, err
	}
	out.TotalStudyMinutes = Extrapolate(sample.Sum, out.TotalUsers, sample.Size)
	return out, nil
}

// FetchPublicCounts returns the landing-page counters. Every stored study
// session is a completed one; the mobile app only writes them on finish.
func FetchPublicCounts(ctx context.Context, db *mongo.Database, sampleSize int64) (PublicCounts, error) {
	var (
		out    PublicCounts
		sample Sample
	)
	g, gctx := errgroup.WithContext(ctx)
	runCounts(gctx, g, db, []counter{
		{"users", bson.M{}, &out.TotalUsers},
		{"rooms", bson.M{}, &out.TotalRooms},
		{"study_sessions", bson.M{}, &out.CompletedSessions},
	})
	g.Go(func() error {
		s, err := SampleMinutes(gctx, db, sampleSize)
		sample = s
		return err
	})
	if err := g.Wait(); err != nil {
		return PublicCounts{}, err
	}
	out.TotalMinutes = Extrapolate(sample.Sum, out.TotalUsers, sample.Size)
	return out, nil
}

// Extrapolate scales a sample sum to the full population: floor(sum*total/n).
// It returns 0 when the sample is empty and saturates at MaxInt64.
func Extrapolate(sum, total, n int64) int64 {
	if n <= 0 || sum <= 0 || total <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(sum), uint64(total))
	if hi >= uint64(n) {
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, uint64(n))
	if q > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(q)
}

// Label renders a count for display: 950+, 12K+, 1.2M+.
func Label(n int64) string {
	switch {
	case n >= 1_000_000:
		s := strconv.FormatFloat(math.Floor(float64(n)/100_000)/10, 'f', 1, 64)
		return strings.TrimSuffix(s, ".0") + "M+"
	case n >= 1_000:
		return strconv.FormatInt(n/1_000, 10) + "K+"
	}
	return strconv.FormatInt(n, 10) + "+"
}

// DayTotals is one day of aggregated daily_stats.
type DayTotals struct {
	Date        string `bson:"_id"`
	ActiveUsers int64  `bson:"active_users"`
	Minutes     int64  `bson:"minutes"`
}

// DailyTotals groups daily_stats rows on or after since by day. Each row is
// one active user on that day.
func DailyTotals(ctx context.Context, db *mongo.Database, since time.Time) (map[string]DayTotals, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"date": bson.M{"$gte": since.UTC().Format(DayFormat)}}},
		bson.M{"$group": bson.M{
			"_id":          "$date",
			"active_users": bson.M{"$sum": 1},
			"minutes":      bson.M{"$sum": bson.M{"$ifNull": bson.A{"$minutes", 0}}},
		}},
	}
	cur, err := db.Collection("daily_stats").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []DayTotals
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]DayTotals, len(rows))
	for _, r := range rows {
		out[r.Date] = r
	}
	return out, nil
}

// CountByDay groups users by the UTC calendar day of field (created_at or
// last_active_at) for values on or after since.
func CountByDay(ctx context.Context, db *mongo.Database, field string, since time.Time) (map[string]int64, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{field: bson.M{"$gte": since}}},
		bson.M{"$group": bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$" + field}},
			"count": bson.M{"$sum": 1},
		}},
	}
	cur, err := db.Collection("users").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Day   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Day] = r.Count
	}
	return out, nil
}

// UsersCreatedBefore counts users created strictly before t.
func UsersCreatedBefore(ctx context.Context, db *mongo.Database, t time.Time) (int64, error) {
	return db.Collection("users").CountDocuments(ctx, bson.M{"created_at": bson.M{"$lt": t}})
}

// Days returns the n calendar-day keys ending with now's day, oldest first.
func Days(now time.Time, n int) []string {
	day := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = day.AddDate(0, 0, i-n+1).Format(DayFormat)
	}
	return out
}

// StartOfDay parses a day key back into its UTC midnight.
func StartOfDay(key string) time.Time {
	t, _ := time.Parse(DayFormat, key)
	return t
}
