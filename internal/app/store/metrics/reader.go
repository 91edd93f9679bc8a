package metricsstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Reader binds the aggregate queries to one database and sample size so
// handlers can depend on a small interface.
type Reader struct {
	db         *mongo.Database
	sampleSize int64
}

// NewReader returns a Reader. A non-positive sampleSize means DefaultSampleSize.
func NewReader(db *mongo.Database, sampleSize int64) *Reader {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Reader{db: db, sampleSize: sampleSize}
}

func (r *Reader) AdminCounts(ctx context.Context, now time.Time) (AdminCounts, error) {
	return FetchAdminCounts(ctx, r.db, now, r.sampleSize)
}

func (r *Reader) PublicCounts(ctx context.Context) (PublicCounts, error) {
	return FetchPublicCounts(ctx, r.db, r.sampleSize)
}

func (r *Reader) DailyTotals(ctx context.Context, since time.Time) (map[string]DayTotals, error) {
	return DailyTotals(ctx, r.db, since)
}

func (r *Reader) CountByDay(ctx context.Context, field string, since time.Time) (map[string]int64, error) {
	return CountByDay(ctx, r.db, field, since)
}

func (r *Reader) UsersCreatedBefore(ctx context.Context, t time.Time) (int64, error) {
	return UsersCreatedBefore(ctx, r.db, t)
}
