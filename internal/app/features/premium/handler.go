// internal/app/features/premium/handler.go
package premium

import (
	"context"
	"time"

	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/auditlog"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	listTTL      = 3 * time.Minute
	analyticsTTL = 10 * time.Minute
)

// Pricing holds the plan prices used for revenue estimates.
type Pricing struct {
	Monthly float64
	Yearly  float64
}

// Store is the subscription persistence the handlers need.
type Store interface {
	PremiumList(ctx context.Context, p paging.Page) ([]models.User, int64, error)
	Summary(ctx context.Context, now time.Time) (userstore.PremiumSummary, error)
	GrantPremium(ctx context.Context, id, plan string, days int, now time.Time) (time.Time, error)
	CancelPremium(ctx context.Context, id string, now time.Time) error
	StartsByMonth(ctx context.Context, since time.Time) ([]userstore.MonthBucket, error)
}

// Handler serves /api/admin/premium.
type Handler struct {
	Store   Store
	Pricing Pricing
	Cache   cache.Store
	Audit   *auditlog.Logger
	Log     *zap.Logger
	Now     func() time.Time
}

func NewHandler(db *mongo.Database, pricing Pricing, c cache.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   userstore.New(db),
		Pricing: pricing,
		Cache:   c,
		Audit:   audit,
		Log:     logger,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}
