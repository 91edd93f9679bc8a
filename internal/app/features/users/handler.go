// internal/app/features/users/handler.go
package users

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

// listTTL is how long a users page stays cached.
const listTTL = 2 * time.Minute

// Store is the user persistence the handlers need.
type Store interface {
	List(ctx context.Context, q userstore.Query, p paging.Page) ([]models.User, int64, error)
	SetBanned(ctx context.Context, id string, banned bool, now time.Time) error
	SetPremiumFlag(ctx context.Context, id string, isPremium bool, until *time.Time) error
	Delete(ctx context.Context, id string) error
}

// Accounts mirrors bans and deletes onto the identity provider.
type Accounts interface {
	SetDisabled(ctx context.Context, uid string, disabled bool) error
	Delete(ctx context.Context, uid string) error
}

// Handler serves /api/admin/users.
type Handler struct {
	Store    Store
	Accounts Accounts
	Cache    cache.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
	Now      func() time.Time
}

// NewHandler constructs a users Handler backed by MongoDB.
func NewHandler(db *mongo.Database, accounts Accounts, c cache.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    userstore.New(db),
		Accounts: accounts,
		Cache:    c,
		Audit:    audit,
		Log:      logger,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}
