// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	auditstore "github.com/dalemusser/studyhub/internal/app/store/audit"
	notificationstore "github.com/dalemusser/studyhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/fanout"
	"github.com/dalemusser/studyhub/internal/app/system/firebaseapp"
	"github.com/dalemusser/studyhub/internal/app/system/indexes"
	"github.com/dalemusser/studyhub/internal/app/system/push"
	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/studyhub/internal/app/system/tasks"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens MongoDB, the Firebase clients and the cache backend, and
// assembles the services built on top of them.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		return deps, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return deps, fmt.Errorf("mongo ping: %w", err)
	}
	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	fb, err := firebaseapp.Connect(ctx, appCfg.firebaseCredentials())
	switch {
	case errors.Is(err, firebaseapp.ErrNotConfigured):
		logger.Warn("running without firebase")
	case err != nil:
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	default:
		deps.Firebase = fb
		logger.Info("firebase initialized", zap.String("project_id", fb.ProjectID))
	}

	if err := connectCache(ctx, &deps, appCfg, logger); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}

	var sender push.Sender = push.Disabled{}
	if deps.Firebase != nil {
		sender = push.NewFCM(deps.Firebase.Messaging)
	}
	notifications := notificationstore.New(deps.MongoDatabase)
	deps.Fanout = fanout.New(userstore.New(deps.MongoDatabase), notifications, notifications, sender, logger)

	limiter := ratelimit.New(appCfg.SessionRateLimit, appCfg.SessionRateWindow)
	deps.Background = &Background{
		SessionLimiter: limiter,
		Dispatch: workers.NewScheduledDispatch(notifications, deps.Fanout, logger,
			appCfg.ScheduledDispatchInterval, appCfg.TimeoutBatch),
		Tasks: tasks.NewRunner(logger, tasks.RateLimitPruneJob(limiter, logger)),
	}
	return deps, nil
}

func connectCache(ctx context.Context, deps *DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.CacheBackend != CacheRedis {
		deps.Cache = cache.NewMemory(cache.SystemClock{})
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     appCfg.RedisAddr,
		Password: appCfg.RedisPassword,
		DB:       appCfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping %s: %w", appCfg.RedisAddr, err)
	}
	deps.Redis = rdb
	deps.Cache = cache.NewRedis(rdb, appCfg.RedisPrefix, logger)
	logger.Info("using redis cache", zap.String("addr", appCfg.RedisAddr))
	return nil
}

// EnsureSchema creates the indexes behind lists, counters, the audit trail
// and the notification scheduler. Every step is idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase
	if err := indexes.EnsureAll(ctx, db, logger); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	if err := auditstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	if err := notificationstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("notification indexes: %w", err)
	}
	return nil
}
