// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/fanout"
	"github.com/dalemusser/studyhub/internal/app/system/firebaseapp"
	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/studyhub/internal/app/system/tasks"
	"github.com/dalemusser/studyhub/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends and long-lived services shared by the lifecycle
// hooks. Hooks receive it by value, so anything started in Startup and
// stopped in Shutdown lives behind a pointer.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Firebase is nil when no credentials are configured.
	Firebase *firebaseapp.Clients

	// Redis is nil unless cache_backend is redis.
	Redis *redis.Client
	Cache cache.Store

	Fanout *fanout.Service

	Background *Background
}

// Background is the set of goroutines and shared limiters owned by the app.
type Background struct {
	SessionLimiter *ratelimit.Limiter
	Dispatch       *workers.ScheduledDispatch
	Tasks          *tasks.Runner
}
