// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// RateLimitPruneJob drops expired windows from the session endpoint limiter
// so addresses seen once do not stay in memory.
func RateLimitPruneJob(l *ratelimit.Limiter, logger *zap.Logger) Job {
	return Job{
		Name:     "ratelimit-prune",
		Interval: 10 * time.Minute,
		Run: func(ctx context.Context) error {
			if n := l.Prune(); n > 0 {
				logger.Debug("pruned rate limit windows", zap.Int("count", n))
			}
			return nil
		},
	}
}
