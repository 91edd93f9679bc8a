// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs after connections and schema are ready and before the HTTP
// handler is built: it applies configured deadlines and starts the
// background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
		Batch:  appCfg.TimeoutBatch,
	})

	if bg := deps.Background; bg != nil {
		bg.Dispatch.Start()
		bg.Tasks.Start()
	}
	return nil
}
