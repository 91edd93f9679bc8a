// internal/app/system/workers/scheduleddispatch.go
package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/fanout"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.uber.org/zap"
)

// Claimer hands out due scheduled notifications one at a time, marking each
// as sending so no other instance picks it up.
type Claimer interface {
	ClaimDue(ctx context.Context, now time.Time) (models.Notification, bool, error)
}

// Dispatcher delivers a claimed notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *models.Notification) (fanout.Report, error)
}

// ScheduledDispatch is a background worker that delivers scheduled
// notifications once their time has come.
type ScheduledDispatch struct {
	claims   Claimer
	dispatch Dispatcher
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduledDispatch creates the worker. interval is how often due
// notifications are polled; timeout bounds one drain pass.
func NewScheduledDispatch(claims Claimer, dispatch Dispatcher, logger *zap.Logger, interval, timeout time.Duration) *ScheduledDispatch {
	return &ScheduledDispatch{
		claims:   claims,
		dispatch: dispatch,
		log:      logger,
		interval: interval,
		timeout:  timeout,
		now:      func() time.Time { return time.Now().UTC() },
		stopCh:   make(chan struct{}),
	}
}

// Start begins the polling loop.
func (w *ScheduledDispatch) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("scheduled dispatch worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *ScheduledDispatch) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("scheduled dispatch worker stopped")
}

func (w *ScheduledDispatch) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
			w.Drain(ctx)
			cancel()
		}
	}
}

// Drain delivers every notification that is due now and returns how many
// were dispatched.
func (w *ScheduledDispatch) Drain(ctx context.Context) int {
	sent := 0
	for {
		select {
		case <-w.stopCh:
			return sent
		default:
		}

		n, ok, err := w.claims.ClaimDue(ctx, w.now())
		if err != nil {
			w.log.Error("claim scheduled notification failed", zap.Error(err))
			return sent
		}
		if !ok {
			return sent
		}

		rep, err := w.dispatch.Dispatch(ctx, &n)
		switch {
		case errors.Is(err, fanout.ErrEmptyAudience):
			w.log.Warn("scheduled notification has no recipients", zap.String("notification_id", n.ID.Hex()))
		case err != nil:
			w.log.Error("scheduled dispatch failed", zap.String("notification_id", n.ID.Hex()), zap.Error(err))
		default:
			sent++
			w.log.Info("scheduled notification dispatched",
				zap.String("notification_id", n.ID.Hex()),
				zap.Int("recipients", rep.Recipients))
		}
	}
}
