// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a named unit of periodic work.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration // per run; defaults to Interval
	Run      func(ctx context.Context) error
}

// Runner runs each job on its own ticker until stopped.
type Runner struct {
	jobs   []Job
	log    *zap.Logger
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewRunner(logger *zap.Logger, jobs ...Job) *Runner {
	return &Runner{jobs: jobs, log: logger, stopCh: make(chan struct{})}
}

// Start launches one goroutine per job.
func (r *Runner) Start() {
	for _, j := range r.jobs {
		r.wg.Add(1)
		go r.loop(j)
	}
	r.log.Info("task runner started", zap.Int("jobs", len(r.jobs)))
}

// Stop signals every job loop and waits for in-flight runs.
func (r *Runner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("task runner stopped")
}

func (r *Runner) loop(j Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.runOnce(j)
		}
	}
}

func (r *Runner) runOnce(j Job) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = j.Interval
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := j.Run(ctx); err != nil {
		r.log.Error("task failed", zap.String("job", j.Name), zap.Error(err))
	}
}
