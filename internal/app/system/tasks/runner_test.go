package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

func TestRunner_RunsJobsUntilStopped(t *testing.T) {
	var ok, failing atomic.Int32
	r := NewRunner(zap.NewNop(),
		Job{Name: "ok", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
			ok.Add(1)
			return nil
		}},
		Job{Name: "failing", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
			failing.Add(1)
			return errors.New("boom")
		}},
	)
	r.Start()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && (ok.Load() < 2 || failing.Load() < 2) {
		time.Sleep(2 * time.Millisecond)
	}
	r.Stop()

	if ok.Load() < 2 || failing.Load() < 2 {
		t.Fatalf("runs: ok=%d failing=%d", ok.Load(), failing.Load())
	}
	after := ok.Load()
	time.Sleep(20 * time.Millisecond)
	if ok.Load() != after {
		t.Error("job kept running after Stop")
	}
}

func TestRateLimitPruneJob(t *testing.T) {
	l := ratelimit.New(1, time.Nanosecond)
	l.Allow("a")
	time.Sleep(time.Millisecond)

	job := RateLimitPruneJob(l, zap.NewNop())
	if job.Name == "" || job.Interval <= 0 {
		t.Fatalf("job = %+v", job)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := l.Prune(); n != 0 {
		t.Errorf("expected the job to have pruned already, %d left", n)
	}
}
