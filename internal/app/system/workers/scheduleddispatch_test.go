package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/fanout"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeQueue struct {
	mu      sync.Mutex
	pending []models.Notification
	err     error
}

func (q *fakeQueue) ClaimDue(_ context.Context, now time.Time) (models.Notification, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return models.Notification{}, false, q.err
	}
	for i, n := range q.pending {
		if n.ScheduledFor != nil && !n.ScheduledFor.After(now) {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			n.Status = models.NotificationSending
			return n, true, nil
		}
	}
	return models.Notification{}, false, nil
}

type fakeDispatcher struct {
	mu   sync.Mutex
	got  []primitive.ObjectID
	fail map[primitive.ObjectID]error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, n *models.Notification) (fanout.Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.got = append(d.got, n.ID)
	if err := d.fail[n.ID]; err != nil {
		return fanout.Report{}, err
	}
	return fanout.Report{Recipients: 1}, nil
}

func scheduled(at time.Time) models.Notification {
	return models.Notification{ID: primitive.NewObjectID(), Status: models.NotificationScheduled, ScheduledFor: &at}
}

func TestDrain_DispatchesOnlyDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	due1 := scheduled(now.Add(-time.Hour))
	due2 := scheduled(now)
	later := scheduled(now.Add(time.Minute))

	q := &fakeQueue{pending: []models.Notification{due1, later, due2}}
	d := &fakeDispatcher{}
	w := NewScheduledDispatch(q, d, zap.NewNop(), time.Minute, time.Minute)
	w.now = func() time.Time { return now }

	if n := w.Drain(context.Background()); n != 2 {
		t.Errorf("Drain: got %d, want 2", n)
	}
	if len(d.got) != 2 || d.got[0] != due1.ID || d.got[1] != due2.ID {
		t.Errorf("dispatched %v", d.got)
	}
	if len(q.pending) != 1 || q.pending[0].ID != later.ID {
		t.Errorf("pending after drain: %v", q.pending)
	}
}

func TestDrain_FailuresDoNotStopTheQueue(t *testing.T) {
	now := time.Now().UTC()
	a, b := scheduled(now.Add(-time.Minute)), scheduled(now.Add(-time.Second))

	q := &fakeQueue{pending: []models.Notification{a, b}}
	d := &fakeDispatcher{fail: map[primitive.ObjectID]error{a.ID: fanout.ErrEmptyAudience}}
	w := NewScheduledDispatch(q, d, zap.NewNop(), time.Minute, time.Minute)

	if n := w.Drain(context.Background()); n != 1 {
		t.Errorf("Drain: got %d, want 1", n)
	}
	if len(d.got) != 2 {
		t.Errorf("expected both notifications attempted, got %d", len(d.got))
	}
}

func TestDrain_ClaimError(t *testing.T) {
	q := &fakeQueue{err: errors.New("db down")}
	d := &fakeDispatcher{}
	w := NewScheduledDispatch(q, d, zap.NewNop(), time.Minute, time.Minute)

	if n := w.Drain(context.Background()); n != 0 {
		t.Errorf("Drain: got %d, want 0", n)
	}
}

func TestStartStop(t *testing.T) {
	now := time.Now().UTC()
	q := &fakeQueue{pending: []models.Notification{scheduled(now.Add(-time.Minute))}}
	d := &fakeDispatcher{}
	w := NewScheduledDispatch(q, d, zap.NewNop(), 10*time.Millisecond, time.Second)

	w.Start()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		n := len(d.got)
		d.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.got) != 1 {
		t.Errorf("dispatched %d, want 1", len(d.got))
	}
}
