// Package fanout delivers one admin notification to many users: it resolves
// the audience, records the notification, multicasts push messages in
// bounded batches, prunes dead tokens and writes an inbox copy per user.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	notificationstore "github.com/dalemusser/studyhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/studyhub/internal/app/system/push"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BatchSize bounds both push multicasts and inbox writes.
const BatchSize = push.MaxBatch

// ErrEmptyAudience is returned when no user matches the audience. Nothing is
// persisted in that case.
var ErrEmptyAudience = errors.New("no users match the target audience")

// Schedule modes.
const (
	ScheduleNow       = "now"
	ScheduleScheduled = "scheduled"
)

// Users resolves audiences and manages push tokens.
type Users interface {
	AudienceIDs(ctx context.Context, a models.Audience, now time.Time) ([]string, error)
	IDByEmail(ctx context.Context, email string) (string, error)
	PushTargets(ctx context.Context, ids []string) ([]models.PushTarget, error)
	ClearPushTokens(ctx context.Context, targets []models.PushTarget) (int64, error)
}

// Records persists notification records.
type Records interface {
	Create(ctx context.Context, n *models.Notification) error
	UpdateDelivery(ctx context.Context, id primitive.ObjectID, d notificationstore.Delivery) error
}

// Inbox writes one batch of per-user copies.
type Inbox interface {
	InsertInbox(ctx context.Context, items []models.InboxItem) error
}

// Request is one admin send action.
type Request struct {
	Title        string
	Message      string
	Audience     models.Audience
	Emails       []string
	Priority     string
	ScheduleType string
	ScheduledFor time.Time
	DeepLink     string
	DeepLinkData string
	SentBy       string
}

// Outcome is what Send reports back to the caller.
type Outcome struct {
	NotificationID primitive.ObjectID
	RecipientCount int
	Scheduled      bool
	Report         *Report
}

// BatchResult is the push outcome of one multicast batch.
type BatchResult struct {
	BatchIndex    int      `json:"batchIndex"`
	SuccessCount  int      `json:"successCount"`
	FailureCount  int      `json:"failureCount"`
	InvalidTokens []string `json:"invalidTokens,omitempty"`
	Err           error    `json:"-"`
}

// Report aggregates a whole delivery run.
type Report struct {
	DispatchID    string
	Recipients    int
	TokensFound   int
	Batches       []BatchResult
	SuccessCount  int
	FailureCount  int
	TokensCleared int64
	InboxBatches  int
	InboxFailed   int
}

func (r *Report) add(b BatchResult) {
	r.Batches = append(r.Batches, b)
	r.SuccessCount += b.SuccessCount
	r.FailureCount += b.FailureCount
}

// Service runs fan-outs.
type Service struct {
	users   Users
	records Records
	inbox   Inbox
	sender  push.Sender
	log     *zap.Logger
	now     func() time.Time
}

func New(users Users, records Records, inbox Inbox, sender push.Sender, log *zap.Logger) *Service {
	return &Service{
		users:   users,
		records: records,
		inbox:   inbox,
		sender:  sender,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ParseEmails splits a comma-separated address list, dropping blanks and
// duplicates.
func ParseEmails(raw string) []string {
	seen := map[string]bool{}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		e := strings.ToLower(strings.TrimSpace(part))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// Resolve returns the sorted, de-duplicated user ids for an audience.
// Unknown emails in a specific audience are skipped.
func (s *Service) Resolve(ctx context.Context, a models.Audience, emails []string) ([]string, error) {
	if a != models.AudienceSpecific {
		return s.users.AudienceIDs(ctx, a, s.now())
	}
	seen := map[string]bool{}
	var ids []string
	for _, e := range emails {
		id, err := s.users.IDByEmail(ctx, e)
		if errors.Is(err, userstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", e, err)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Send records the notification and, for immediate sends, delivers it.
func (s *Service) Send(ctx context.Context, req Request) (Outcome, error) {
	ids, err := s.Resolve(ctx, req.Audience, req.Emails)
	if err != nil {
		return Outcome{}, err
	}
	if len(ids) == 0 {
		return Outcome{}, ErrEmptyAudience
	}

	scheduled := req.ScheduleType == ScheduleScheduled
	n := &models.Notification{
		Title:          htmlsanitize.PlainText(req.Title),
		Message:        htmlsanitize.PlainText(req.Message),
		TargetType:     string(req.Audience),
		TargetEmails:   req.Emails,
		Priority:       req.Priority,
		ScheduleType:   req.ScheduleType,
		SentBy:         req.SentBy,
		DeepLink:       req.DeepLink,
		DeepLinkData:   req.DeepLinkData,
		RecipientCount: len(ids),
		CreatedAt:      s.now(),
	}
	if scheduled {
		at := req.ScheduledFor.UTC()
		n.ScheduledFor = &at
		n.Status = models.NotificationScheduled
	} else {
		at := s.now()
		n.SentAt = &at
		n.Status = models.NotificationSent
	}
	if err := s.records.Create(ctx, n); err != nil {
		return Outcome{}, fmt.Errorf("create notification: %w", err)
	}

	out := Outcome{NotificationID: n.ID, RecipientCount: len(ids), Scheduled: scheduled}
	if !scheduled {
		rep := s.Deliver(ctx, n, ids)
		out.Report = &rep
	}
	return out, nil
}

// Dispatch delivers a previously scheduled notification, re-resolving its
// audience against current data. The record has already been claimed, so
// every early return marks it failed rather than leaving it in "sending".
func (s *Service) Dispatch(ctx context.Context, n *models.Notification) (Report, error) {
	ids, err := s.Resolve(ctx, models.Audience(n.TargetType), n.TargetEmails)
	if err != nil {
		s.finish(ctx, n.ID, notificationstore.Delivery{Status: models.NotificationFailed, SentAt: s.now()})
		return Report{}, err
	}
	if len(ids) == 0 {
		s.finish(ctx, n.ID, notificationstore.Delivery{Status: models.NotificationFailed, SentAt: s.now()})
		return Report{}, ErrEmptyAudience
	}
	return s.Deliver(ctx, n, ids), nil
}

// Deliver pushes to every token-bearing target, clears dead tokens, writes
// inbox copies for all targets and records the counters. It is best-effort:
// a failed batch is counted and the run continues.
func (s *Service) Deliver(ctx context.Context, n *models.Notification, ids []string) Report {
	rep := Report{DispatchID: uuid.NewString(), Recipients: len(ids)}
	log := s.log.With(zap.String("notification_id", n.ID.Hex()), zap.String("dispatch_id", rep.DispatchID))

	targets, err := s.users.PushTargets(ctx, ids)
	if err != nil {
		log.Error("load push targets failed", zap.Error(err))
	}
	rep.TokensFound = len(targets)

	msg := push.Message{
		NotificationID: n.ID.Hex(),
		Title:          n.Title,
		Body:           n.Message,
		Priority:       n.Priority,
		DeepLink:       n.DeepLink,
		DeepLinkData:   n.DeepLinkData,
	}
	var dead []models.PushTarget
	for i, start := 0, 0; start < len(targets); i, start = i+1, start+BatchSize {
		batch := targets[start:min(start+BatchSize, len(targets))]
		br, invalid := s.sendBatch(ctx, i, msg, batch)
		if br.Err != nil {
			log.Warn("push batch failed", zap.Int("batch", i), zap.Int("tokens", len(batch)), zap.Error(br.Err))
		}
		rep.add(br)
		dead = append(dead, invalid...)
	}

	if len(dead) > 0 {
		cleared, err := s.users.ClearPushTokens(ctx, dead)
		if err != nil {
			log.Error("clear invalid push tokens failed", zap.Int("tokens", len(dead)), zap.Error(err))
		}
		rep.TokensCleared = cleared
	}

	s.writeInbox(ctx, log, n, ids, &rep)

	s.finish(ctx, n.ID, notificationstore.Delivery{
		Status:         models.NotificationSent,
		RecipientCount: rep.Recipients,
		TokensFound:    rep.TokensFound,
		SuccessCount:   rep.SuccessCount,
		FailureCount:   rep.FailureCount,
		DispatchID:     rep.DispatchID,
		SentAt:         s.now(),
	})

	log.Info("notification delivered",
		zap.Int("recipients", rep.Recipients),
		zap.Int("tokens", rep.TokensFound),
		zap.Int("batches", len(rep.Batches)),
		zap.Int("push_success", rep.SuccessCount),
		zap.Int("push_failure", rep.FailureCount),
		zap.Int64("tokens_cleared", rep.TokensCleared),
		zap.Int("inbox_failed", rep.InboxFailed),
	)
	return rep
}

func (s *Service) sendBatch(ctx context.Context, idx int, msg push.Message, batch []models.PushTarget) (BatchResult, []models.PushTarget) {
	br := BatchResult{BatchIndex: idx}
	tokens := make([]string, len(batch))
	for i, t := range batch {
		tokens[i] = t.Token
	}

	results, err := s.sender.SendMulticast(ctx, msg, tokens)
	if err != nil {
		br.FailureCount = len(batch)
		br.Err = err
		return br, nil
	}

	var dead []models.PushTarget
	for i, t := range batch {
		if i < len(results) && results[i].Success {
			br.SuccessCount++
			continue
		}
		br.FailureCount++
		if i < len(results) && results[i].InvalidToken {
			br.InvalidTokens = append(br.InvalidTokens, t.Token)
			dead = append(dead, t)
		}
	}
	return br, dead
}

func (s *Service) writeInbox(ctx context.Context, log *zap.Logger, n *models.Notification, ids []string, rep *Report) {
	created := s.now()
	for start := 0; start < len(ids); start += BatchSize {
		chunk := ids[start:min(start+BatchSize, len(ids))]
		items := make([]models.InboxItem, len(chunk))
		for i, uid := range chunk {
			items[i] = models.InboxItem{
				UserID:         uid,
				NotificationID: n.ID,
				Title:          n.Title,
				Message:        n.Message,
				Priority:       n.Priority,
				DeepLink:       n.DeepLink,
				DeepLinkData:   n.DeepLinkData,
				CreatedAt:      created,
			}
		}
		rep.InboxBatches++
		if err := s.inbox.InsertInbox(ctx, items); err != nil {
			rep.InboxFailed += len(chunk)
			log.Error("write inbox batch failed", zap.Int("offset", start), zap.Int("users", len(chunk)), zap.Error(err))
		}
	}
}

// finish writes the final counters once; a failure is logged, not retried.
func (s *Service) finish(ctx context.Context, id primitive.ObjectID, d notificationstore.Delivery) {
	if err := s.records.UpdateDelivery(ctx, id, d); err != nil {
		s.log.Error("update notification counters failed", zap.String("notification_id", id.Hex()), zap.Error(err))
	}
}
