// Package push delivers multicast notifications through Firebase Cloud
// Messaging. Callers depend on Sender; FCM is the production implementation.
package push

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/messaging"
)

// MaxBatch is the FCM multicast ceiling per call.
const MaxBatch = 500

// Message priorities.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Message is one notification payload, independent of recipients.
type Message struct {
	NotificationID string
	Title          string
	Body           string
	Priority       string
	DeepLink       string
	DeepLinkData   string
}

// Result is the outcome for one token, in the same order as the tokens sent.
type Result struct {
	Token        string
	Success      bool
	MessageID    string
	Err          error
	InvalidToken bool
}

// Sender sends one multicast batch of at most MaxBatch tokens. An error
// means the whole batch failed; per-token failures are reported in Results.
type Sender interface {
	SendMulticast(ctx context.Context, msg Message, tokens []string) ([]Result, error)
}

// MulticastClient is the subset of *messaging.Client the FCM sender uses.
type MulticastClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// ErrTooManyTokens is returned for batches above MaxBatch.
var ErrTooManyTokens = errors.New("push: too many tokens in one batch")

// FCM sends through Firebase Cloud Messaging.
type FCM struct {
	client MulticastClient
}

func NewFCM(client MulticastClient) *FCM {
	return &FCM{client: client}
}

// SendMulticast implements Sender.
func (f *FCM) SendMulticast(ctx context.Context, msg Message, tokens []string) ([]Result, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if len(tokens) > MaxBatch {
		return nil, ErrTooManyTokens
	}
	resp, err := f.client.SendEachForMulticast(ctx, BuildMulticast(msg, tokens))
	if err != nil {
		return nil, err
	}
	out := make([]Result, len(tokens))
	for i, tok := range tokens {
		out[i].Token = tok
		if i >= len(resp.Responses) || resp.Responses[i] == nil {
			continue
		}
		r := resp.Responses[i]
		out[i].Success = r.Success
		out[i].MessageID = r.MessageID
		if !r.Success {
			out[i].Err = r.Error
			out[i].InvalidToken = IsInvalidToken(r.Error)
		}
	}
	return out, nil
}

// IsInvalidToken reports whether err means the token will never deliver
// again and should be cleared from the user record.
func IsInvalidToken(err error) bool {
	if err == nil {
		return false
	}
	return messaging.IsUnregistered(err) ||
		messaging.IsRegistrationTokenNotRegistered(err) ||
		messaging.IsInvalidArgument(err)
}

// BuildMulticast shapes msg into the FCM payload: notification block, the
// deep link carried as data, Android priority and channel hints, and APNS
// sound, badge and category.
func BuildMulticast(msg Message, tokens []string) *messaging.MulticastMessage {
	data := map[string]string{
		"type":     "admin_notification",
		"priority": msg.Priority,
	}
	if msg.NotificationID != "" {
		data["notificationId"] = msg.NotificationID
	}
	if msg.DeepLink != "" {
		data["deepLink"] = msg.DeepLink
		data["deepLinkData"] = msg.DeepLinkData
	}

	androidPriority := PriorityNormal
	if msg.Priority == PriorityHigh {
		androidPriority = PriorityHigh
	}
	androidNote := &messaging.AndroidNotification{
		Sound:     "default",
		ChannelID: "default",
	}
	if msg.DeepLink != "" {
		androidNote.ClickAction = "FLUTTER_NOTIFICATION_CLICK"
	}

	badge := 1
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority:     androidPriority,
			Notification: androidNote,
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:    "default",
					Badge:    &badge,
					Category: msg.DeepLink,
				},
			},
		},
	}
}

// ErrDisabled is returned by Disabled for every batch.
var ErrDisabled = errors.New("push: messaging is not configured")

// Disabled stands in for FCM when no credentials are configured. Every batch
// fails, so deliveries are recorded as failed instead of silently dropped.
type Disabled struct{}

func (Disabled) SendMulticast(context.Context, Message, []string) ([]Result, error) {
	return nil, ErrDisabled
}
