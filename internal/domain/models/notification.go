// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification delivery states.
const (
	NotificationSent      = "sent"
	NotificationScheduled = "scheduled"
	NotificationSending   = "sending"
	NotificationFailed    = "failed"
)

// Notification is one admin send action. After creation only the delivery
// counters and status change.
type Notification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Message      string             `bson:"message" json:"message"`
	TargetType   string             `bson:"target_type" json:"target_type"`
	TargetEmails []string           `bson:"target_emails,omitempty" json:"target_emails,omitempty"`
	Priority     string             `bson:"priority" json:"priority"`
	ScheduleType string             `bson:"schedule_type" json:"schedule_type"`
	ScheduledFor *time.Time         `bson:"scheduled_for,omitempty" json:"scheduled_for,omitempty"`
	SentAt       *time.Time         `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	Status       string             `bson:"status" json:"status"`
	SentBy       string             `bson:"sent_by" json:"sent_by"`
	DeepLink     string             `bson:"deep_link,omitempty" json:"deep_link,omitempty"`
	DeepLinkData string             `bson:"deep_link_data,omitempty" json:"deep_link_data,omitempty"`

	RecipientCount   int `bson:"recipient_count" json:"recipient_count"`
	TokensFound      int `bson:"tokens_found" json:"tokens_found"`
	PushSuccessCount int `bson:"push_success_count" json:"push_success_count"`
	PushFailureCount int `bson:"push_failure_count" json:"push_failure_count"`

	DispatchID string    `bson:"dispatch_id,omitempty" json:"dispatch_id,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// InboxItem is the per-user in-app copy of a notification.
type InboxItem struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id" json:"user_id"`
	NotificationID primitive.ObjectID `bson:"notification_id" json:"notification_id"`
	Title          string             `bson:"title" json:"title"`
	Message        string             `bson:"message" json:"message"`
	Priority       string             `bson:"priority" json:"priority"`
	Read           bool               `bson:"read" json:"read"`
	DeepLink       string             `bson:"deep_link,omitempty" json:"deep_link,omitempty"`
	DeepLinkData   string             `bson:"deep_link_data,omitempty" json:"deep_link_data,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
