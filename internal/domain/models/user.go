// internal/domain/models/user.go
package models

import "time"

// Premium plan types.
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// User is an application account. The _id is the auth-provider uid so that
// admin actions can be mirrored to the identity provider without a lookup.
type User struct {
	ID          string  `bson:"_id" json:"id"`
	Email       string  `bson:"email" json:"email"`
	DisplayName string  `bson:"display_name,omitempty" json:"display_name,omitempty"`
	PhotoURL    string  `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	PushToken   *string `bson:"push_token,omitempty" json:"-"`

	IsPremium bool       `bson:"is_premium" json:"is_premium"`
	IsBanned  bool       `bson:"is_banned" json:"is_banned"`
	BannedAt  *time.Time `bson:"banned_at,omitempty" json:"banned_at,omitempty"`

	TotalMinutes int64 `bson:"total_minutes" json:"total_minutes"`

	PremiumType        string     `bson:"premium_type,omitempty" json:"premium_type,omitempty"` // monthly | yearly
	PremiumStartedAt   *time.Time `bson:"premium_started_at,omitempty" json:"premium_started_at,omitempty"`
	PremiumUntil       *time.Time `bson:"premium_until,omitempty" json:"premium_until,omitempty"`
	PremiumCancelledAt *time.Time `bson:"premium_cancelled_at,omitempty" json:"premium_cancelled_at,omitempty"`

	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	LastActiveAt *time.Time `bson:"last_active_at,omitempty" json:"last_active_at,omitempty"`
}

// HasPushToken reports whether the user registered a device for push.
func (u User) HasPushToken() bool {
	return u.PushToken != nil && *u.PushToken != ""
}
