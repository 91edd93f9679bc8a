// internal/domain/models/audience.go
package models

import "time"

// Audience selects the users a notification targets.
type Audience string

const (
	AudienceAll      Audience = "all"
	AudiencePremium  Audience = "premium"
	AudienceFree     Audience = "free"
	AudienceActive   Audience = "active"   // active within ActiveWindow
	AudienceInactive Audience = "inactive" // not active within InactiveWindow
	AudienceSpecific Audience = "specific" // explicit email list
)

const (
	ActiveWindow   = 7 * 24 * time.Hour
	InactiveWindow = 30 * 24 * time.Hour
)

// ParseAudience returns the audience named by s.
func ParseAudience(s string) (Audience, bool) {
	switch a := Audience(s); a {
	case AudienceAll, AudiencePremium, AudienceFree, AudienceActive, AudienceInactive, AudienceSpecific:
		return a, true
	}
	return "", false
}

// PushTarget is a user with a registered device token.
type PushTarget struct {
	UserID string `bson:"_id"`
	Token  string `bson:"push_token"`
}
