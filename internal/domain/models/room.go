// internal/domain/models/room.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room is a shared study room.
type Room struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     string             `bson:"owner_id" json:"owner_id"`
	OwnerName   string             `bson:"owner_name,omitempty" json:"owner_name,omitempty"`
	MemberIDs   []string           `bson:"member_ids,omitempty" json:"member_ids,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`

	IsPrivate  bool       `bson:"is_private" json:"is_private"`
	IsActive   bool       `bson:"is_active" json:"is_active"`
	IsDisabled bool       `bson:"is_disabled" json:"is_disabled"`
	DisabledAt *time.Time `bson:"disabled_at,omitempty" json:"disabled_at,omitempty"`
	HasReports bool       `bson:"has_reports" json:"has_reports"`

	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	LastActivityAt *time.Time `bson:"last_activity_at,omitempty" json:"last_activity_at,omitempty"`
}

// DefaultCategory labels rooms created without a category.
const DefaultCategory = "Other"
