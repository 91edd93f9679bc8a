// internal/domain/models/audit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEvent records one admin action.
type AuditEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Action     string             `bson:"action" json:"action"`
	ActorUID   string             `bson:"actor_uid" json:"actor_uid"`
	ActorEmail string             `bson:"actor_email" json:"actor_email"`
	TargetType string             `bson:"target_type" json:"target_type"`
	TargetID   string             `bson:"target_id" json:"target_id"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	Details    map[string]string  `bson:"details,omitempty" json:"details,omitempty"`
}
