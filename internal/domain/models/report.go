// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus is the moderation state of any report kind.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewing ReportStatus = "reviewing"
	ReportResolved  ReportStatus = "resolved"
	ReportRejected  ReportStatus = "rejected"
)

// ParseReportStatus returns the status named by s.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch st := ReportStatus(s); st {
	case ReportPending, ReportReviewing, ReportResolved, ReportRejected:
		return st, true
	}
	return "", false
}

// Terminal reports whether no further transition is allowed.
func (s ReportStatus) Terminal() bool {
	return s == ReportResolved || s == ReportRejected
}

// CanTransition reports whether an admin may move a report from s to next.
// pending -> reviewing|resolved|rejected, reviewing -> resolved|rejected.
func (s ReportStatus) CanTransition(next ReportStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case ReportPending:
		return next == ReportReviewing || next == ReportResolved || next == ReportRejected
	case ReportReviewing:
		return next == ReportResolved || next == ReportRejected
	}
	return false
}

// ReportKind selects one of the three report shapes.
type ReportKind int

const (
	KindUserReport ReportKind = iota
	KindMessageReport
	KindRoomUserReport
)

// Collection is the Mongo collection holding reports of this kind.
func (k ReportKind) Collection() string {
	switch k {
	case KindMessageReport:
		return "message_reports"
	case KindRoomUserReport:
		return "room_user_reports"
	}
	return "reports"
}

func (k ReportKind) String() string {
	switch k {
	case KindMessageReport:
		return "message_report"
	case KindRoomUserReport:
		return "room_user_report"
	}
	return "user_report"
}

// ReportReview holds the moderation fields shared by all report kinds.
type ReportReview struct {
	Status     ReportStatus `bson:"status" json:"status"`
	ReviewedAt *time.Time   `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewedBy string       `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	AdminNotes string       `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
}

// UserReport is a report filed against a user profile.
type UserReport struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID       string             `bson:"reporter_id" json:"reporter_id"`
	ReporterName     string             `bson:"reporter_name,omitempty" json:"reporter_name,omitempty"`
	ReportedUserID   string             `bson:"reported_user_id" json:"reported_user_id"`
	ReportedUserName string             `bson:"reported_user_name,omitempty" json:"reported_user_name,omitempty"`
	Reason           string             `bson:"reason" json:"reason"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	ReportReview     `bson:",inline"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// MessageReport is a report filed against a chat message in a room.
type MessageReport struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomID         string             `bson:"room_id" json:"room_id"`
	MessageID      string             `bson:"message_id" json:"message_id"`
	MessageText    string             `bson:"message_text,omitempty" json:"message_text,omitempty"`
	ReporterID     string             `bson:"reporter_id" json:"reporter_id"`
	ReporterName   string             `bson:"reporter_name,omitempty" json:"reporter_name,omitempty"`
	ReportedUserID string             `bson:"reported_user_id" json:"reported_user_id"`
	Reason         string             `bson:"reason" json:"reason"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	ReportReview   `bson:",inline"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// RoomUserReport is a report filed against a user from inside a room.
type RoomUserReport struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomID           string             `bson:"room_id" json:"room_id"`
	RoomName         string             `bson:"room_name,omitempty" json:"room_name,omitempty"`
	ReporterID       string             `bson:"reporter_id" json:"reporter_id"`
	ReporterName     string             `bson:"reporter_name,omitempty" json:"reporter_name,omitempty"`
	ReportedUserID   string             `bson:"reported_user_id" json:"reported_user_id"`
	ReportedUserName string             `bson:"reported_user_name,omitempty" json:"reported_user_name,omitempty"`
	Reason           string             `bson:"reason" json:"reason"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	ReportReview     `bson:",inline"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}
