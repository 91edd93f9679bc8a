// internal/app/features/reports/rows.go
package reports

import (
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
)

type reviewFields struct {
	Status     models.ReportStatus `json:"status"`
	ReviewedAt *time.Time          `json:"reviewedAt"`
	ReviewedBy string              `json:"reviewedBy,omitempty"`
	AdminNotes string              `json:"adminNotes,omitempty"`
}

func toReview(rv models.ReportReview) reviewFields {
	st := rv.Status
	if st == "" {
		st = models.ReportPending
	}
	return reviewFields{Status: st, ReviewedAt: rv.ReviewedAt, ReviewedBy: rv.ReviewedBy, AdminNotes: rv.AdminNotes}
}

type userReportRow struct {
	ID               string    `json:"id"`
	ReporterID       string    `json:"reporterId"`
	ReporterName     string    `json:"reporterName"`
	ReportedUserID   string    `json:"reportedUserId"`
	ReportedUserName string    `json:"reportedUserName"`
	Reason           string    `json:"reason"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"createdAt"`
	reviewFields
}

func toUserReportRow(r models.UserReport) userReportRow {
	return userReportRow{
		ID:               r.ID.Hex(),
		ReporterID:       r.ReporterID,
		ReporterName:     r.ReporterName,
		ReportedUserID:   r.ReportedUserID,
		ReportedUserName: r.ReportedUserName,
		Reason:           r.Reason,
		Description:      r.Description,
		CreatedAt:        r.CreatedAt,
		reviewFields:     toReview(r.ReportReview),
	}
}

type messageReportRow struct {
	ID             string    `json:"id"`
	RoomID         string    `json:"roomId"`
	MessageID      string    `json:"messageId"`
	MessageText    string    `json:"messageText"`
	ReporterID     string    `json:"reporterUserId"`
	ReporterName   string    `json:"reporterUserName"`
	ReportedUserID string    `json:"reportedUserId"`
	Reason         string    `json:"reason"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	reviewFields
}

func toMessageReportRow(r models.MessageReport) messageReportRow {
	return messageReportRow{
		ID:             r.ID.Hex(),
		RoomID:         r.RoomID,
		MessageID:      r.MessageID,
		MessageText:    r.MessageText,
		ReporterID:     r.ReporterID,
		ReporterName:   r.ReporterName,
		ReportedUserID: r.ReportedUserID,
		Reason:         r.Reason,
		Description:    r.Description,
		CreatedAt:      r.CreatedAt,
		reviewFields:   toReview(r.ReportReview),
	}
}

type roomUserReportRow struct {
	ID               string    `json:"id"`
	RoomID           string    `json:"roomId"`
	RoomName         string    `json:"roomName"`
	ReporterID       string    `json:"reporterUserId"`
	ReporterName     string    `json:"reporterUserName"`
	ReportedUserID   string    `json:"reportedUserId"`
	ReportedUserName string    `json:"reportedUserName"`
	Reason           string    `json:"reason"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"createdAt"`
	reviewFields
}

func toRoomUserReportRow(r models.RoomUserReport) roomUserReportRow {
	return roomUserReportRow{
		ID:               r.ID.Hex(),
		RoomID:           r.RoomID,
		RoomName:         r.RoomName,
		ReporterID:       r.ReporterID,
		ReporterName:     r.ReporterName,
		ReportedUserID:   r.ReportedUserID,
		ReportedUserName: r.ReportedUserName,
		Reason:           r.Reason,
		Description:      r.Description,
		CreatedAt:        r.CreatedAt,
		reviewFields:     toReview(r.ReportReview),
	}
}
