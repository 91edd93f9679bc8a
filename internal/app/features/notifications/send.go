// internal/app/features/notifications/send.go
package notifications

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	"github.com/dalemusser/studyhub/internal/app/system/adminauth"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/fanout"
	"github.com/dalemusser/studyhub/internal/app/system/push"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

type sendRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Message       string     `json:"message" validate:"required,max=2000"`
	TargetType    string     `json:"targetType" validate:"required,oneof=all premium free active inactive specific"`
	TargetUsers   string     `json:"targetUsers" validate:"required_if=TargetType specific"`
	Priority      string     `json:"priority" validate:"omitempty,oneof=normal high"`
	ScheduleType  string     `json:"scheduleType" validate:"omitempty,oneof=now scheduled"`
	ScheduledTime *time.Time `json:"scheduledTime" validate:"required_if=ScheduleType scheduled"`
	DeepLink      string     `json:"deepLink"`
	DeepLinkData  string     `json:"deepLinkData" validate:"max=500"`
}

type sendResponse struct {
	Success        bool   `json:"success"`
	NotificationID string `json:"notificationId"`
	RecipientCount int    `json:"recipientCount"`
	Message        string `json:"message"`
}

// Send handles POST /api/admin/notifications.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := apiresp.Decode(w, r, &req); err != nil {
		apiresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	audience, _ := models.ParseAudience(req.TargetType)
	if req.Priority == "" {
		req.Priority = push.PriorityNormal
	}
	if req.ScheduleType == "" {
		req.ScheduleType = fanout.ScheduleNow
	}

	fr := fanout.Request{
		Title:        req.Title,
		Message:      req.Message,
		Audience:     audience,
		Priority:     req.Priority,
		ScheduleType: req.ScheduleType,
		DeepLink:     req.DeepLink,
		DeepLinkData: req.DeepLinkData,
		SentBy:       sentBy(r),
	}
	if audience == models.AudienceSpecific {
		fr.Emails = fanout.ParseEmails(req.TargetUsers)
	}
	if req.ScheduleType == fanout.ScheduleScheduled {
		if !req.ScheduledTime.After(h.Now()) {
			apiresp.Error(w, http.StatusBadRequest, "scheduledTime must be in the future")
			return
		}
		fr.ScheduledFor = *req.ScheduledTime
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "notifications send")
	defer cancel()

	out, err := h.Sender.Send(ctx, fr)
	if errors.Is(err, fanout.ErrEmptyAudience) {
		apiresp.JSON(w, http.StatusBadRequest, struct {
			Error          string `json:"error"`
			RecipientCount int    `json:"recipientCount"`
		}{"No users match the target audience", 0})
		return
	}
	if err != nil {
		apiresp.Internal(w, r, h.Log, "send notification failed", err)
		return
	}

	h.Cache.Clear(ctx)
	details := map[string]string{
		"target_type":     req.TargetType,
		"recipient_count": strconv.Itoa(out.RecipientCount),
		"schedule_type":   req.ScheduleType,
	}
	if out.Report != nil {
		details["push_success"] = strconv.Itoa(out.Report.SuccessCount)
		details["push_failure"] = strconv.Itoa(out.Report.FailureCount)
	}
	h.Audit.Admin(r, audit.ActionNotificationSent, "notification", out.NotificationID.Hex(), details)

	msg := fmt.Sprintf("Notification sent to %d users", out.RecipientCount)
	if out.Scheduled {
		msg = fmt.Sprintf("Notification scheduled for %d users", out.RecipientCount)
	}
	apiresp.JSON(w, http.StatusOK, sendResponse{
		Success:        true,
		NotificationID: out.NotificationID.Hex(),
		RecipientCount: out.RecipientCount,
		Message:        msg,
	})
}

func sentBy(r *http.Request) string {
	if u, ok := adminauth.FromContext(r.Context()); ok {
		return u.Email
	}
	return "admin"
}
