// internal/app/features/auditlog/list.go
package auditlog

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"golang.org/x/sync/errgroup"
)

const dateFormat = "2006-01-02"

type listResponse struct {
	Events      []models.AuditEvent `json:"events"`
	Total       int64               `json:"total"`
	CurrentPage int                 `json:"currentPage"`
	TotalPages  int                 `json:"totalPages"`
}

// parseFilter reads action, actor, targetType, targetId, start and end.
// Dates are calendar days in UTC; end covers its whole day.
func parseFilter(r *http.Request, p paging.Page) (audit.QueryFilter, error) {
	f := audit.QueryFilter{
		Action:     strings.TrimSpace(query.Get(r, "action")),
		ActorUID:   strings.TrimSpace(query.Get(r, "actor")),
		TargetType: strings.TrimSpace(query.Get(r, "targetType")),
		TargetID:   strings.TrimSpace(query.Get(r, "targetId")),
		Limit:      p.Limit64(),
		Offset:     p.Skip(),
	}
	if s := strings.TrimSpace(query.Get(r, "start")); s != "" {
		t, err := time.Parse(dateFormat, s)
		if err != nil {
			return f, errors.New("invalid start date")
		}
		f.StartTime = &t
	}
	if s := strings.TrimSpace(query.Get(r, "end")); s != "" {
		t, err := time.Parse(dateFormat, s)
		if err != nil {
			return f, errors.New("invalid end date")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	if f.StartTime != nil && f.EndTime != nil && f.EndTime.Before(*f.StartTime) {
		return f, errors.New("end date is before start date")
	}
	return f, nil
}

// List handles GET /api/admin/audit, newest events first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)
	filter, err := parseFilter(r, p)
	if err != nil {
		apiresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit list")
	defer cancel()

	var (
		events []models.AuditEvent
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := h.Events.CountByFilter(gctx, filter)
		total = n
		return err
	})
	g.Go(func() error {
		e, err := h.Events.Query(gctx, filter)
		events = e
		return err
	})
	if err := g.Wait(); err != nil {
		apiresp.Internal(w, r, h.Log, "audit list failed", err)
		return
	}
	if events == nil {
		events = []models.AuditEvent{}
	}

	apiresp.JSON(w, http.StatusOK, listResponse{
		Events:      events,
		Total:       total,
		CurrentPage: p.Number,
		TotalPages:  paging.TotalPages(total, p.Limit),
	})
}
