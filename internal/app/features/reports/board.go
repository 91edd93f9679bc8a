// internal/app/features/reports/board.go
package reports

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	reportstore "github.com/dalemusser/studyhub/internal/app/store/reports"
	"github.com/dalemusser/studyhub/internal/app/system/adminauth"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the persistence one report kind needs.
type Store[T reportstore.Report] interface {
	List(ctx context.Context, q reportstore.Query, p paging.Page) ([]T, int64, error)
	Review(ctx context.Context, id primitive.ObjectID, next models.ReportStatus, by, notes string, now time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type listResult[R any] struct {
	Reports      []R   `json:"reports"`
	TotalReports int64 `json:"totalReports"`
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
}

// board serves one report kind: list, review and delete. T is the stored
// document and R the row sent to the client.
type board[T reportstore.Report, R any] struct {
	h         *Handler
	store     Store[T]
	kind      models.ReportKind
	prefix    string
	ttl       time.Duration
	roomScope bool
	toRow     func(T) R
}

func (b *board[T, R]) list(w http.ResponseWriter, r *http.Request) {
	status := query.Get(r, "status")
	if status == "all" {
		status = ""
	}
	var q reportstore.Query
	if status != "" {
		st, ok := models.ParseReportStatus(status)
		if !ok {
			apiresp.Error(w, http.StatusBadRequest, "Invalid status")
			return
		}
		q.Status = st
	}
	if b.roomScope {
		q.RoomID = query.Get(r, "roomId")
	}
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), b.h.Log, b.prefix+" list")
	defer cancel()

	statusKey, roomKey := string(q.Status), q.RoomID
	if statusKey == "" {
		statusKey = "all"
	}
	if roomKey == "" {
		roomKey = "all"
	}
	key := cache.Key(b.prefix, statusKey, page.Number, page.Limit, roomKey)
	res, cached, err := cache.Fetch(ctx, b.h.Cache, key, b.ttl, func(ctx context.Context) (listResult[R], error) {
		docs, total, err := b.store.List(ctx, q, page)
		if err != nil {
			return listResult[R]{}, err
		}
		rows := make([]R, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, b.toRow(d))
		}
		return listResult[R]{Reports: rows, TotalReports: total, CurrentPage: page.Number, TotalPages: paging.TotalPages(total, page.Limit)}, nil
	})
	if err != nil {
		apiresp.Internal(w, r, b.h.Log, "list "+b.kind.String()+" failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		listResult[R]
		Cached bool `json:"cached"`
	}{res, cached})
}

// review moves a report to next, or deletes it when del is set.
func (b *board[T, R]) review(w http.ResponseWriter, r *http.Request, rawID string, next models.ReportStatus, notes string, del bool) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		apiresp.Error(w, http.StatusBadRequest, "reportId is invalid")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), b.h.Log, b.prefix+" update")
	defer cancel()

	action := audit.ActionReportReviewed
	details := map[string]string{"kind": b.kind.String()}
	if del {
		err = b.store.Delete(ctx, id)
		action = audit.ActionReportDeleted
	} else {
		err = b.store.Review(ctx, id, next, reviewer(r), notes, b.h.Now())
		details["status"] = string(next)
	}
	switch {
	case errors.Is(err, reportstore.ErrNotFound):
		apiresp.Error(w, http.StatusNotFound, "Report not found")
		return
	case errors.Is(err, reportstore.ErrTransition):
		apiresp.Error(w, http.StatusBadRequest, "Report cannot move to "+string(next))
		return
	case err != nil:
		apiresp.Internal(w, r, b.h.Log, "update "+b.kind.String()+" failed", err)
		return
	}

	b.h.Cache.Clear(ctx)
	b.h.Audit.Admin(r, action, b.kind.String(), rawID, details)
	apiresp.Success(w)
}

// statusPatch is the message and room-scoped PATCH body.
type statusPatch struct {
	ReportID   string `json:"reportId" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=pending reviewing resolved rejected"`
	AdminNotes string `json:"adminNotes"`
	Notes      string `json:"notes"`
}

func (b *board[T, R]) patchStatus(w http.ResponseWriter, r *http.Request) {
	var req statusPatch
	if err := apiresp.Decode(w, r, &req); err != nil {
		apiresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	notes := req.AdminNotes
	if notes == "" {
		notes = req.Notes
	}
	b.review(w, r, req.ReportID, models.ReportStatus(req.Status), notes, false)
}

func (b *board[T, R]) delete(w http.ResponseWriter, r *http.Request) {
	raw := query.Get(r, "reportId")
	if raw == "" {
		apiresp.Error(w, http.StatusBadRequest, "Missing reportId")
		return
	}
	b.review(w, r, raw, "", "", true)
}

func reviewer(r *http.Request) string {
	if u, ok := adminauth.FromContext(r.Context()); ok && u.Email != "" {
		return u.Email
	}
	return "admin"
}
