// internal/app/features/rooms/rooms.go
package rooms

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/audit"
	roomstore "github.com/dalemusser/studyhub/internal/app/store/rooms"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type roomRow struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	HostID         string     `json:"hostId"`
	HostName       string     `json:"hostName"`
	MemberCount    int        `json:"memberCount"`
	IsPrivate      bool       `json:"isPrivate"`
	IsDisabled     bool       `json:"isDisabled"`
	Category       string     `json:"category"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastActivityAt *time.Time `json:"lastActivityAt"`
	HasReports     bool       `json:"hasReports"`
}

func toRow(r models.Room) roomRow {
	row := roomRow{
		ID:             r.ID.Hex(),
		Name:           r.Name,
		Description:    r.Description,
		HostID:         r.OwnerID,
		HostName:       r.OwnerName,
		MemberCount:    len(r.MemberIDs),
		IsPrivate:      r.IsPrivate,
		IsDisabled:     r.IsDisabled,
		Category:       r.Category,
		CreatedAt:      r.CreatedAt,
		LastActivityAt: r.LastActivityAt,
		HasReports:     r.HasReports,
	}
	if row.Name == "" {
		row.Name = "Unnamed Room"
	}
	if row.HostName == "" {
		row.HostName = "Unknown"
	}
	if row.Category == "" {
		row.Category = models.DefaultCategory
	}
	return row
}

type listResult struct {
	Rooms       []roomRow `json:"rooms"`
	TotalRooms  int64     `json:"totalRooms"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}

// List handles GET /api/admin/rooms?page=&limit=&filter=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := roomstore.ParseListFilter(query.Get(r, "filter"))
	if !ok {
		apiresp.Error(w, http.StatusBadRequest, "filter must be one of [all active private reported]")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "rooms list")
	defer cancel()

	key := cache.Key("rooms", filter, page.Number, page.Limit)
	res, cached, err := cache.Fetch(ctx, h.Cache, key, listTTL, func(ctx context.Context) (listResult, error) {
		rooms, total, err := h.Store.List(ctx, filter, h.Now(), page)
		if err != nil {
			return listResult{}, err
		}
		rows := make([]roomRow, 0, len(rooms))
		for _, rm := range rooms {
			rows = append(rows, toRow(rm))
		}
		return listResult{Rooms: rows, TotalRooms: total, CurrentPage: page.Number, TotalPages: paging.TotalPages(total, page.Limit)}, nil
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "list rooms failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, struct {
		listResult
		Cached bool `json:"cached"`
	}{res, cached})
}

// Action is a rooms PATCH verb.
type Action string

const (
	ActionDisable Action = "disable"
	ActionEnable  Action = "enable"
)

type updateRequest struct {
	RoomID string `json:"roomId" validate:"required"`
	Action Action `json:"action" validate:"required,oneof=disable enable"`
}

// Update handles PATCH /api/admin/rooms {roomId, action}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := apiresp.Decode(w, r, &req); err != nil {
		apiresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(req.RoomID)
	if err != nil {
		apiresp.Error(w, http.StatusBadRequest, "roomId is invalid")
		return
	}

	var disabled bool
	var action string
	switch req.Action {
	case ActionDisable:
		disabled, action = true, audit.ActionRoomDisabled
	case ActionEnable:
		disabled, action = false, audit.ActionRoomEnabled
	default:
		apiresp.Error(w, http.StatusBadRequest, "Invalid action")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "rooms update")
	defer cancel()

	if err := h.Store.SetDisabled(ctx, id, disabled, h.Now()); err != nil {
		h.mutationError(w, r, err)
		return
	}
	h.Cache.Clear(ctx)
	h.Audit.Admin(r, action, "room", req.RoomID, nil)
	apiresp.Success(w)
}

// Delete handles DELETE /api/admin/rooms?roomId=.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	raw := query.Get(r, "roomId")
	if raw == "" {
		apiresp.Error(w, http.StatusBadRequest, "Missing roomId")
		return
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		apiresp.Error(w, http.StatusBadRequest, "roomId is invalid")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "rooms delete")
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		h.mutationError(w, r, err)
		return
	}
	h.Cache.Clear(ctx)
	h.Audit.Admin(r, audit.ActionRoomDeleted, "room", raw, nil)
	apiresp.Success(w)
}

func (h *Handler) mutationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, roomstore.ErrNotFound) {
		apiresp.Error(w, http.StatusNotFound, "Room not found")
		return
	}
	apiresp.Internal(w, r, h.Log, "update room failed", err)
}
