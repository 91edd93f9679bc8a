// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apiresp"
	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// List handles GET /api/admin/users?page=&limit=&filter=&search=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := userstore.ParseListFilter(query.Get(r, "filter"))
	if !ok {
		apiresp.Error(w, http.StatusBadRequest, "filter must be one of [all premium banned recent]")
		return
	}
	search := strings.TrimSpace(query.Get(r, "search"))
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users list")
	defer cancel()

	key := cache.Key("users", filter, search, page.Number, page.Limit)
	res, cached, err := cache.Fetch(ctx, h.Cache, key, listTTL, func(ctx context.Context) (listResult, error) {
		q := userstore.Query{Filter: filter, Search: search, Now: h.Now()}
		users, total, err := h.Store.List(ctx, q, page)
		if err != nil {
			return listResult{}, err
		}
		rows := make([]userRow, 0, len(users))
		for _, u := range users {
			rows = append(rows, toRow(u))
		}
		return listResult{
			Users:       rows,
			TotalUsers:  total,
			CurrentPage: page.Number,
			TotalPages:  paging.TotalPages(total, page.Limit),
		}, nil
	})
	if err != nil {
		apiresp.Internal(w, r, h.Log, "list users failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, listResponse{listResult: res, Cached: cached})
}
