// internal/app/features/users/types.go
package users

import (
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
)

// userRow is one user as shown in the admin table.
type userRow struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	PhotoURL     string     `json:"photoURL,omitempty"`
	IsPremium    bool       `json:"isPremium"`
	IsBanned     bool       `json:"isBanned"`
	TotalMinutes int64      `json:"totalMinutes"`
	CreatedAt    *time.Time `json:"createdAt"`
	LastActiveAt *time.Time `json:"lastActiveAt"`
}

func toRow(u models.User) userRow {
	name := u.DisplayName
	if name == "" {
		name = "Unnamed"
	}
	row := userRow{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  name,
		PhotoURL:     u.PhotoURL,
		IsPremium:    u.IsPremium,
		IsBanned:     u.IsBanned,
		TotalMinutes: u.TotalMinutes,
		LastActiveAt: u.LastActiveAt,
	}
	if !u.CreatedAt.IsZero() {
		c := u.CreatedAt
		row.CreatedAt = &c
	}
	return row
}

type listResult struct {
	Users       []userRow `json:"users"`
	TotalUsers  int64     `json:"totalUsers"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}

type listResponse struct {
	listResult
	Cached bool `json:"cached"`
}

// Action is a users PATCH verb.
type Action string

const (
	ActionBan        Action = "ban"
	ActionUnban      Action = "unban"
	ActionSetPremium Action = "setPremium"
	ActionDelete     Action = "delete"
)

type premiumData struct {
	IsPremium    bool       `json:"isPremium"`
	PremiumUntil *time.Time `json:"premiumUntil"`
}

type updateRequest struct {
	UserID string       `json:"userId" validate:"required"`
	Action Action       `json:"action" validate:"required,oneof=ban unban setPremium delete"`
	Data   *premiumData `json:"data"`
}
