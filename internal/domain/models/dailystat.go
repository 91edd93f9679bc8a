// internal/domain/models/dailystat.go
package models

// DailyStat is one user's study activity on one calendar day.
type DailyStat struct {
	UserID   string `bson:"user_id" json:"user_id"`
	Date     string `bson:"date" json:"date"` // YYYY-MM-DD, UTC
	Minutes  int64  `bson:"minutes" json:"minutes"`
	Sessions int64  `bson:"sessions" json:"sessions"`
}
