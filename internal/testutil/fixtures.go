package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
	n  int
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// UserOpt customizes a fixture user.
type UserOpt func(*models.User)

func Premium(plan string, started time.Time) UserOpt {
	return func(u *models.User) {
		u.IsPremium = true
		u.PremiumType = plan
		u.PremiumStartedAt = &started
	}
}

func Banned() UserOpt {
	return func(u *models.User) { u.IsBanned = true }
}

func WithPushToken(tok string) UserOpt {
	return func(u *models.User) { u.PushToken = &tok }
}

func LastActive(at time.Time) UserOpt {
	return func(u *models.User) { u.LastActiveAt = &at }
}

func CreatedAt(at time.Time) UserOpt {
	return func(u *models.User) { u.CreatedAt = at }
}

func Minutes(n int64) UserOpt {
	return func(u *models.User) { u.TotalMinutes = n }
}

// CreateUser inserts a user with the given email.
func (f *Fixtures) CreateUser(ctx context.Context, email string, opts ...UserOpt) models.User {
	f.t.Helper()
	f.n++

	name, _, _ := strings.Cut(email, "@")
	u := models.User{
		ID:          fmt.Sprintf("uid-%04d", f.n),
		Email:       strings.ToLower(email),
		DisplayName: name,
		CreatedAt:   time.Now().UTC().Add(-time.Duration(f.n) * time.Minute),
	}
	for _, o := range opts {
		o(&u)
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateRoom inserts a room.
func (f *Fixtures) CreateRoom(ctx context.Context, name string, mutate func(*models.Room)) models.Room {
	f.t.Helper()

	r := models.Room{
		ID:        primitive.NewObjectID(),
		Name:      name,
		OwnerID:   "uid-owner",
		Category:  "Math",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if mutate != nil {
		mutate(&r)
	}
	if _, err := f.db.Collection("rooms").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test room: %v", err)
	}
	return r
}

// CreateUserReport inserts a pending user report.
func (f *Fixtures) CreateUserReport(ctx context.Context, reportedID string, status models.ReportStatus) models.UserReport {
	f.t.Helper()

	rep := models.UserReport{
		ID:             primitive.NewObjectID(),
		ReporterID:     "uid-reporter",
		ReportedUserID: reportedID,
		Reason:         "spam",
		ReportReview:   models.ReportReview{Status: status},
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := f.db.Collection(models.KindUserReport.Collection()).InsertOne(ctx, rep); err != nil {
		f.t.Fatalf("failed to create test report: %v", err)
	}
	return rep
}
