// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Spec is the desired index set of one collection.
type Spec struct {
	Collection string
	Models     []mongo.IndexModel
}

/*
EnsureAll is called at startup. Every collection is reconciled even when an
earlier one fails; the problems are joined so startup fails with all of them
visible at once.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, s := range Specs() {
		if err := ensureIndexSet(ctx, db.Collection(s.Collection), s.Models, logger); err != nil {
			problems = append(problems, s.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Specs lists the indexes behind the admin lists, counters and aggregates.
func Specs() []Spec {
	reportSet := func(kind models.ReportKind, roomScoped bool) Spec {
		m := []mongo.IndexModel{
			named("idx_reports_status_created", bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}),
			named("idx_reports_created", bson.D{{Key: "created_at", Value: -1}}),
		}
		if roomScoped {
			m = append(m, named("idx_reports_room_created", bson.D{{Key: "room_id", Value: 1}, {Key: "created_at", Value: -1}}))
		}
		return Spec{Collection: kind.Collection(), Models: m}
	}

	return []Spec{
		{Collection: "users", Models: []mongo.IndexModel{
			named("idx_users_email", bson.D{{Key: "email", Value: 1}}),
			named("idx_users_display_name", bson.D{{Key: "display_name", Value: 1}}),
			named("idx_users_created", bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}),
			named("idx_users_last_active", bson.D{{Key: "last_active_at", Value: -1}}),
			named("idx_users_premium", bson.D{{Key: "is_premium", Value: 1}, {Key: "premium_started_at", Value: -1}}),
			named("idx_users_banned", bson.D{{Key: "is_banned", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{Collection: "rooms", Models: []mongo.IndexModel{
			named("idx_rooms_created", bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}),
			named("idx_rooms_active", bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}}),
			named("idx_rooms_category", bson.D{{Key: "category", Value: 1}}),
		}},
		reportSet(models.KindUserReport, false),
		reportSet(models.KindMessageReport, true),
		reportSet(models.KindRoomUserReport, true),
		{Collection: "daily_stats", Models: []mongo.IndexModel{
			named("idx_daily_stats_date", bson.D{{Key: "date", Value: 1}}),
		}},
	}
}

func named(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolValue(b *bool) bool { return b != nil && *b }

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection, logger *zap.Logger) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			logger.Warn("failed to decode existing index", zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

// ensureIndexSet reconciles the desired indexes of one collection:
//   - same keys, same options, same name: reuse
//   - same keys under another name or with other options: drop and recreate
//   - missing: create
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel, logger *zap.Logger) error {
	existing := listExisting(ctx, coll, logger)
	var errs []string

	for _, m := range want {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := logger.With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolValue(unique)))

		if ex, ok := existing[sig]; ok {
			if boolValue(unique) == boolValue(ex.Unique) && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index")
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if isOptionsConflictErr(err) {
			// Created concurrently by another instance between List and CreateOne.
			if ex, ok := listExisting(ctx, coll, logger)[sig]; ok && boolValue(unique) == boolValue(ex.Unique) {
				log.Info("reusing existing index (post-conflict)", zap.String("existing", ex.Name))
				continue
			}
		}
		if err != nil {
			log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		log.Info("index ensured", zap.String("created_name", created), zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
