// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureLogins(ctx, db); err != nil {
		problems = append(problems, "logins: "+err.Error())
	}
	if err := ensureSubmissions(ctx, db); err != nil {
		problems = append(problems, "pending_submissions: "+err.Error())
	}
	if err := ensureNews(ctx, db); err != nil {
		problems = append(problems, "news: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

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

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors).
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // key signature -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		existing, err := listExisting(ctx, coll)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): list failed: %v", coll.Name(), desiredName, err))
			continue
		}

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}
			// Name or options differ: drop and recreate with the desired shape.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf(
					"%s(%s): cannot create unique index, duplicates present on %s",
					coll.Name(), desiredName, desiredSig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("members")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// The serial-number allocator relies on this index arbitrating
		// concurrent max+1 allocations.
		{
			Keys:    bson.D{{Key: "ser_no", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_members_serno"),
		},
		// Search path: folded full-name prefix with stable tiebreak.
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_members_fullnameci__id"),
		},
		// Vansh-scoped listings.
		{
			Keys:    bson.D{{Key: "vansh_number", Value: 1}, {Key: "ser_no", Value: 1}},
			Options: options.Index().SetName("idx_members_vansh_serno"),
		},
		// Email lookup during credential checks.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_members_email"),
		},
	})
}

func ensureLogins(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("logins")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_logins_username"),
		},
		// Sparse: legacy credentials without an email must not collide
		// on the missing key.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_logins_email"),
		},
		{
			Keys:    bson.D{{Key: "member_ser_no", Value: 1}},
			Options: options.Index().SetName("idx_logins_member_serno"),
		},
	})
}

func ensureSubmissions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("pending_submissions")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Admin queue: pending first, newest first.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "submitted_at", Value: -1}},
			Options: options.Index().SetName("idx_subs_status_submitted"),
		},
		// Kind-scoped queues (hierarchy forms vs temp members).
		{
			Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_subs_kind_status"),
		},
	})
}

func ensureNews(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("news")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_published", Value: 1}, {Key: "date_posted", Value: -1}},
			Options: options.Index().SetName("idx_news_published_posted"),
		},
		// Multikey over the vansh visibility list.
		{
			Keys:    bson.D{{Key: "visible_vansh_numbers", Value: 1}},
			Options: options.Index().SetName("idx_news_vansh"),
		},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_published", Value: 1}, {Key: "event_date", Value: -1}},
			Options: options.Index().SetName("idx_events_published_date"),
		},
		{
			Keys:    bson.D{{Key: "visible_vansh_numbers", Value: 1}},
			Options: options.Index().SetName("idx_events_vansh"),
		},
	})
}
