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

	sets := []struct {
		name   string
		ensure func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"menu_items", ensureMenuItems},
		{"carts", ensureCarts},
		{"orders", ensureOrders},
		{"audit_events", ensureAuditEvents},
	}
	for _, s := range sets {
		if err := s.ensure(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
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
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
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

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

// listExisting maps key signature -> index for coll.
func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// duplicateHint explains how to find rows blocking a unique index.
func duplicateHint(coll, sig string) string {
	field, _, _ := strings.Cut(sig, ":")
	return fmt.Sprintf(" (duplicates exist on %s.%s; find them with "+
		`db.%s.aggregate([{ $group: { _id: "$%s", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }]))`,
		coll, field, coll, field)
}

// recreate drops ex and creates m in its place.
func recreate(ctx context.Context, coll *mongo.Collection, ex existingIndex, m mongo.IndexModel, desiredName, sig string, unique bool) error {
	if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
		return fmt.Errorf("%s(%s): drop %s failed: %w", coll.Name(), desiredName, ex.Name, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if unique && isDuplicateKeyErr(err) {
			return fmt.Errorf("%s(%s): cannot create unique index%s", coll.Name(), desiredName, duplicateHint(coll.Name(), sig))
		}
		return fmt.Errorf("%s(%s): %w", coll.Name(), desiredName, err)
	}
	return nil
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
		unique := desiredUnique != nil && *desiredUnique
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique))

		existing, err := listExisting(ctx, coll)
		if err != nil {
			// Collection may not exist yet; CreateOne below creates it.
			existing = map[string]existingIndex{}
		}

		if ex, ok := existing[desiredSig]; ok {
			switch {
			case sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName):
				log.Debug("reusing existing index", zap.Duration("took", time.Since(start)))
			case sameBoolPtr(desiredUnique, ex.Unique):
				log.Info("renaming index to align with desired name", zap.String("from", ex.Name))
				if err := recreate(ctx, coll, ex, m, desiredName, desiredSig, unique); err != nil {
					log.Warn("index rename failed", zap.Error(err))
					errs = append(errs, err.Error())
				}
			default:
				// Options mismatch (e.g. upgrading to unique).
				log.Info("recreating index with new options", zap.String("existing", ex.Name))
				if err := recreate(ctx, coll, ex, m, desiredName, desiredSig, unique); err != nil {
					log.Warn("index recreate failed", zap.Error(err))
					errs = append(errs, err.Error())
				}
			}
			continue
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err == nil {
			log.Info("index ensured",
				zap.String("created_name", created),
				zap.Duration("took", time.Since(start)))
			continue
		}
		if isOptionsConflictErr(err) {
			// Lost a race with another instance; reconcile against what is there now.
			if now, lerr := listExisting(ctx, coll); lerr == nil {
				if match, ok := now[desiredSig]; ok {
					if sameBoolPtr(desiredUnique, match.Unique) {
						log.Info("reusing existing index (post-conflict)", zap.String("existing", match.Name))
						continue
					}
					if rerr := recreate(ctx, coll, match, m, desiredName, desiredSig, unique); rerr != nil {
						errs = append(errs, rerr.Error())
					}
					continue
				}
			}
		}
		if unique && isDuplicateKeyErr(err) {
			errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index%s", coll.Name(), desiredName, duplicateHint(coll.Name(), desiredSig)))
			continue
		}
		log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
		errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		// Login and registration look users up by email.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_users_role_nameci"),
		},
	})
}

func ensureMenuItems(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("menu_items"), []mongo.IndexModel{
		// Public menu: available items by category, then name.
		{
			Keys: bson.D{
				{Key: "available", Value: 1},
				{Key: "category_ci", Value: 1},
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_menu_available_categoryci_nameci"),
		},
		// Admin listing (all items) uses the same order without the filter.
		{
			Keys:    bson.D{{Key: "category_ci", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_menu_categoryci_nameci"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_menu_created_at"),
		},
	})
}

func ensureCarts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("carts"), []mongo.IndexModel{
		// One cart per user; the upsert in Add relies on this.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_carts_user"),
		},
	})
}

func ensureOrders(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("orders"), []mongo.IndexModel{
		// A user's order history, newest first.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_orders_user_created"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_orders_status_created"),
		},
		// Report range scans.
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_orders_created_at"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_type_timestamp"),
		},
	})
}
