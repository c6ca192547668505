// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/menuhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Mongo server error codes handled when creating collections and validators.
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotImplemented  = 115
)

// EnsureAll creates the app's collections (if missing) and attaches
// JSON-Schema validators. Servers that reject collMod (some DocumentDB
// versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if hasCode(err, codeCommandNotFound, "no such command") ||
				hasCode(err, codeNotImplemented, "not implemented", "not supported") {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("menu_items", menuItemsSchema())
	ensure("carts", cartsSchema())
	ensure("orders", ordersSchema())

	// Written only by the audit logger; no validator.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		return nil
	}
	// Listing failed or the collection is missing; create and tolerate a race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if hasCode(err, codeNamespaceExists, "already exists", "namespace exists") {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

// hasCode reports whether err is a command error with the given code or
// whose message contains one of the fragments.
func hasCode(err error, code int32, fragments ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, f := range fragments {
		if strings.Contains(msg, f) {
			return true
		}
	}
	return false
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	number   = bson.A{"double", "int", "long", "decimal"}
	integer  = bson.A{"int", "long"}
)

func enumOf(values ...string) bson.A {
	out := make(bson.A, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "password_hash", "role"},
			"properties": bson.M{
				"name":          nonBlank,
				"name_ci":       bson.M{"bsonType": "string"},
				"email":         nonBlank,
				"password_hash": nonBlank,
				"role":          bson.M{"enum": enumOf(models.RoleUser, models.RoleModerator, models.RoleAdmin)},
				"created_at":    bson.M{"bsonType": "date"},
				"updated_at":    bson.M{"bsonType": "date"},
			},
		},
	}
}

func menuItemsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "price", "category", "available"},
			"properties": bson.M{
				"name":        nonBlank,
				"name_ci":     bson.M{"bsonType": "string"},
				"description": bson.M{"bsonType": "string"},
				"price":       bson.M{"bsonType": number, "minimum": 0},
				"category":    nonBlank,
				"category_ci": bson.M{"bsonType": "string"},
				"image":       bson.M{"bsonType": "string"},
				"available":   bson.M{"bsonType": "bool"},
			},
		},
	}
}

func lineSchema(required bson.A, extra bson.M) bson.M {
	props := bson.M{
		"menu_item_id": bson.M{"bsonType": "objectId"},
		"quantity":     bson.M{"bsonType": integer, "minimum": 1, "maximum": models.MaxLineQuantity},
	}
	for k, v := range extra {
		props[k] = v
	}
	return bson.M{"bsonType": "object", "required": required, "properties": props}
}

func cartsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "items"},
			"properties": bson.M{
				"user_id": bson.M{"bsonType": "objectId"},
				"items": bson.M{
					"bsonType": "array",
					"items":    lineSchema(bson.A{"menu_item_id", "quantity"}, nil),
				},
			},
		},
	}
}

func ordersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "items", "status", "total_amount", "created_at"},
			"properties": bson.M{
				"user_id": bson.M{"bsonType": "objectId"},
				"items": bson.M{
					"bsonType": "array",
					"minItems": 1,
					"items": lineSchema(bson.A{"menu_item_id", "name", "price", "quantity"}, bson.M{
						"name":     bson.M{"bsonType": "string"},
						"price":    bson.M{"bsonType": number, "minimum": 0},
						"category": bson.M{"bsonType": "string"},
					}),
				},
				"status":       bson.M{"enum": enumOf(models.OrderStatuses...)},
				"total_amount": bson.M{"bsonType": number, "minimum": 0},
				"created_at":   bson.M{"bsonType": "date"},
			},
		},
	}
}
