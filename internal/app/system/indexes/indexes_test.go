package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/menuhub/internal/app/system/indexes"
	"github.com/dalemusser/menuhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(ctx context.Context, t *testing.T, coll *mongo.Collection) map[string]bool {
	t.Helper()
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesExpectedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		collection string
		expected   []string
	}{
		{"users", []string{"uniq_users_email", "idx_users_role_nameci"}},
		{"menu_items", []string{"idx_menu_available_categoryci_nameci", "idx_menu_categoryci_nameci", "idx_menu_created_at"}},
		{"carts", []string{"uniq_carts_user"}},
		{"orders", []string{"idx_orders_user_created", "idx_orders_status_created", "idx_orders_created_at"}},
		{"audit_events", []string{"idx_audit_timestamp", "idx_audit_user_timestamp", "idx_audit_category_type_timestamp"}},
	}
	for _, tt := range tests {
		names := indexNames(ctx, t, db.Collection(tt.collection))
		for _, name := range tt.expected {
			if !names[name] {
				t.Errorf("expected index %q on %s", name, tt.collection)
			}
		}
	}
}

func TestEnsureAll_RenamesMisnamedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("legacy_created"),
	})
	if err != nil {
		t.Fatalf("seed index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(ctx, t, db.Collection("orders"))
	if names["legacy_created"] {
		t.Error("legacy index should have been renamed")
	}
	if !names["idx_orders_created_at"] {
		t.Error("expected idx_orders_created_at after rename")
	}
}

func TestEnsureAll_UniqueUpgradeFailsOnDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := db.Collection("users")
	for i := 0; i < 2; i++ {
		if _, err := users.InsertOne(ctx, bson.M{"email": "dup@example.com"}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	if err := indexes.EnsureAll(ctx, db); err == nil {
		t.Fatal("expected EnsureAll to report duplicate emails")
	}
}
