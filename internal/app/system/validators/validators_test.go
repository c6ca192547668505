package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/menuhub/internal/app/system/validators"
	"github.com/dalemusser/menuhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) *mongo.Database {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return db
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "menu_items", "carts", "orders", "audit_events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	valid := bson.M{"name": "Ann", "email": "ann@test.com", "password_hash": "x", "role": "user"}
	if _, err := db.Collection("users").InsertOne(ctx, valid); err != nil {
		t.Errorf("insert valid user failed: %v", err)
	}

	invalid := []bson.M{
		{"email": "nobody@test.com"},
		{"name": "Bob", "email": "bob@test.com", "password_hash": "x", "role": "root"},
		{"name": "   ", "email": "c@test.com", "password_hash": "x", "role": "user"},
	}
	for i, doc := range invalid {
		if _, err := db.Collection("users").InsertOne(ctx, doc); err == nil {
			t.Errorf("invalid user %d: expected validation error", i)
		}
	}
}

func TestMenuItemsValidator(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	valid := bson.M{"name": "Soup", "price": 4.5, "category": "Starters", "available": true}
	if _, err := db.Collection("menu_items").InsertOne(ctx, valid); err != nil {
		t.Errorf("insert valid item failed: %v", err)
	}
	free := bson.M{"name": "Water", "price": 0, "category": "Drinks", "available": true}
	if _, err := db.Collection("menu_items").InsertOne(ctx, free); err != nil {
		t.Errorf("insert zero-price item failed: %v", err)
	}

	invalid := []bson.M{
		{"name": "Soup", "price": -1.0, "category": "Starters", "available": true},
		{"name": "Soup", "price": "cheap", "category": "Starters", "available": true},
		{"name": "Soup", "price": 4.5, "available": true},
		{"name": "Soup", "price": 4.5, "category": "Starters", "available": "yes"},
	}
	for i, doc := range invalid {
		if _, err := db.Collection("menu_items").InsertOne(ctx, doc); err == nil {
			t.Errorf("invalid menu item %d: expected validation error", i)
		}
	}
}

func TestCartsValidator(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	line := bson.M{"menu_item_id": primitive.NewObjectID(), "quantity": 2}
	if _, err := db.Collection("carts").InsertOne(ctx, bson.M{"user_id": primitive.NewObjectID(), "items": bson.A{line}}); err != nil {
		t.Errorf("insert valid cart failed: %v", err)
	}
	if _, err := db.Collection("carts").InsertOne(ctx, bson.M{"user_id": primitive.NewObjectID(), "items": bson.A{}}); err != nil {
		t.Errorf("insert empty cart failed: %v", err)
	}

	zeroQty := bson.M{"menu_item_id": primitive.NewObjectID(), "quantity": 0}
	if _, err := db.Collection("carts").InsertOne(ctx, bson.M{"user_id": primitive.NewObjectID(), "items": bson.A{zeroQty}}); err == nil {
		t.Error("expected validation error for zero quantity")
	}
}

func TestOrdersValidator(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	order := func(status string, items bson.A, total float64) bson.M {
		return bson.M{
			"user_id":      primitive.NewObjectID(),
			"items":        items,
			"status":       status,
			"total_amount": total,
			"created_at":   time.Now().UTC(),
		}
	}
	line := bson.M{"menu_item_id": primitive.NewObjectID(), "name": "Soup", "price": 4.5, "quantity": 2}

	if _, err := db.Collection("orders").InsertOne(ctx, order("pending", bson.A{line}, 9)); err != nil {
		t.Errorf("insert valid order failed: %v", err)
	}

	invalid := []bson.M{
		order("shipped", bson.A{line}, 9),
		order("pending", bson.A{}, 0),
		order("pending", bson.A{line}, -1),
		order("pending", bson.A{bson.M{"menu_item_id": primitive.NewObjectID(), "quantity": 1}}, 1),
	}
	for i, doc := range invalid {
		if _, err := db.Collection("orders").InsertOne(ctx, doc); err == nil {
			t.Errorf("invalid order %d: expected validation error", i)
		}
	}
}
