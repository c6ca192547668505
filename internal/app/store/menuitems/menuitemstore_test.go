package menuitemstore_test

import (
	"errors"
	"testing"

	menuitemstore "github.com/dalemusser/menuhub/internal/app/store/menuitems"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/dalemusser/menuhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func ptr[T any](v T) *T { return &v }

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := menuitemstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.MenuItem{
		Name:        "  Tomato   Soup ",
		Description: "Warm",
		Price:       4.5,
		Category:    " Starters ",
		Available:   true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Name != "Tomato Soup" || created.Category != "Starters" {
		t.Errorf("fields not normalized: %+v", created)
	}
	if created.NameCI == "" || created.CategoryCI == "" {
		t.Error("expected folded fields")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Price != 4.5 || !got.Available {
		t.Errorf("unexpected item: %+v", got)
	}

	if _, err := store.Create(ctx, models.MenuItem{Name: "Bad", Price: -1}); err == nil {
		t.Error("expected error for negative price")
	}
}

func TestStore_ListAvailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := menuitemstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMenuItem(ctx, "Tiramisu", "Desserts", 6)
	fx.CreateMenuItem(ctx, "Bruschetta", "Starters", 5)
	fx.CreateMenuItem(ctx, "Arancini", "Starters", 5.5)
	fx.CreateMenuItemWith(ctx, models.MenuItem{Name: "Seasonal", Category: "Starters", Price: 7, Available: false})

	items, err := store.ListAvailable(ctx, "")
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	want := []string{"Tiramisu", "Arancini", "Bruschetta"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, names[i], want[i])
		}
	}

	starters, err := store.ListAvailable(ctx, "STARTERS")
	if err != nil {
		t.Fatalf("ListAvailable(category): %v", err)
	}
	if len(starters) != 2 {
		t.Errorf("expected 2 available starters, got %d", len(starters))
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 items in ListAll, got %d", len(all))
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := menuitemstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	item := fx.CreateMenuItem(ctx, "Soup", "Starters", 4)

	upd := menuitemstore.Update{Price: ptr(5.25), Available: ptr(false)}
	got, err := store.Update(ctx, item.ID, upd)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Price != 5.25 || got.Available {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Name != "Soup" || got.Description != item.Description {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if f := upd.Fields(); len(f) != 2 || f[0] != "price" || f[1] != "available" {
		t.Errorf("Fields() = %v", f)
	}

	_, err = store.Update(ctx, primitive.NewObjectID(), menuitemstore.Update{Name: ptr("X")})
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
	if _, err := store.Update(ctx, item.ID, menuitemstore.Update{Price: ptr(-2.0)}); err == nil {
		t.Error("expected error for negative price")
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := menuitemstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	item := fx.CreateMenuItem(ctx, "Soup", "Starters", 4)

	deleted, err := store.Delete(ctx, item.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Name != "Soup" {
		t.Errorf("deleted = %+v", deleted)
	}
	if _, err := store.Delete(ctx, item.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second delete: expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_FindByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := menuitemstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateMenuItem(ctx, "A", "X", 1)
	b := fx.CreateMenuItemWith(ctx, models.MenuItem{Name: "B", Category: "X", Price: 2, Available: false})

	got, err := store.FindByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("FindByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 items (unavailable included), got %d", len(got))
	}
}
