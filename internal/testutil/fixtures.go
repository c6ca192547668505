package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/menuhub/internal/app/system/authutil"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FixturePassword is the plain password of users made by CreateUser.
const FixturePassword = "correct-horse-battery"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
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

// CreateUser inserts a user with FixturePassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword(FixturePassword)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateMenuItem inserts an available menu item.
func (f *Fixtures) CreateMenuItem(ctx context.Context, name, category string, price float64) models.MenuItem {
	f.t.Helper()
	return f.CreateMenuItemWith(ctx, models.MenuItem{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Category:    category,
		Available:   true,
	})
}

// CreateMenuItemWith inserts m, filling ID, folded fields and timestamps.
func (f *Fixtures) CreateMenuItemWith(ctx context.Context, m models.MenuItem) models.MenuItem {
	f.t.Helper()

	now := time.Now().UTC()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.NameCI = text.Fold(m.Name)
	m.CategoryCI = text.Fold(m.Category)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	if _, err := f.db.Collection("menu_items").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test menu item: %v", err)
	}
	return m
}

// CreateOrder inserts an order for userID at createdAt. TotalAmount is
// computed from the lines.
func (f *Fixtures) CreateOrder(ctx context.Context, userID primitive.ObjectID, status string, createdAt time.Time, lines ...models.OrderLine) models.Order {
	f.t.Helper()

	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	o := models.Order{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Items:       lines,
		Status:      status,
		TotalAmount: total,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   createdAt.UTC(),
	}
	if _, err := f.db.Collection("orders").InsertOne(ctx, o); err != nil {
		f.t.Fatalf("failed to create test order: %v", err)
	}
	return o
}

// Line builds an order line snapshot from a menu item.
func Line(m models.MenuItem, qty int) models.OrderLine {
	return models.OrderLine{
		MenuItemID: m.ID,
		Name:       m.Name,
		Price:      m.Price,
		Category:   m.Category,
		Quantity:   qty,
	}
}
