package menuitemstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/menuhub/internal/app/system/normalize"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errNegativePrice = errors.New("price must be >= 0")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("menu_items")}
}

var menuSort = bson.D{{Key: "category_ci", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}

// Create inserts m after normalizing name and category.
func (s *Store) Create(ctx context.Context, m models.MenuItem) (models.MenuItem, error) {
	if m.Price < 0 {
		return models.MenuItem{}, errNegativePrice
	}
	m.ID = primitive.NewObjectID()
	m.Name = normalize.Name(m.Name)
	m.NameCI = text.Fold(m.Name)
	m.Category = normalize.Category(m.Category)
	m.CategoryCI = text.Fold(m.Category)

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.MenuItem{}, err
	}
	return m, nil
}

// GetByID loads a menu item. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListAvailable returns available items sorted by category then name.
// A non-empty category restricts the result case-insensitively.
func (s *Store) ListAvailable(ctx context.Context, category string) ([]models.MenuItem, error) {
	filter := bson.M{"available": true}
	if category != "" {
		filter["category_ci"] = text.Fold(normalize.Category(category))
	}
	return s.find(ctx, filter)
}

// ListAll returns every item regardless of availability.
func (s *Store) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.MenuItem, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(menuSort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []models.MenuItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByIDs returns the items among ids keyed by ID, including unavailable
// ones. Missing ids are absent from the map.
func (s *Store) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MenuItem, error) {
	out := make(map[primitive.ObjectID]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var m models.MenuItem
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	return out, cur.Err()
}

// Update holds the fields of a partial update. Nil fields are left as is.
type Update struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *string
	Available   *bool
}

// Fields lists the names of the fields set on u, in a stable order.
func (u Update) Fields() []string {
	var out []string
	if u.Name != nil {
		out = append(out, "name")
	}
	if u.Description != nil {
		out = append(out, "description")
	}
	if u.Price != nil {
		out = append(out, "price")
	}
	if u.Category != nil {
		out = append(out, "category")
	}
	if u.Image != nil {
		out = append(out, "image")
	}
	if u.Available != nil {
		out = append(out, "available")
	}
	return out
}

// Update applies upd to the item and returns the updated document.
// Returns mongo.ErrNoDocuments if the item does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.MenuItem, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		if *upd.Price < 0 {
			return nil, errNegativePrice
		}
		set["price"] = *upd.Price
	}
	if upd.Category != nil {
		cat := normalize.Category(*upd.Category)
		set["category"] = cat
		set["category_ci"] = text.Fold(cat)
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Available != nil {
		set["available"] = *upd.Available
	}

	var m models.MenuItem
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes the item and returns it. Returns mongo.ErrNoDocuments if
// the item does not exist. Orders keep their line snapshots.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
