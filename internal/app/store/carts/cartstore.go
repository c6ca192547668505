// Package cartstore persists per-user carts.
//
// Every mutation is a single atomic update on the user's cart document;
// nothing is read, modified in memory, and written back.
package cartstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/menuhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrLineNotFound is returned when the user has no cart or the cart has
	// no line for the menu item.
	ErrLineNotFound = errors.New("item is not in the cart")
	// ErrBadQuantity is returned for quantities below 1.
	ErrBadQuantity = errors.New("quantity must be at least 1")
	// ErrQuantityLimit is returned when a line would exceed
	// models.MaxLineQuantity.
	ErrQuantityLimit = errors.New("quantity must not exceed 1000")
	errAddContended = errors.New("cart add did not settle after retries")
)

// addAttempts bounds the $inc / upsert loop in Add.
const addAttempts = 3

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("carts")}
}

// Get returns the user's cart. Returns mongo.ErrNoDocuments if the user has
// never added anything.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var c models.Cart
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&c); err != nil {
		return nil, err
	}
	if c.Items == nil {
		c.Items = []models.CartLine{}
	}
	return &c, nil
}

// Add increases the quantity of menuItemID in the user's cart by qty,
// appending a new line (and creating the cart) when needed.
//
// It first tries $inc on an existing line. If no line matched it pushes a
// new line with an upsert guarded by "line absent". Two concurrent first
// adds race on the unique user_id index; the loser sees a duplicate key and
// goes back to the $inc, which now matches.
//
// A line never grows past models.MaxLineQuantity; such an add returns
// ErrQuantityLimit and leaves the line unchanged.
func (s *Store) Add(ctx context.Context, userID, menuItemID primitive.ObjectID, qty int) error {
	if qty < 1 {
		return ErrBadQuantity
	}
	if qty > models.MaxLineQuantity {
		return ErrQuantityLimit
	}
	room := models.MaxLineQuantity - qty

	for attempt := 0; attempt < addAttempts; attempt++ {
		now := time.Now().UTC()

		res, err := s.c.UpdateOne(ctx,
			bson.M{"user_id": userID, "items": bson.M{"$elemMatch": bson.M{
				"menu_item_id": menuItemID,
				"quantity":     bson.M{"$lte": room},
			}}},
			bson.M{
				"$inc": bson.M{"items.$.quantity": qty},
				"$set": bson.M{"updated_at": now},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}

		// The line may exist with too little room for qty.
		full, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID, "items": bson.M{"$elemMatch": bson.M{
			"menu_item_id": menuItemID,
			"quantity":     bson.M{"$gt": room},
		}}})
		if err != nil {
			return err
		}
		if full > 0 {
			return ErrQuantityLimit
		}

		_, err = s.c.UpdateOne(ctx,
			bson.M{"user_id": userID, "items.menu_item_id": bson.M{"$ne": menuItemID}},
			bson.M{
				"$push": bson.M{"items": models.CartLine{MenuItemID: menuItemID, Quantity: qty}},
				"$set":  bson.M{"updated_at": now},
			},
			options.Update().SetUpsert(true))
		if err == nil {
			return nil
		}
		if !wafflemongo.IsDup(err) {
			return err
		}
	}
	return errAddContended
}

// SetQuantity replaces the quantity on an existing line.
func (s *Store) SetQuantity(ctx context.Context, userID, menuItemID primitive.ObjectID, qty int) error {
	if qty < 1 {
		return ErrBadQuantity
	}
	if qty > models.MaxLineQuantity {
		return ErrQuantityLimit
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "items.menu_item_id": menuItemID},
		bson.M{"$set": bson.M{
			"items.$.quantity": qty,
			"updated_at":       time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrLineNotFound
	}
	return nil
}

// RemoveItem drops the line for menuItemID.
func (s *Store) RemoveItem(ctx context.Context, userID, menuItemID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "items.menu_item_id": menuItemID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"menu_item_id": menuItemID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrLineNotFound
	}
	return nil
}

// Clear empties the user's cart. A user without a cart is not an error.
func (s *Store) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"items":      []models.CartLine{},
			"updated_at": time.Now().UTC(),
		}})
	return err
}
