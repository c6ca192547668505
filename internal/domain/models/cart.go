// internal/domain/models/cart.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart is the per-user shopping cart. There is at most one cart per user
// (unique index on user_id). It is created lazily on first add.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Items     []CartLine         `bson:"items" json:"items"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CartLine references a menu item by ID. Quantity is always >= 1.
type CartLine struct {
	MenuItemID primitive.ObjectID `bson:"menu_item_id" json:"menuItemId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}
