// internal/domain/models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// MaxLineQuantity caps the quantity of a single cart or order line.
const MaxLineQuantity = 1000

// OrderStatuses lists the canonical statuses in lifecycle order.
var OrderStatuses = []string{OrderPending, OrderProcessing, OrderCompleted, OrderCancelled}

// IsValidOrderStatus reports whether s is a canonical order status.
func IsValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is a placed order.
//
// Items are snapshots taken when the order is created; later menu edits do
// not change them. TotalAmount is computed once at creation.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	Items       []OrderLine        `bson:"items" json:"items"`
	Status      string             `bson:"status" json:"status"`
	TotalAmount float64            `bson:"total_amount" json:"totalAmount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// OrderLine is an immutable snapshot of a menu item at order time.
// Category may be empty on orders written before categories were captured.
type OrderLine struct {
	MenuItemID primitive.ObjectID `bson:"menu_item_id" json:"menuItemId"`
	Name       string             `bson:"name" json:"name"`
	Price      float64            `bson:"price" json:"price"`
	Category   string             `bson:"category,omitempty" json:"category,omitempty"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}
