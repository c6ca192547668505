// internal/domain/models/menuitem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuItem is a dish or drink customers can order.
//
// Price is stored as a float64 in the currency's major unit. Totals derived
// from prices are computed with decimal arithmetic and rounded to cents.
type MenuItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	CategoryCI  string             `bson:"category_ci" json:"-"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Available   bool               `bson:"available" json:"available"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
