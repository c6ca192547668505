package orderstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/menuhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// List limits.
const (
	DefaultListLimit = 100
	MaxListLimit     = 200
)

var (
	errNoLines   = errors.New("order must have at least one line")
	errBadStatus = errors.New(`status must be "pending"|"processing"|"completed"|"cancelled"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("orders")}
}

// Create inserts o. Status defaults to pending. Lines and TotalAmount are
// stored as given; callers compute them.
func (s *Store) Create(ctx context.Context, o models.Order) (models.Order, error) {
	if len(o.Items) == 0 {
		return models.Order{}, errNoLines
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	if !models.IsValidOrderStatus(o.Status) {
		return models.Order{}, errBadStatus
	}
	o.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// GetByID loads an order. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListFilter narrows List. Zero values mean "any".
type ListFilter struct {
	UserID *primitive.ObjectID
	Status string
	Start  *time.Time
	End    *time.Time
	Limit  int64
}

// ClampLimit applies the default and the maximum to n.
func ClampLimit(n int64) int64 {
	switch {
	case n <= 0:
		return DefaultListLimit
	case n > MaxListLimit:
		return MaxListLimit
	}
	return n
}

// List returns orders matching f, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Order, error) {
	q := bson.M{}
	if f.UserID != nil {
		q["user_id"] = *f.UserID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Start != nil || f.End != nil {
		tq := bson.M{}
		if f.Start != nil {
			tq["$gte"] = *f.Start
		}
		if f.End != nil {
			tq["$lte"] = *f.End
		}
		q["created_at"] = tq
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(ClampLimit(f.Limit))

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the order's status and returns the updated order along
// with the status it replaced. Returns mongo.ErrNoDocuments if not found.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, string, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, "", errBadStatus
	}
	now := time.Now().UTC()

	var before models.Order
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if err != nil {
		return nil, "", err
	}

	prev := before.Status
	after := before
	after.Status = status
	after.UpdatedAt = now
	return &after, prev, nil
}
