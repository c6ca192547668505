// Package reportqueries provides read-only queries that feed the reports.
package reportqueries

import (
	"context"
	"fmt"

	"github.com/dalemusser/menuhub/internal/app/reporting"
	menuitemstore "github.com/dalemusser/menuhub/internal/app/store/menuitems"
	userstore "github.com/dalemusser/menuhub/internal/app/store/users"
	"github.com/dalemusser/menuhub/internal/app/system/daterange"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoadSnapshot reads every order created within r plus the users and menu
// items those orders reference. Missing users or items are simply absent
// from the maps.
func LoadSnapshot(ctx context.Context, db *mongo.Database, r daterange.Range) (reporting.Snapshot, error) {
	filter := bson.M{"created_at": bson.M{"$gte": r.Start, "$lte": r.End}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := db.Collection("orders").Find(ctx, filter, opts)
	if err != nil {
		return reporting.Snapshot{}, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return reporting.Snapshot{}, fmt.Errorf("decode orders: %w", err)
	}

	userSeen := make(map[primitive.ObjectID]struct{})
	itemSeen := make(map[primitive.ObjectID]struct{})
	var userIDs, itemIDs []primitive.ObjectID
	for _, o := range orders {
		if _, ok := userSeen[o.UserID]; !ok {
			userSeen[o.UserID] = struct{}{}
			userIDs = append(userIDs, o.UserID)
		}
		for _, l := range o.Items {
			if _, ok := itemSeen[l.MenuItemID]; !ok {
				itemSeen[l.MenuItemID] = struct{}{}
				itemIDs = append(itemIDs, l.MenuItemID)
			}
		}
	}

	users, err := userstore.New(db).FindByIDs(ctx, userIDs)
	if err != nil {
		return reporting.Snapshot{}, fmt.Errorf("load users: %w", err)
	}
	items, err := menuitemstore.New(db).FindByIDs(ctx, itemIDs)
	if err != nil {
		return reporting.Snapshot{}, fmt.Errorf("load menu items: %w", err)
	}

	return reporting.Snapshot{Orders: orders, Users: users, MenuItems: items}, nil
}

// TopSeller is one row of the all-time best sellers list.
type TopSeller struct {
	MenuItemID  primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	TotalOrders int                `bson:"total_orders" json:"totalOrders"`
}

// TopSellers returns the limit menu items with the most units sold across
// all non-cancelled orders. Names come from the order line snapshots, so
// deleted items still appear. The aggregation runs server-side.
func TopSellers(ctx context.Context, db *mongo.Database, limit int) ([]TopSeller, error) {
	if limit <= 0 {
		limit = reporting.TopSellersLimit
	}

	pipeline := []bson.M{
		{"$match": bson.M{"status": bson.M{"$ne": models.OrderCancelled}}},
		{"$unwind": "$items"},
		{"$group": bson.M{
			"_id":          "$items.menu_item_id",
			"name":         bson.M{"$first": "$items.name"},
			"total_orders": bson.M{"$sum": "$items.quantity"},
		}},
		{"$sort": bson.D{{Key: "total_orders", Value: -1}, {Key: "_id", Value: 1}}},
		{"$limit": limit},
	}

	cur, err := db.Collection("orders").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []TopSeller{}
	for cur.Next(ctx) {
		var row TopSeller
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, cur.Err()
}
