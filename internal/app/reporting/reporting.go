// Package reporting derives sales reports from a snapshot of orders, users,
// and menu items.
//
// Every function here is pure: callers load a Snapshot for a date range
// (see store/queries/reportqueries) and pass it in. Cancelled orders never
// contribute revenue or quantities; they still count toward status totals.
// Sums go through shopspring/decimal and are rounded to cents on output.
package reporting

import (
	"github.com/dalemusser/menuhub/internal/app/system/daterange"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report limits.
const (
	PopularItemsLimit  = 5
	CategoryTopItems   = 5
	TopSellersLimit    = 10
	UncategorizedLabel = "uncategorized"
)

// Snapshot is the input to every report. Orders are those created within
// the requested range, in any status. Users and MenuItems hold whatever
// could be resolved for the ids the orders reference.
type Snapshot struct {
	Orders    []models.Order
	Users     map[primitive.ObjectID]models.User
	MenuItems map[primitive.ObjectID]models.MenuItem
}

func counted(o models.Order) bool {
	return o.Status != models.OrderCancelled
}

func dayOf(o models.Order) string {
	return o.CreatedAt.UTC().Format(daterange.DayLayout)
}

// StatsReport is the response of the stats endpoint.
type StatsReport struct {
	Revenue        RevenueSummary `json:"revenue"`
	OrdersByStatus map[string]int `json:"ordersByStatus"`
	PopularItems   []PopularItem  `json:"popularItems"`
	DailyRevenue   []DailyRevenue `json:"dailyRevenue"`
}

// Stats builds the revenue, status, popular item, and daily revenue reports.
func Stats(s Snapshot) StatsReport {
	return StatsReport{
		Revenue:        Revenue(s.Orders),
		OrdersByStatus: OrdersByStatus(s.Orders),
		PopularItems:   PopularItems(s, PopularItemsLimit),
		DailyRevenue:   DailyRevenueSeries(s.Orders),
	}
}

// CategoryReport is the response of the category analysis endpoint.
type CategoryReport struct {
	CategoryAnalysis []CategoryStats `json:"categoryAnalysis"`
	CategoryTrends   []CategoryTrend `json:"categoryTrends"`
}

// Categories builds the per-category breakdown and its daily trends.
func Categories(s Snapshot) CategoryReport {
	return CategoryReport{
		CategoryAnalysis: CategoryAnalysis(s),
		CategoryTrends:   CategoryTrends(s),
	}
}

// UserReport is the response of the user analysis endpoint.
// UnresolvedUsers counts order owners with no user record; their orders
// appear in neither list.
type UserReport struct {
	UserOrderAnalysis  []UserOrderStats `json:"userOrderAnalysis"`
	UserActivityTrends []UserActivity   `json:"userActivityTrends"`
	UnresolvedUsers    int              `json:"unresolvedUsers"`
}

// Users builds the per-user order analysis and activity trends.
func Users(s Snapshot) UserReport {
	stats, unresolved := UserOrderAnalysis(s)
	return UserReport{
		UserOrderAnalysis:  stats,
		UserActivityTrends: UserActivityTrends(s),
		UnresolvedUsers:    unresolved,
	}
}
