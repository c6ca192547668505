package reporting

import (
	"sort"
	"time"

	"github.com/dalemusser/menuhub/internal/app/system/money"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserOrderStats summarizes one user's orders in the range.
//
// TotalOrders, StatusCounts, and LastOrderDate cover every order.
// TotalSpent excludes cancelled orders and AverageOrderValue divides it by
// the non-cancelled count.
type UserOrderStats struct {
	UserID            primitive.ObjectID `json:"userId"`
	UserName          string             `json:"userName"`
	Email             string             `json:"email"`
	TotalOrders       int                `json:"totalOrders"`
	TotalSpent        float64            `json:"totalSpent"`
	AverageOrderValue float64            `json:"averageOrderValue"`
	LastOrderDate     time.Time          `json:"lastOrderDate"`
	StatusCounts      map[string]int     `json:"statusCounts"`
}

// UserActivity is the daily series for one user.
type UserActivity struct {
	UserID        primitive.ObjectID `json:"userId"`
	UserName      string             `json:"userName"`
	ActivityTrend []ActivityPoint    `json:"activityTrend"`
}

// ActivityPoint is one day of a user's activity. Orders counts every order;
// Spent excludes cancelled ones.
type ActivityPoint struct {
	Date   string  `json:"date"`
	Orders int     `json:"orders"`
	Spent  float64 `json:"spent"`
}

func newStatusCounts() map[string]int {
	m := make(map[string]int, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		m[s] = 0
	}
	return m
}

// UserOrderAnalysis groups orders by owner, sorted by TotalSpent descending.
// Owners without a user record are dropped; their count is returned as the
// second value.
func UserOrderAnalysis(s Snapshot) ([]UserOrderStats, int) {
	type acc struct {
		orders  int
		counted int
		spent   decimal.Decimal
		last    time.Time
		status  map[string]int
	}
	groups := make(map[primitive.ObjectID]*acc)
	for _, o := range s.Orders {
		g := groups[o.UserID]
		if g == nil {
			g = &acc{spent: decimal.Zero, status: newStatusCounts()}
			groups[o.UserID] = g
		}
		g.orders++
		if _, ok := g.status[o.Status]; ok {
			g.status[o.Status]++
		}
		if o.CreatedAt.After(g.last) {
			g.last = o.CreatedAt
		}
		if counted(o) {
			g.spent = g.spent.Add(money.FromFloat(o.TotalAmount))
			g.counted++
		}
	}

	out := make([]UserOrderStats, 0, len(groups))
	unresolved := 0
	for id, g := range groups {
		u, ok := s.Users[id]
		if !ok {
			unresolved++
			continue
		}
		out = append(out, UserOrderStats{
			UserID:            id,
			UserName:          u.Name,
			Email:             u.Email,
			TotalOrders:       g.orders,
			TotalSpent:        money.Float(g.spent),
			AverageOrderValue: money.Average(g.spent, g.counted),
			LastOrderDate:     g.last.UTC(),
			StatusCounts:      g.status,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSpent != out[j].TotalSpent {
			return out[i].TotalSpent > out[j].TotalSpent
		}
		return out[i].UserID.Hex() < out[j].UserID.Hex()
	})
	return out, unresolved
}

// UserActivityTrends returns a daily series for every resolvable user,
// ordered by user name.
func UserActivityTrends(s Snapshot) []UserActivity {
	type dayAcc struct {
		orders int
		spent  decimal.Decimal
	}
	series := make(map[primitive.ObjectID]map[string]*dayAcc)
	for _, o := range s.Orders {
		if _, ok := s.Users[o.UserID]; !ok {
			continue
		}
		days := series[o.UserID]
		if days == nil {
			days = make(map[string]*dayAcc)
			series[o.UserID] = days
		}
		d := dayOf(o)
		a := days[d]
		if a == nil {
			a = &dayAcc{spent: decimal.Zero}
			days[d] = a
		}
		a.orders++
		if counted(o) {
			a.spent = a.spent.Add(money.FromFloat(o.TotalAmount))
		}
	}

	out := make([]UserActivity, 0, len(series))
	for id, days := range series {
		points := make([]ActivityPoint, 0, len(days))
		for d, a := range days {
			points = append(points, ActivityPoint{Date: d, Orders: a.orders, Spent: money.Float(a.spent)})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
		out = append(out, UserActivity{UserID: id, UserName: s.Users[id].Name, ActivityTrend: points})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].UserID.Hex() < out[j].UserID.Hex()
	})
	return out
}
