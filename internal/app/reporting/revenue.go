package reporting

import (
	"sort"

	"github.com/dalemusser/menuhub/internal/app/system/money"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RevenueSummary totals non-cancelled orders.
type RevenueSummary struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// Revenue sums TotalAmount over non-cancelled orders.
func Revenue(orders []models.Order) RevenueSummary {
	total := decimal.Zero
	n := 0
	for _, o := range orders {
		if !counted(o) {
			continue
		}
		total = total.Add(money.FromFloat(o.TotalAmount))
		n++
	}
	return RevenueSummary{
		TotalRevenue:      money.Float(total),
		TotalOrders:       n,
		AverageOrderValue: money.Average(total, n),
	}
}

// OrdersByStatus counts every order, cancelled included, by status.
func OrdersByStatus(orders []models.Order) map[string]int {
	out := make(map[string]int)
	for _, o := range orders {
		out[o.Status]++
	}
	return out
}

// PopularItem is one row of the popular items report.
type PopularItem struct {
	MenuItemID    primitive.ObjectID `json:"id"`
	Name          string             `json:"name"`
	TotalQuantity int                `json:"totalQuantity"`
	TotalRevenue  float64            `json:"totalRevenue"`
}

// PopularItems groups non-cancelled lines by menu item and returns the limit
// items with the highest quantity. Lines whose menu item no longer exists
// are skipped. Names come from the current menu item.
func PopularItems(s Snapshot, limit int) []PopularItem {
	type acc struct {
		qty     int
		revenue decimal.Decimal
	}
	groups := make(map[primitive.ObjectID]*acc)
	for _, o := range s.Orders {
		if !counted(o) {
			continue
		}
		for _, l := range o.Items {
			if _, ok := s.MenuItems[l.MenuItemID]; !ok {
				continue
			}
			g := groups[l.MenuItemID]
			if g == nil {
				g = &acc{revenue: decimal.Zero}
				groups[l.MenuItemID] = g
			}
			g.qty += l.Quantity
			g.revenue = g.revenue.Add(money.LineTotal(l.Price, l.Quantity))
		}
	}

	out := make([]PopularItem, 0, len(groups))
	for id, g := range groups {
		out = append(out, PopularItem{
			MenuItemID:    id,
			Name:          s.MenuItems[id].Name,
			TotalQuantity: g.qty,
			TotalRevenue:  money.Float(g.revenue),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].MenuItemID.Hex() < out[j].MenuItemID.Hex()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DailyRevenue is one UTC day of the revenue series.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// DailyRevenueSeries groups non-cancelled orders by UTC creation day,
// ascending.
func DailyRevenueSeries(orders []models.Order) []DailyRevenue {
	type acc struct {
		revenue decimal.Decimal
		orders  int
	}
	days := make(map[string]*acc)
	for _, o := range orders {
		if !counted(o) {
			continue
		}
		d := dayOf(o)
		a := days[d]
		if a == nil {
			a = &acc{revenue: decimal.Zero}
			days[d] = a
		}
		a.revenue = a.revenue.Add(money.FromFloat(o.TotalAmount))
		a.orders++
	}

	out := make([]DailyRevenue, 0, len(days))
	for d, a := range days {
		out = append(out, DailyRevenue{Date: d, Revenue: money.Float(a.revenue), Orders: a.orders})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
