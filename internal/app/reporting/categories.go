package reporting

import (
	"sort"

	"github.com/dalemusser/menuhub/internal/app/system/money"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryStats summarizes one category.
//
// TotalOrders is the number of units sold. AverageOrderValue is category
// revenue per distinct order containing the category; AverageItemPrice is
// the unweighted mean of line prices.
type CategoryStats struct {
	Category          string         `json:"category"`
	TotalRevenue      float64        `json:"totalRevenue"`
	TotalOrders       int            `json:"totalOrders"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	AverageItemPrice  float64        `json:"averageItemPrice"`
	TopItems          []CategoryItem `json:"topItems"`
}

// CategoryItem is one menu item's contribution to its category.
type CategoryItem struct {
	MenuItemID primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Quantity   int                `json:"quantity"`
	Revenue    float64            `json:"revenue"`
}

// CategoryTrend is the daily series for one category.
type CategoryTrend struct {
	Category string       `json:"category"`
	Trends   []TrendPoint `json:"trends"`
}

// TrendPoint is one day of a category trend. Orders is units sold.
type TrendPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// CategoryOf returns the category a line is reported under: the snapshot
// taken at order time, else the menu item's current category, else
// UncategorizedLabel.
func CategoryOf(l models.OrderLine, items map[primitive.ObjectID]models.MenuItem) string {
	if l.Category != "" {
		return l.Category
	}
	if m, ok := items[l.MenuItemID]; ok && m.Category != "" {
		return m.Category
	}
	return UncategorizedLabel
}

type itemAcc struct {
	name    string
	qty     int
	revenue decimal.Decimal
}

type categoryAcc struct {
	revenue  decimal.Decimal
	qty      int
	priceSum decimal.Decimal
	lines    int
	orders   map[primitive.ObjectID]struct{}
	items    map[primitive.ObjectID]*itemAcc
}

// CategoryAnalysis groups non-cancelled lines by category, sorted by
// revenue descending.
func CategoryAnalysis(s Snapshot) []CategoryStats {
	cats := make(map[string]*categoryAcc)
	for _, o := range s.Orders {
		if !counted(o) {
			continue
		}
		for _, l := range o.Items {
			name := CategoryOf(l, s.MenuItems)
			c := cats[name]
			if c == nil {
				c = &categoryAcc{
					revenue:  decimal.Zero,
					priceSum: decimal.Zero,
					orders:   make(map[primitive.ObjectID]struct{}),
					items:    make(map[primitive.ObjectID]*itemAcc),
				}
				cats[name] = c
			}
			lineTotal := money.LineTotal(l.Price, l.Quantity)
			c.revenue = c.revenue.Add(lineTotal)
			c.qty += l.Quantity
			c.priceSum = c.priceSum.Add(money.FromFloat(l.Price))
			c.lines++
			c.orders[o.ID] = struct{}{}

			it := c.items[l.MenuItemID]
			if it == nil {
				it = &itemAcc{name: l.Name, revenue: decimal.Zero}
				c.items[l.MenuItemID] = it
			}
			it.qty += l.Quantity
			it.revenue = it.revenue.Add(lineTotal)
		}
	}

	out := make([]CategoryStats, 0, len(cats))
	for name, c := range cats {
		out = append(out, CategoryStats{
			Category:          name,
			TotalRevenue:      money.Float(c.revenue),
			TotalOrders:       c.qty,
			AverageOrderValue: money.Average(c.revenue, len(c.orders)),
			AverageItemPrice:  money.Average(c.priceSum, c.lines),
			TopItems:          topItems(c.items, CategoryTopItems),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func topItems(items map[primitive.ObjectID]*itemAcc, limit int) []CategoryItem {
	out := make([]CategoryItem, 0, len(items))
	for id, it := range items {
		out = append(out, CategoryItem{
			MenuItemID: id,
			Name:       it.name,
			Quantity:   it.qty,
			Revenue:    money.Float(it.revenue),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryTrends returns a daily series per category, categories ascending
// and days ascending within each.
func CategoryTrends(s Snapshot) []CategoryTrend {
	type dayAcc struct {
		revenue decimal.Decimal
		qty     int
	}
	series := make(map[string]map[string]*dayAcc)
	for _, o := range s.Orders {
		if !counted(o) {
			continue
		}
		d := dayOf(o)
		for _, l := range o.Items {
			name := CategoryOf(l, s.MenuItems)
			days := series[name]
			if days == nil {
				days = make(map[string]*dayAcc)
				series[name] = days
			}
			a := days[d]
			if a == nil {
				a = &dayAcc{revenue: decimal.Zero}
				days[d] = a
			}
			a.revenue = a.revenue.Add(money.LineTotal(l.Price, l.Quantity))
			a.qty += l.Quantity
		}
	}

	out := make([]CategoryTrend, 0, len(series))
	for name, days := range series {
		points := make([]TrendPoint, 0, len(days))
		for d, a := range days {
			points = append(points, TrendPoint{Date: d, Revenue: money.Float(a.revenue), Orders: a.qty})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
		out = append(out, CategoryTrend{Category: name, Trends: points})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
