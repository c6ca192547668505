package reporting_test

import (
	"testing"

	"github.com/dalemusser/menuhub/internal/app/reporting"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryOf(t *testing.T) {
	m := item("Soup", "Starters", 4)
	items := menu(m)

	assert.Equal(t, "Soups", reporting.CategoryOf(models.OrderLine{MenuItemID: m.ID, Category: "Soups"}, items))
	assert.Equal(t, "Starters", reporting.CategoryOf(models.OrderLine{MenuItemID: m.ID}, items))
	assert.Equal(t, reporting.UncategorizedLabel, reporting.CategoryOf(models.OrderLine{MenuItemID: primitive.NewObjectID()}, items))
}

func TestCategoryAnalysis(t *testing.T) {
	u := primitive.NewObjectID()
	soup := item("Soup", "Starters", 4)
	bread := item("Bread", "Starters", 2)
	steak := item("Steak", "Mains", 25)

	orders := []models.Order{
		order(u, models.OrderCompleted, at(1, 12), line(soup, 2), line(bread, 1), line(steak, 1)),
		order(u, models.OrderPending, at(2, 12), line(soup, 1)),
		order(u, models.OrderCancelled, at(2, 13), line(steak, 10)),
	}
	got := reporting.CategoryAnalysis(reporting.Snapshot{Orders: orders, MenuItems: menu(soup, bread, steak)})
	require.Len(t, got, 2)

	mains := got[0]
	assert.Equal(t, "Mains", mains.Category)
	assert.Equal(t, 25.0, mains.TotalRevenue)
	assert.Equal(t, 1, mains.TotalOrders)
	assert.Equal(t, 25.0, mains.AverageOrderValue)
	assert.Equal(t, 25.0, mains.AverageItemPrice)

	starters := got[1]
	assert.Equal(t, "Starters", starters.Category)
	assert.Equal(t, 14.0, starters.TotalRevenue)
	assert.Equal(t, 4, starters.TotalOrders)
	// 14 across two orders; line prices 4, 2, 4.
	assert.Equal(t, 7.0, starters.AverageOrderValue)
	assert.Equal(t, 3.33, starters.AverageItemPrice)

	require.Len(t, starters.TopItems, 2)
	assert.Equal(t, "Soup", starters.TopItems[0].Name)
	assert.Equal(t, 3, starters.TopItems[0].Quantity)
	assert.Equal(t, 12.0, starters.TopItems[0].Revenue)
	assert.Equal(t, "Bread", starters.TopItems[1].Name)
}

func TestCategoryAnalysis_SnapshotWinsOverCurrentCategory(t *testing.T) {
	u := primitive.NewObjectID()
	soup := item("Soup", "Starters", 4)
	o := order(u, models.OrderCompleted, at(1, 12), line(soup, 1))
	soup.Category = "Soups"

	got := reporting.CategoryAnalysis(reporting.Snapshot{Orders: []models.Order{o}, MenuItems: menu(soup)})
	require.Len(t, got, 1)
	assert.Equal(t, "Starters", got[0].Category)
}

func TestCategoryAnalysis_LegacyLines(t *testing.T) {
	u := primitive.NewObjectID()
	soup := item("Soup", "Starters", 4)
	legacy := models.OrderLine{MenuItemID: soup.ID, Name: "Soup", Price: 4, Quantity: 1}
	orphan := models.OrderLine{MenuItemID: primitive.NewObjectID(), Name: "Old", Price: 3, Quantity: 1}
	o := order(u, models.OrderCompleted, at(1, 12), legacy, orphan)

	got := reporting.CategoryAnalysis(reporting.Snapshot{Orders: []models.Order{o}, MenuItems: menu(soup)})
	require.Len(t, got, 2)
	assert.Equal(t, "Starters", got[0].Category)
	assert.Equal(t, reporting.UncategorizedLabel, got[1].Category)
}

func TestCategoryAnalysis_TopItemsCapped(t *testing.T) {
	u := primitive.NewObjectID()
	var lines []models.OrderLine
	for i := 1; i <= 7; i++ {
		m := item(string(rune('A'+i-1)), "Mains", float64(i))
		lines = append(lines, line(m, 1))
	}
	o := order(u, models.OrderCompleted, at(1, 12), lines...)

	got := reporting.CategoryAnalysis(reporting.Snapshot{Orders: []models.Order{o}})
	require.Len(t, got, 1)
	require.Len(t, got[0].TopItems, reporting.CategoryTopItems)
	assert.Equal(t, "G", got[0].TopItems[0].Name)
	assert.Equal(t, 7.0, got[0].TopItems[0].Revenue)
}

func TestCategoryTrends(t *testing.T) {
	u := primitive.NewObjectID()
	soup := item("Soup", "Starters", 4)
	steak := item("Steak", "Mains", 25)
	orders := []models.Order{
		order(u, models.OrderCompleted, at(2, 12), line(soup, 1)),
		order(u, models.OrderCompleted, at(1, 12), line(soup, 2), line(steak, 1)),
		order(u, models.OrderCancelled, at(1, 13), line(steak, 4)),
	}

	got := reporting.CategoryTrends(reporting.Snapshot{Orders: orders, MenuItems: menu(soup, steak)})
	assert.Equal(t, []reporting.CategoryTrend{
		{Category: "Mains", Trends: []reporting.TrendPoint{{Date: "2024-03-01", Revenue: 25, Orders: 1}}},
		{Category: "Starters", Trends: []reporting.TrendPoint{
			{Date: "2024-03-01", Revenue: 8, Orders: 2},
			{Date: "2024-03-02", Revenue: 4, Orders: 1},
		}},
	}, got)
}
