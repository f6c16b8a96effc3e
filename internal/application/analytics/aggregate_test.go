package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

func fixtureOrders() []entity.Order {
	return []entity.Order{
		{
			ID: "o1", Total: 250, Status: entity.OrderStatusDelivered, PaymentMethod: "card", DeliveryMethod: "courier",
			Items: []entity.OrderItem{
				{ProductID: "milk", ProductName: "Milk", ProductPrice: 100, Quantity: 2},
				{ProductID: "bread", ProductName: "Bread", ProductPrice: 50, Quantity: 1},
			},
		},
		{
			ID: "o2", Total: 50, Status: entity.OrderStatusPending, PaymentMethod: "cash",
			Items: []entity.OrderItem{
				{ProductID: "bread", ProductName: "Bread", ProductPrice: 50, Quantity: 1},
			},
		},
		{
			ID: "o3", Total: 30, PaymentMethod: "card",
			Items: []entity.OrderItem{
				{ProductID: "ghost", ProductName: "Ghost", ProductPrice: 30, Quantity: 1},
			},
		},
	}
}

func fixtureProducts() []entity.Product {
	return []entity.Product{
		{ID: "milk", Name: "Milk", Category: "Dairy", Brand: "Farm", StockQuantity: 0, InStock: true},
		{ID: "bread", Name: "Bread", Category: "Bakery", StockQuantity: 5, InStock: true},
		{ID: "cheese", Name: "Cheese", Category: "Dairy", Brand: "Farm", StockQuantity: 20, InStock: true},
	}
}

func sumValues(m map[string]float64) float64 {
	var s float64
	for _, v := range m {
		s += v
	}
	return s
}

func TestSumRevenue(t *testing.T) {
	assert.Equal(t, 330.0, SumRevenue(fixtureOrders()))
	assert.Equal(t, 0.0, SumRevenue(nil))
	assert.Equal(t, 110.0, AverageOrderValue(fixtureOrders()))
	assert.Equal(t, 0.0, AverageOrderValue(nil))
}

func TestGroupings(t *testing.T) {
	orders := fixtureOrders()
	products := fixtureProducts()

	assert.Equal(t, map[string]float64{"delivered": 250, "pending": 50, "unknown": 30}, RevenueByStatus(orders))
	assert.Equal(t, map[string]float64{"card": 280, "cash": 50}, RevenueByPaymentMethod(orders))
	assert.Equal(t, map[string]float64{"courier": 250, "unknown": 80}, RevenueByDeliveryMethod(orders))
	assert.Equal(t, map[string]int{"delivered": 1, "pending": 1, "unknown": 1}, CountByStatus(orders))
	assert.Equal(t, map[string]float64{"Dairy": 200, "Bakery": 100, "unknown": 30}, SalesByCategory(orders, products))
	assert.Equal(t, map[string]float64{"Dairy": 2, "Bakery": 2, "unknown": 1}, UnitsByCategory(orders, products))
	assert.Equal(t, map[string]float64{"Farm": 200, "unknown": 130}, SalesByBrand(orders, products))
}

func TestGroupSumBy_PreservesTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := []string{"", "a", "b", "c"}
	type row struct {
		k string
		v float64
	}
	rows := make([]row, 500)
	var total float64
	for i := range rows {
		rows[i] = row{k: keys[rng.Intn(len(keys))], v: float64(rng.Intn(1000)) / 4}
		total += rows[i].v
	}

	groups := GroupSumBy(rows, func(r row) string { return r.k }, func(r row) float64 { return r.v })
	assert.InDelta(t, total, sumValues(groups), 1e-6)
	_, hasEmpty := groups[""]
	assert.False(t, hasEmpty)

	orders := fixtureOrders()
	assert.InDelta(t, SumRevenue(orders), sumValues(RevenueByStatus(orders)), 1e-9)
}

func TestSalesByProductAndTopN(t *testing.T) {
	sales := SalesByProduct(fixtureOrders())
	require.Len(t, sales, 3)
	assert.Equal(t, ProductSales{ProductID: "milk", Name: "Milk", Quantity: 2, Revenue: 200}, sales[0])
	assert.Equal(t, ProductSales{ProductID: "bread", Name: "Bread", Quantity: 2, Revenue: 100}, sales[1])

	top := TopN(sales, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "milk", top[0].ProductID)
	assert.Equal(t, "bread", top[1].ProductID)

	assert.Empty(t, TopN(sales, 0))
	assert.Len(t, TopN(sales, 10), 3)
}

func TestTopN_TiesKeepInsertionOrder(t *testing.T) {
	in := []ProductSales{
		{ProductID: "a", Revenue: 10},
		{ProductID: "b", Revenue: 30},
		{ProductID: "c", Revenue: 10},
		{ProductID: "d", Revenue: 30},
		{ProductID: "e", Revenue: 10},
	}
	got := TopN(in, 4)
	var order []string
	for _, s := range got {
		order = append(order, s.ProductID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, order)
	assert.Equal(t, "a", in[0].ProductID, "input must not be reordered")
}

func TestComputeStockBuckets(t *testing.T) {
	products := []entity.Product{
		{StockQuantity: 0, InStock: true},
		{StockQuantity: 5, InStock: true},
		{StockQuantity: 20, InStock: true},
	}
	assert.Equal(t, entity.StockBuckets{InStock: 2, OutOfStock: 1, LowStock: 1}, ComputeStockBuckets(products))

	flaggedOut := []entity.Product{{StockQuantity: 3, InStock: false}}
	assert.Equal(t, entity.StockBuckets{OutOfStock: 1, LowStock: 1}, ComputeStockBuckets(flaggedOut))

	low := LowStockProducts(fixtureProducts())
	require.Len(t, low, 1)
	assert.Equal(t, "bread", low[0].ID)
}

func TestRevenueByDay(t *testing.T) {
	loc := time.UTC
	orders := []entity.Order{
		{Total: 10, CreatedAt: time.Date(2024, 6, 2, 10, 0, 0, 0, loc)},
		{Total: 5, CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, loc)},
		{Total: 7, CreatedAt: time.Date(2024, 6, 2, 23, 0, 0, 0, loc)},
	}
	got := RevenueByDay(orders, loc)
	assert.Equal(t, []DailyRevenue{
		{Day: "2024-06-01", Revenue: 5, Orders: 1},
		{Day: "2024-06-02", Revenue: 17, Orders: 2},
	}, got)
}
