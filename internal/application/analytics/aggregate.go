package analytics

import (
	"sort"
	"time"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

// SumRevenue adds up order totals.
func SumRevenue(orders []entity.Order) float64 {
	var sum float64
	for _, o := range orders {
		sum += o.Total
	}
	return sum
}

// AverageOrderValue is 0 for an empty input.
func AverageOrderValue(orders []entity.Order) float64 {
	if len(orders) == 0 {
		return 0
	}
	return SumRevenue(orders) / float64(len(orders))
}

// GroupSumBy sums value per key. Empty keys land in the "unknown" bucket, so
// the bucket sums always add up to the ungrouped sum.
func GroupSumBy[T any](items []T, key func(T) string, value func(T) float64) map[string]float64 {
	out := make(map[string]float64)
	for _, it := range items {
		k := key(it)
		if k == "" {
			k = entity.UnknownBucket
		}
		out[k] += value(it)
	}
	return out
}

func orderTotal(o entity.Order) float64 { return o.Total }

func RevenueByStatus(orders []entity.Order) map[string]float64 {
	return GroupSumBy(orders, func(o entity.Order) string { return o.Status }, orderTotal)
}

func RevenueByPaymentMethod(orders []entity.Order) map[string]float64 {
	return GroupSumBy(orders, func(o entity.Order) string { return o.PaymentMethod }, orderTotal)
}

func RevenueByDeliveryMethod(orders []entity.Order) map[string]float64 {
	return GroupSumBy(orders, func(o entity.Order) string { return o.DeliveryMethod }, orderTotal)
}

// CountByStatus counts orders per status.
func CountByStatus(orders []entity.Order) map[string]int {
	out := make(map[string]int)
	for _, o := range orders {
		k := o.Status
		if k == "" {
			k = entity.UnknownBucket
		}
		out[k]++
	}
	return out
}

// soldItem is an order item joined with the catalog product it refers to.
type soldItem struct {
	item    entity.OrderItem
	product *entity.Product
}

func joinItems(orders []entity.Order, products []entity.Product) []soldItem {
	byID := make(map[string]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	var out []soldItem
	for _, o := range orders {
		for _, it := range o.Items {
			out = append(out, soldItem{item: it, product: byID[it.ProductID]})
		}
	}
	return out
}

func itemRevenue(s soldItem) float64 { return s.item.Subtotal() }
func itemUnits(s soldItem) float64   { return float64(s.item.Quantity) }

func categoryOf(s soldItem) string {
	if s.product == nil {
		return ""
	}
	return s.product.Category
}

func brandOf(s soldItem) string {
	if s.product == nil {
		return ""
	}
	return s.product.Brand
}

// SalesByCategory sums line revenue per product category. Items whose
// product is not in the catalog go to "unknown".
func SalesByCategory(orders []entity.Order, products []entity.Product) map[string]float64 {
	return GroupSumBy(joinItems(orders, products), categoryOf, itemRevenue)
}

func UnitsByCategory(orders []entity.Order, products []entity.Product) map[string]float64 {
	return GroupSumBy(joinItems(orders, products), categoryOf, itemUnits)
}

func SalesByBrand(orders []entity.Order, products []entity.Product) map[string]float64 {
	return GroupSumBy(joinItems(orders, products), brandOf, itemRevenue)
}

// ProductSales aggregates what one product sold.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// SalesByProduct returns per-product sales in the order products first
// appear in the input.
func SalesByProduct(orders []entity.Order) []ProductSales {
	idx := make(map[string]int)
	var out []ProductSales
	for _, o := range orders {
		for _, it := range o.Items {
			key := it.ProductID
			if key == "" {
				key = entity.UnknownBucket
			}
			i, ok := idx[key]
			if !ok {
				i = len(out)
				idx[key] = i
				out = append(out, ProductSales{ProductID: key, Name: it.ProductName})
			}
			out[i].Quantity += it.Quantity
			out[i].Revenue += it.Subtotal()
		}
	}
	return out
}

// TopN returns the n best sellers by revenue. Ties keep input order.
func TopN(sales []ProductSales, n int) []ProductSales {
	if n <= 0 {
		return []ProductSales{}
	}
	sorted := make([]ProductSales, len(sales))
	copy(sorted, sales)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Revenue > sorted[j].Revenue })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// DailyRevenue is one point of the revenue chart.
type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// RevenueByDay buckets orders by calendar day in loc, oldest first.
func RevenueByDay(orders []entity.Order, loc *time.Location) []DailyRevenue {
	if loc == nil {
		loc = time.Local
	}
	idx := make(map[string]int)
	var out []DailyRevenue
	for _, o := range orders {
		day := o.CreatedAt.In(loc).Format("2006-01-02")
		i, ok := idx[day]
		if !ok {
			i = len(out)
			idx[day] = i
			out = append(out, DailyRevenue{Day: day})
		}
		out[i].Revenue += o.Total
		out[i].Orders++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// ComputeStockBuckets counts in-stock, out-of-stock and low-stock products.
// A zero quantity is never low stock, even when flagged in stock.
func ComputeStockBuckets(products []entity.Product) entity.StockBuckets {
	var b entity.StockBuckets
	for _, p := range products {
		if p.StockQuantity > 0 && p.InStock {
			b.InStock++
		} else {
			b.OutOfStock++
		}
		if p.StockQuantity > 0 && p.StockQuantity < entity.LowStockThreshold {
			b.LowStock++
		}
	}
	return b
}

// LowStockProducts lists the products counted as low stock, in input order.
func LowStockProducts(products []entity.Product) []entity.Product {
	out := make([]entity.Product, 0)
	for _, p := range products {
		if p.StockQuantity > 0 && p.StockQuantity < entity.LowStockThreshold {
			out = append(out, p)
		}
	}
	return out
}
