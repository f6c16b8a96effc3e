package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

const defaultTopN = 5

// Query selects the orders a report is computed over.
type Query struct {
	Period Period
	Range  DateRange
	Top    int
}

// Report is everything the admin dashboard renders. It is recomputed on
// every request and never stored.
type Report struct {
	Period                  Period              `json:"period"`
	GeneratedAt             time.Time           `json:"generated_at"`
	OrderCount              int                 `json:"order_count"`
	Revenue                 float64             `json:"revenue"`
	AverageOrderValue       float64             `json:"average_order_value"`
	RevenueByStatus         map[string]float64  `json:"revenue_by_status"`
	OrdersByStatus          map[string]int      `json:"orders_by_status"`
	RevenueByPaymentMethod  map[string]float64  `json:"revenue_by_payment_method"`
	RevenueByDeliveryMethod map[string]float64  `json:"revenue_by_delivery_method"`
	SalesByCategory         map[string]float64  `json:"sales_by_category"`
	UnitsByCategory         map[string]float64  `json:"units_by_category"`
	SalesByBrand            map[string]float64  `json:"sales_by_brand"`
	TopProducts             []ProductSales      `json:"top_products"`
	DailyRevenue            []DailyRevenue      `json:"daily_revenue"`
	Stock                   entity.StockBuckets `json:"stock"`
}

// StockReport is the inventory view of the dashboard.
type StockReport struct {
	Buckets  entity.StockBuckets `json:"buckets"`
	LowStock []entity.Product    `json:"low_stock"`
}

// Service computes dashboard reports from order and product sources.
type Service struct {
	Orders   repository.OrderSource
	Products repository.ProductSource
	Clock    Clock
	Logger   *logrus.Logger
}

func NewService(orders repository.OrderSource, products repository.ProductSource, clock Clock, logger *logrus.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{Orders: orders, Products: products, Clock: clock, Logger: logger}
}

func (s *Service) Report(ctx context.Context, q Query) (*Report, error) {
	orders, err := s.Orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	products, err := s.Products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if q.Period == "" {
		q.Period = PeriodAll
	}
	if q.Top <= 0 {
		q.Top = defaultTopN
	}

	now := s.Clock()
	filtered := FilterByTimePeriod(orders, q.Period, q.Range, now)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"period":   q.Period,
			"orders":   len(orders),
			"filtered": len(filtered),
		}).Debug("analytics report")
	}

	return &Report{
		Period:                  q.Period,
		GeneratedAt:             now,
		OrderCount:              len(filtered),
		Revenue:                 SumRevenue(filtered),
		AverageOrderValue:       AverageOrderValue(filtered),
		RevenueByStatus:         RevenueByStatus(filtered),
		OrdersByStatus:          CountByStatus(filtered),
		RevenueByPaymentMethod:  RevenueByPaymentMethod(filtered),
		RevenueByDeliveryMethod: RevenueByDeliveryMethod(filtered),
		SalesByCategory:         SalesByCategory(filtered, products),
		UnitsByCategory:         UnitsByCategory(filtered, products),
		SalesByBrand:            SalesByBrand(filtered, products),
		TopProducts:             TopN(SalesByProduct(filtered), q.Top),
		DailyRevenue:            RevenueByDay(filtered, now.Location()),
		Stock:                   ComputeStockBuckets(products),
	}, nil
}

func (s *Service) Stock(ctx context.Context) (*StockReport, error) {
	products, err := s.Products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &StockReport{Buckets: ComputeStockBuckets(products), LowStock: LowStockProducts(products)}, nil
}
