package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

// MirrorWriter stores copies of backend records for reporting.
type MirrorWriter interface {
	UpsertProducts(ctx context.Context, products []entity.Product) error
	UpsertOrders(ctx context.Context, orders []entity.Order) error
}

// SyncResult summarises one mirror refresh.
type SyncResult struct {
	Products int           `json:"products"`
	Orders   int           `json:"orders"`
	Took     time.Duration `json:"took_ms"`
}

// Mirror copies orders and products from the backend into the reporting
// database.
type Mirror struct {
	Orders   repository.OrderSource
	Products repository.ProductSource
	Writer   MirrorWriter
	Logger   *logrus.Logger
}

func (m *Mirror) Sync(ctx context.Context) (SyncResult, error) {
	start := time.Now()
	var res SyncResult

	products, err := m.Products.ListProducts(ctx)
	if err != nil {
		return res, fmt.Errorf("list products: %w", err)
	}
	if err := m.Writer.UpsertProducts(ctx, products); err != nil {
		return res, fmt.Errorf("store products: %w", err)
	}
	res.Products = len(products)

	orders, err := m.Orders.ListOrders(ctx)
	if err != nil {
		return res, fmt.Errorf("list orders: %w", err)
	}
	if err := m.Writer.UpsertOrders(ctx, orders); err != nil {
		return res, fmt.Errorf("store orders: %w", err)
	}
	res.Orders = len(orders)
	res.Took = time.Since(start) / time.Millisecond

	m.Logger.WithFields(logrus.Fields{"products": res.Products, "orders": res.Orders}).Info("reporting mirror synced")
	return res, nil
}
