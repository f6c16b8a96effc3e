package postgres

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

// Runs against a real database when STOREFRONT_TEST_DATABASE_URL is set.
func setupTestRepo(t *testing.T) *ReportRepository {
	t.Helper()
	dsn := os.Getenv("STOREFRONT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_DATABASE_URL not set")
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	require.NoError(t, RunMigrations(dsn, "../../../db/migrations", logger))

	ctx := context.Background()
	pool, err := NewPool(ctx, PoolConfig{DSN: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE report_orders, report_products`)
	require.NoError(t, err)
	return NewReportRepository(pool)
}

func TestReportRepository_RoundTrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	placed := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertProducts(ctx, []entity.Product{
		{ID: "p1", Name: "Milk", Price: 1.99, Category: "Dairy", StockQuantity: 4, InStock: true, CreatedAt: placed},
		{ID: "p2", Name: "Bread", Price: 2.5, Category: "Bakery"},
	}))
	require.NoError(t, repo.UpsertOrders(ctx, []entity.Order{
		{ID: "o1", Total: 3.98, Status: "pending", CreatedAt: placed,
			Items: []entity.OrderItem{{ProductID: "p1", ProductName: "Milk", ProductPrice: 1.99, Quantity: 2}}},
		{ID: "o2", Total: 0},
	}))
	// Second upsert updates in place.
	require.NoError(t, repo.UpsertOrders(ctx, []entity.Order{{ID: "o2", Total: 5, Status: "delivered"}}))

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Bread", products[0].Name)
	assert.True(t, products[0].CreatedAt.IsZero())
	assert.Equal(t, 1.99, products[1].Price)

	orders, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o1", orders[0].ID)
	assert.True(t, placed.Equal(orders[0].CreatedAt))
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.Equal(t, "delivered", orders[1].Status)
	assert.Empty(t, orders[1].Items)
}
