package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-storefront/config"
	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/infrastructure/postgres"
	"github.com/oksasatya/go-storefront/pkg/helpers"
)

// Seeds the reporting database with a demo catalog and a month of orders so
// the admin dashboard has something to show with ANALYTICS_SOURCE=postgres.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{DSN: cfg.DatabaseURL, MaxConns: 4})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	repo := postgres.NewReportRepository(pool)

	now := time.Now()
	products := demoProducts(now)
	if err := repo.UpsertProducts(ctx, products); err != nil {
		logger.WithError(err).Fatal("failed to seed products")
	}
	orders := demoOrders(products, now, rand.New(rand.NewSource(42)))
	if err := repo.UpsertOrders(ctx, orders); err != nil {
		logger.WithError(err).Fatal("failed to seed orders")
	}
	fmt.Printf("seeded %d products and %d orders\n", len(products), len(orders))
}

func demoProducts(now time.Time) []entity.Product {
	type row struct {
		name, category, brand string
		price                 float64
		stock                 int
		featured              bool
	}
	rows := []row{
		{"Desk Lamp", "Home", "Lumen", 24.90, 35, true},
		{"Floor Lamp", "Home", "Lumen", 89.00, 4, false},
		{"Ceramic Mug", "Kitchen", "Clayworks", 9.50, 120, false},
		{"Chef Knife", "Kitchen", "Edge", 59.00, 0, false},
		{"Running Shoes", "Sport", "Stride", 119.00, 7, true},
		{"Yoga Mat", "Sport", "Stride", 29.00, 18, false},
		{"Notebook A5", "Office", "", 4.20, 300, false},
	}
	out := make([]entity.Product, 0, len(rows))
	for i, r := range rows {
		out = append(out, entity.Product{
			ID:            fmt.Sprintf("demo-p%d", i+1),
			Name:          r.name,
			Price:         r.price,
			Category:      r.category,
			Brand:         r.brand,
			StockQuantity: r.stock,
			InStock:       r.stock > 0,
			IsFeatured:    r.featured,
			CreatedAt:     now.AddDate(0, -2, 0),
		})
	}
	return out
}

func demoOrders(products []entity.Product, now time.Time, rnd *rand.Rand) []entity.Order {
	statuses := []string{"pending", "processing", "shipped", "delivered", "delivered", "cancelled"}
	payments := []string{"card", "paypal", "cash_on_delivery"}
	deliveries := []string{"standard", "express", "pickup"}

	out := make([]entity.Order, 0, 40)
	for i := 0; i < 40; i++ {
		o := entity.Order{
			ID:             fmt.Sprintf("demo-o%d", i+1),
			Status:         statuses[rnd.Intn(len(statuses))],
			PaymentMethod:  payments[rnd.Intn(len(payments))],
			DeliveryMethod: deliveries[rnd.Intn(len(deliveries))],
			CustomerEmail:  fmt.Sprintf("customer%d@example.com", i%7+1),
			CustomerName:   fmt.Sprintf("Customer %d", i%7+1),
			CreatedAt:      now.Add(-time.Duration(rnd.Intn(30*24)) * time.Hour),
		}
		for n := rnd.Intn(3) + 1; n > 0; n-- {
			p := products[rnd.Intn(len(products))]
			item := entity.OrderItem{ProductID: p.ID, ProductName: p.Name, ProductPrice: p.Price, Quantity: rnd.Intn(3) + 1}
			o.Items = append(o.Items, item)
			o.Total += item.Subtotal()
		}
		out = append(out, o)
	}
	return out
}
