package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

var (
	_ repository.OrderSource   = (*ReportRepository)(nil)
	_ repository.ProductSource = (*ReportRepository)(nil)
)

// ReportRepository is the reporting mirror of backend orders and products
// that the analytics dashboard can read instead of the live API.
type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) ListProducts(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price::float8, category_id, category, brand, image_url,
		       stock_quantity, in_stock, is_featured, created_at
		FROM report_products
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Product, 0)
	for rows.Next() {
		var p entity.Product
		var created *time.Time
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.Category, &p.Brand,
			&p.ImageURL, &p.StockQuantity, &p.InStock, &p.IsFeatured, &created); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if created != nil {
			p.CreatedAt = *created
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ReportRepository) ListOrders(ctx context.Context) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, items, total::float8, status, payment_method, delivery_method,
		       customer_email, customer_name, created_at
		FROM report_orders
		ORDER BY created_at DESC NULLS LAST, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Order, 0)
	for rows.Next() {
		var o entity.Order
		var items []byte
		var created *time.Time
		if err := rows.Scan(&o.ID, &items, &o.Total, &o.Status, &o.PaymentMethod, &o.DeliveryMethod,
			&o.CustomerEmail, &o.CustomerName, &created); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
		}
		if created != nil {
			o.CreatedAt = *created
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// UpsertProducts writes products in one transaction.
func (r *ReportRepository) UpsertProducts(ctx context.Context, products []entity.Product) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		b := &pgx.Batch{}
		for _, p := range products {
			b.Queue(`
				INSERT INTO report_products (id, name, description, price, category_id, category, brand,
				                             image_url, stock_quantity, in_stock, is_featured, created_at, synced_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
					category_id = EXCLUDED.category_id, category = EXCLUDED.category, brand = EXCLUDED.brand,
					image_url = EXCLUDED.image_url, stock_quantity = EXCLUDED.stock_quantity,
					in_stock = EXCLUDED.in_stock, is_featured = EXCLUDED.is_featured,
					created_at = EXCLUDED.created_at, synced_at = now()
			`, p.ID, p.Name, p.Description, p.Price, p.CategoryID, p.Category, p.Brand,
				p.ImageURL, p.StockQuantity, p.InStock, p.IsFeatured, nullTime(p.CreatedAt))
		}
		return tx.SendBatch(ctx, b).Close()
	})
}

// UpsertOrders writes orders in one transaction. Items are stored as JSONB.
func (r *ReportRepository) UpsertOrders(ctx context.Context, orders []entity.Order) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		b := &pgx.Batch{}
		for _, o := range orders {
			items := o.Items
			if items == nil {
				items = []entity.OrderItem{}
			}
			raw, err := json.Marshal(items)
			if err != nil {
				return fmt.Errorf("encode items of order %s: %w", o.ID, err)
			}
			b.Queue(`
				INSERT INTO report_orders (id, items, total, status, payment_method, delivery_method,
				                           customer_email, customer_name, created_at, synced_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
				ON CONFLICT (id) DO UPDATE SET
					items = EXCLUDED.items, total = EXCLUDED.total, status = EXCLUDED.status,
					payment_method = EXCLUDED.payment_method, delivery_method = EXCLUDED.delivery_method,
					customer_email = EXCLUDED.customer_email, customer_name = EXCLUDED.customer_name,
					created_at = EXCLUDED.created_at, synced_at = now()
			`, o.ID, raw, o.Total, o.Status, o.PaymentMethod, o.DeliveryMethod,
				o.CustomerEmail, o.CustomerName, nullTime(o.CreatedAt))
		}
		return tx.SendBatch(ctx, b).Close()
	})
}
