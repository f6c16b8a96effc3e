package entity

import "time"

// FeaturedCategory is the pseudo-category selecting featured products.
const FeaturedCategory = "Featured"

// LowStockThreshold is the exclusive upper bound for a low stock quantity.
const LowStockThreshold = 10

// Product is a catalog entry normalised from the backend.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	CategoryID    string    `json:"category_id,omitempty"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand"`
	ImageURL      string    `json:"image_url"`
	StockQuantity int       `json:"stock_quantity"`
	InStock       bool      `json:"in_stock"`
	IsFeatured    bool      `json:"is_featured"`
	CreatedAt     time.Time `json:"created_date"`
}

// Snapshot captures the fields a cart line keeps at the time of adding.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		ImageURL: p.ImageURL,
	}
}

// Category is a node of the category tree.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
}

// StockBuckets counts products per stock state. A product can be counted in
// both InStock and LowStock.
type StockBuckets struct {
	InStock    int `json:"in_stock"`
	OutOfStock int `json:"out_of_stock"`
	LowStock   int `json:"low_stock"`
}
