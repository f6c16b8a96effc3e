package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

var _ repository.ProductSource = (*Client)(nil)

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Name          string  `json:"name" binding:"required,max=200"`
	Description   string  `json:"description" binding:"max=5000"`
	Price         float64 `json:"price" binding:"gte=0"`
	CategoryID    string  `json:"category_id" binding:"required"`
	Brand         string  `json:"brand" binding:"max=100"`
	ImageURL      string  `json:"image_url" binding:"omitempty,url"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	InStock       bool    `json:"in_stock"`
	IsFeatured    bool    `json:"is_featured"`
}

func (c *Client) listProducts(ctx context.Context, path string, q url.Values) ([]entity.Product, error) {
	var out []productDTO
	if err := c.send(ctx, request{method: http.MethodGet, path: path, query: q}, &out); err != nil {
		return nil, err
	}
	return productsToEntities(out), nil
}

func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return c.listProducts(ctx, "/products", nil)
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]entity.Product, error) {
	return c.listProducts(ctx, "/products/search", url.Values{"q": {query}})
}

func (c *Client) LowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return c.listProducts(ctx, "/products/low-stock", nil)
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]entity.Product, error) {
	return c.listProducts(ctx, "/products/category/"+url.PathEscape(categoryID), nil)
}

func (c *Client) FeaturedProducts(ctx context.Context) ([]entity.Product, error) {
	return c.listProducts(ctx, "/products/featured", nil)
}

func (c *Client) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var out productDTO
	if err := c.call(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	p := out.toEntity()
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	var out productDTO
	if err := c.call(ctx, http.MethodPost, "/products", in, &out); err != nil {
		return nil, err
	}
	p := out.toEntity()
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*entity.Product, error) {
	var out productDTO
	if err := c.call(ctx, http.MethodPut, "/products/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	p := out.toEntity()
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}
