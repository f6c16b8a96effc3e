package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

var _ repository.OrderSource = (*Client)(nil)

func (c *Client) ListOrders(ctx context.Context) ([]entity.Order, error) {
	var out []orderDTO
	if err := c.call(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return ordersToEntities(out), nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	var out orderDTO
	if err := c.call(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	o := out.toEntity()
	return &o, nil
}

func (c *Client) CreateOrder(ctx context.Context, in entity.NewOrder) (*entity.Order, error) {
	var out orderDTO
	if err := c.call(ctx, http.MethodPost, "/orders", in, &out); err != nil {
		return nil, err
	}
	o := out.toEntity()
	return &o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	var out orderDTO
	body := map[string]string{"status": status}
	if err := c.call(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, err
	}
	o := out.toEntity()
	return &o, nil
}
