package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

var ErrNotFound = errors.New("not found")

// CartStorage persists one cart per visitor. Update applies fn to the stored
// cart and writes the result atomically, returning the written cart.
type CartStorage interface {
	Load(ctx context.Context, visitorID string) (entity.Cart, error)
	Update(ctx context.Context, visitorID string, fn func(entity.Cart) entity.Cart) (entity.Cart, error)
}

// CredentialStore persists the token pair and user fields of one visitor.
// All keys are written and cleared together.
type CredentialStore interface {
	Load(ctx context.Context) (entity.Credentials, error)
	Save(ctx context.Context, c entity.Credentials) error
	Clear(ctx context.Context) error
}

// ProductSource lists catalog products.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

// OrderSource lists placed orders.
type OrderSource interface {
	ListOrders(ctx context.Context) ([]entity.Order, error)
}
