package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

// Store is the cart state container. Every mutation goes through Reduce and
// is persisted in the same storage update, so the stored snapshot always
// reflects the mutation that produced it.
type Store struct {
	storage repository.CartStorage
	logger  *logrus.Logger
}

func NewStore(storage repository.CartStorage, logger *logrus.Logger) *Store {
	return &Store{storage: storage, logger: logger}
}

func (s *Store) Get(ctx context.Context, visitorID string) (entity.Cart, error) {
	c, err := s.storage.Load(ctx, visitorID)
	if err != nil {
		return entity.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

// Dispatch applies a and returns the persisted cart.
func (s *Store) Dispatch(ctx context.Context, visitorID string, a Action) (entity.Cart, error) {
	c, err := s.storage.Update(ctx, visitorID, func(cur entity.Cart) entity.Cart {
		return Reduce(cur, a)
	})
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"visitor_id": visitorID,
				"action":     fmt.Sprintf("%T", a),
			}).Warn("cart update failed")
		}
		return entity.Cart{}, fmt.Errorf("update cart: %w", err)
	}
	return c, nil
}

func (s *Store) AddItem(ctx context.Context, visitorID string, p entity.ProductSnapshot) (entity.Cart, error) {
	return s.Dispatch(ctx, visitorID, AddItem{Product: p})
}

// UpdateQuantity sets the quantity of a line; quantity <= 0 removes it.
// Quantity is not checked against live stock.
func (s *Store) UpdateQuantity(ctx context.Context, visitorID, productID string, quantity int) (entity.Cart, error) {
	return s.Dispatch(ctx, visitorID, UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Store) RemoveItem(ctx context.Context, visitorID, productID string) (entity.Cart, error) {
	return s.Dispatch(ctx, visitorID, RemoveItem{ProductID: productID})
}

func (s *Store) Clear(ctx context.Context, visitorID string) (entity.Cart, error) {
	return s.Dispatch(ctx, visitorID, Clear{})
}
