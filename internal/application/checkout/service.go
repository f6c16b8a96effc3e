// Package checkout turns a visitor's cart into a backend order.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/application/cart"
	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderPlacer creates orders on the backend with the shopper's credentials.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, in entity.NewOrder) (*entity.Order, error)
}

// Input is what the shopper fills in at checkout.
type Input struct {
	PaymentMethod   string `json:"payment_method" binding:"required,max=50"`
	DeliveryMethod  string `json:"delivery_method" binding:"required,max=50"`
	ShippingAddress string `json:"shipping_address" binding:"max=500"`
	Phone           string `json:"phone" binding:"omitempty,phone"`
}

type Service struct {
	Carts    *cart.Store
	Notifier *Notifier
	Logger   *logrus.Logger
}

func NewService(carts *cart.Store, notifier *Notifier, logger *logrus.Logger) *Service {
	return &Service{Carts: carts, Notifier: notifier, Logger: logger}
}

// Checkout submits the cart as it is. Prices are the snapshots taken when
// items were added; the backend is the authority on the final total.
func (s *Service) Checkout(ctx context.Context, visitorID string, user *entity.User, orders OrderPlacer, in Input) (*entity.Order, error) {
	c, err := s.Carts.Get(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	req := BuildOrder(c, user, in)
	order, err := orders.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if order.CustomerEmail == "" {
		order.CustomerEmail = req.CustomerEmail
	}
	if order.CustomerName == "" {
		order.CustomerName = req.CustomerName
	}
	if len(order.Items) == 0 {
		order.Items = req.Items
	}

	if _, err := s.Carts.Clear(ctx, visitorID); err != nil {
		s.Logger.WithError(err).WithField("order_id", order.ID).Error("order placed but cart not cleared")
	}
	s.Notifier.OrderPlaced(ctx, *order)

	s.Logger.WithFields(logrus.Fields{"order_id": order.ID, "visitor": visitorID, "total": req.Total}).Info("order placed")
	return order, nil
}

// BuildOrder maps cart lines onto the backend's order payload.
func BuildOrder(c entity.Cart, user *entity.User, in Input) entity.NewOrder {
	out := entity.NewOrder{
		Items:           make([]entity.OrderItem, 0, len(c.Lines)),
		Total:           c.Total(),
		PaymentMethod:   in.PaymentMethod,
		DeliveryMethod:  in.DeliveryMethod,
		ShippingAddress: in.ShippingAddress,
		Phone:           in.Phone,
	}
	if user != nil {
		out.CustomerEmail = user.Email
		out.CustomerName = user.Name
	}
	for _, l := range c.Lines {
		out.Items = append(out.Items, entity.OrderItem{
			ProductID:    l.Product.ID,
			ProductName:  l.Product.Name,
			ProductPrice: l.Product.Price,
			Quantity:     l.Quantity,
		})
	}
	return out
}
