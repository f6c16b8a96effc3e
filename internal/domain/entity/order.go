package entity

import "time"

// Order statuses used by the backend.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// UnknownBucket is used wherever a grouping key is missing.
const UnknownBucket = "unknown"

// OrderItem is a line of a placed order.
type OrderItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
}

func (i OrderItem) Subtotal() float64 {
	return i.ProductPrice * float64(i.Quantity)
}

// Order is a read-only order record normalised from the backend.
type Order struct {
	ID             string      `json:"id"`
	Items          []OrderItem `json:"items"`
	Total          float64     `json:"total"`
	Status         string      `json:"status"`
	PaymentMethod  string      `json:"payment_method"`
	DeliveryMethod string      `json:"delivery_method"`
	CustomerEmail  string      `json:"customer_email"`
	CustomerName   string      `json:"customer_name"`
	CreatedAt      time.Time   `json:"created_date"`
}

// NewOrder is what checkout submits to the backend.
type NewOrder struct {
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	PaymentMethod   string      `json:"payment_method"`
	DeliveryMethod  string      `json:"delivery_method"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerName    string      `json:"customer_name"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	Phone           string      `json:"phone,omitempty"`
}
