package templates

import (
	"encoding/json"
	"time"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

// StoreInfo is the sender branding shared by every order email.
type StoreInfo struct {
	StoreName  string `json:"StoreName"`
	SupportURL string `json:"SupportURL"`
	OrdersURL  string `json:"OrdersURL"`
}

type OrderLine struct {
	Name     string  `json:"Name"`
	Quantity int     `json:"Quantity"`
	Price    float64 `json:"Price"`
	Subtotal float64 `json:"Subtotal"`
}

// OrderEmailData is the template data for order emails.
type OrderEmailData struct {
	StoreInfo
	Name           string      `json:"Name"`
	Email          string      `json:"Email"`
	OrderID        string      `json:"OrderID"`
	Status         string      `json:"Status"`
	Items          []OrderLine `json:"Items"`
	Total          float64     `json:"Total"`
	PaymentMethod  string      `json:"PaymentMethod"`
	DeliveryMethod string      `json:"DeliveryMethod"`
	PlacedAt       string      `json:"PlacedAt"`
}

// ToMap converts data to the loose map carried by mailer.EmailJob.
func ToMap(d any) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

func orderData(store StoreInfo, o entity.Order) OrderEmailData {
	d := OrderEmailData{
		StoreInfo:      store,
		Name:           o.CustomerName,
		Email:          o.CustomerEmail,
		OrderID:        o.ID,
		Status:         o.Status,
		Total:          o.Total,
		PaymentMethod:  o.PaymentMethod,
		DeliveryMethod: o.DeliveryMethod,
		Items:          make([]OrderLine, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		d.Items = append(d.Items, OrderLine{Name: it.ProductName, Quantity: it.Quantity, Price: it.ProductPrice, Subtotal: it.Subtotal()})
	}
	if !o.CreatedAt.IsZero() {
		d.PlacedAt = o.CreatedAt.Format("02 January 2006, 15:04")
	} else {
		d.PlacedAt = time.Now().Format("02 January 2006, 15:04")
	}
	return d
}

func NewOrderConfirmationData(store StoreInfo, o entity.Order) map[string]any {
	return ToMap(orderData(store, o))
}

func NewOrderStatusData(store StoreInfo, o entity.Order) map[string]any {
	return ToMap(orderData(store, o))
}
