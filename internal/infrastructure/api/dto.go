package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

// The backend is loosely typed: ids come as numbers or strings, prices as
// numbers or numeric strings and fields may be missing. Wire types below
// accept all of that and are normalised into entities once, here.

type flexString struct {
	Value string
	Valid bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.Value, f.Valid = s, true
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	f.Value, f.Valid = n.String(), true
	return nil
}

type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		f.Value, f.Valid = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		// unparsable numbers count as missing
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

type flexTime struct {
	Value time.Time
	Valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		return nil
	}
	for _, l := range timeLayouts {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			f.Value, f.Valid = t, true
			return nil
		}
	}
	return nil
}

// categoryRef accepts a category name, or an embedded {id, name} object.
type categoryRef struct {
	ID   string
	Name string
}

func (c *categoryRef) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		c.Name = s
		return nil
	}
	var obj struct {
		ID   flexString `json:"id"`
		Name string     `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	c.ID, c.Name = obj.ID.Value, obj.Name
	return nil
}

type productDTO struct {
	ID            flexString  `json:"id"`
	Name          *string     `json:"name"`
	Description   *string     `json:"description"`
	Price         flexFloat   `json:"price"`
	Category      categoryRef `json:"category"`
	CategoryID    flexString  `json:"category_id"`
	CategoryName  *string     `json:"category_name"`
	Brand         *string     `json:"brand"`
	ImageURL      *string     `json:"image_url"`
	StockQuantity flexFloat   `json:"stock_quantity"`
	InStock       *bool       `json:"in_stock"`
	IsFeatured    *bool       `json:"is_featured"`
	CreatedDate   flexTime    `json:"created_date"`
	CreatedAt     flexTime    `json:"created_at"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func (d productDTO) toEntity() entity.Product {
	p := entity.Product{
		ID:            d.ID.Value,
		Name:          str(d.Name),
		Description:   str(d.Description),
		Price:         d.Price.Value,
		CategoryID:    d.CategoryID.Value,
		Category:      d.Category.Name,
		Brand:         str(d.Brand),
		ImageURL:      str(d.ImageURL),
		StockQuantity: int(d.StockQuantity.Value),
		IsFeatured:    d.IsFeatured != nil && *d.IsFeatured,
	}
	if p.Category == "" {
		p.Category = str(d.CategoryName)
	}
	if p.CategoryID == "" {
		p.CategoryID = d.Category.ID
	}
	if d.InStock != nil {
		p.InStock = *d.InStock
	} else {
		p.InStock = p.StockQuantity > 0
	}
	switch {
	case d.CreatedDate.Valid:
		p.CreatedAt = d.CreatedDate.Value
	case d.CreatedAt.Valid:
		p.CreatedAt = d.CreatedAt.Value
	}
	return p
}

type orderItemDTO struct {
	ProductID    flexString `json:"product_id"`
	ProductName  *string    `json:"product_name"`
	ProductPrice flexFloat  `json:"product_price"`
	Quantity     flexFloat  `json:"quantity"`
}

type orderDTO struct {
	ID             flexString     `json:"id"`
	Items          []orderItemDTO `json:"items"`
	Total          flexFloat      `json:"total"`
	Status         *string        `json:"status"`
	PaymentMethod  *string        `json:"payment_method"`
	DeliveryMethod *string        `json:"delivery_method"`
	CustomerEmail  *string        `json:"customer_email"`
	CustomerName   *string        `json:"customer_name"`
	CreatedDate    flexTime       `json:"created_date"`
	CreatedAt      flexTime       `json:"created_at"`
}

func (d orderDTO) toEntity() entity.Order {
	o := entity.Order{
		ID:             d.ID.Value,
		Total:          d.Total.Value,
		Status:         strings.ToLower(str(d.Status)),
		PaymentMethod:  str(d.PaymentMethod),
		DeliveryMethod: str(d.DeliveryMethod),
		CustomerEmail:  str(d.CustomerEmail),
		CustomerName:   str(d.CustomerName),
		Items:          make([]entity.OrderItem, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		o.Items = append(o.Items, entity.OrderItem{
			ProductID:    it.ProductID.Value,
			ProductName:  str(it.ProductName),
			ProductPrice: it.ProductPrice.Value,
			Quantity:     int(it.Quantity.Value),
		})
	}
	switch {
	case d.CreatedDate.Valid:
		o.CreatedAt = d.CreatedDate.Value
	case d.CreatedAt.Valid:
		o.CreatedAt = d.CreatedAt.Value
	}
	return o
}

type categoryDTO struct {
	ID          flexString `json:"id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ParentID    flexString `json:"parent_id"`
}

func (d categoryDTO) toEntity() entity.Category {
	return entity.Category{
		ID:          d.ID.Value,
		Name:        str(d.Name),
		Description: str(d.Description),
		ParentID:    d.ParentID.Value,
	}
}

type userDTO struct {
	ID        flexString `json:"id"`
	Email     *string    `json:"email"`
	Name      *string    `json:"name"`
	FullName  *string    `json:"full_name"`
	Role      *string    `json:"role"`
	AvatarURL *string    `json:"avatar_url"`
}

func (d userDTO) toEntity() entity.User {
	u := entity.User{
		ID:        d.ID.Value,
		Email:     str(d.Email),
		Name:      str(d.Name),
		Role:      strings.ToLower(str(d.Role)),
		AvatarURL: str(d.AvatarURL),
	}
	if u.Name == "" {
		u.Name = str(d.FullName)
	}
	return u
}

func productsToEntities(in []productDTO) []entity.Product {
	out := make([]entity.Product, 0, len(in))
	for _, d := range in {
		out = append(out, d.toEntity())
	}
	return out
}

func ordersToEntities(in []orderDTO) []entity.Order {
	out := make([]entity.Order, 0, len(in))
	for _, d := range in {
		out = append(out, d.toEntity())
	}
	return out
}

func categoriesToEntities(in []categoryDTO) []entity.Category {
	out := make([]entity.Category, 0, len(in))
	for _, d := range in {
		out = append(out, d.toEntity())
	}
	return out
}
