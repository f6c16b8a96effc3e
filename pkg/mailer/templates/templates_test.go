package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

func sampleOrder() entity.Order {
	return entity.Order{
		ID:            "ord-9",
		CustomerName:  "Jo",
		CustomerEmail: "jo@example.com",
		Status:        entity.OrderStatusShipped,
		Total:         250,
		PaymentMethod: "card",
		Items: []entity.OrderItem{
			{ProductID: "a", ProductName: "Apples", ProductPrice: 100, Quantity: 2},
			{ProductID: "b", ProductName: "Bread <fresh>", ProductPrice: 50, Quantity: 1},
		},
		CreatedAt: time.Date(2024, 6, 15, 15, 0, 0, 0, time.UTC),
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	data := NewOrderConfirmationData(StoreInfo{StoreName: "Corner Shop", SupportURL: "https://shop.example.com/help"}, sampleOrder())

	subject, text, html, err := Render(OrderConfirmation, data)
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop: order ord-9 received", subject)
	assert.Contains(t, text, "- Apples x2  200.00")
	assert.Contains(t, text, "Total: 250.00")
	assert.Contains(t, text, "Delivery: -")
	assert.Contains(t, text, "15 June 2024, 15:00")
	assert.Contains(t, html, "Bread &lt;fresh&gt;")
	assert.Contains(t, html, "https://shop.example.com/help")
}

func TestRenderOrderStatus(t *testing.T) {
	subject, _, html, err := Render(OrderStatus, NewOrderStatusData(StoreInfo{}, sampleOrder()))
	require.NoError(t, err)
	assert.Equal(t, "Storefront: order ord-9 is shipped", subject)
	assert.Contains(t, html, "<strong>Shipped</strong>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", map[string]any{})
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestFuncs(t *testing.T) {
	assert.Equal(t, "12.50", money(12.5))
	assert.Equal(t, "3.00", money(3))
	assert.Equal(t, "7.10", money("7.1"))
	assert.Equal(t, "0.00", money(nil))
	assert.True(t, blank("  "))
	assert.True(t, blank(0.0))
	assert.False(t, blank("x"))
}
