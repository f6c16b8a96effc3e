package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/application/cart"
	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-storefront/pkg/response"
)

// ProductGetter looks up the product a shopper adds to the cart.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
}

type CartHandler struct {
	Carts    *cart.Store
	Products ProductGetter
	Logger   *logrus.Logger
}

func NewCartHandler(carts *cart.Store, products ProductGetter, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Carts: carts, Products: products, Logger: logger}
}

type cartView struct {
	Lines     []entity.CartLine `json:"lines"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
}

func viewOf(c entity.Cart) cartView {
	lines := c.Lines
	if lines == nil {
		lines = []entity.CartLine{}
	}
	return cartView{Lines: lines, Total: c.Total(), ItemCount: c.ItemCount()}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,qty"`
}

func (h *CartHandler) Get(c *gin.Context) {
	cur, err := h.Carts.Get(c.Request.Context(), middleware.VisitorID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, viewOf(cur), "")
}

// AddItem snapshots the product as the backend reports it now and adds one
// unit to the cart.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	p, err := h.Products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if !p.InStock {
		response.Fail(c, http.StatusBadRequest, "product is out of stock", map[string]string{"product_id": "out of stock"})
		return
	}
	cur, err := h.Carts.AddItem(c.Request.Context(), middleware.VisitorID(c), p.Snapshot())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, viewOf(cur), "added to cart")
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	cur, err := h.Carts.UpdateQuantity(c.Request.Context(), middleware.VisitorID(c), c.Param("productId"), *req.Quantity)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, viewOf(cur), "")
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	cur, err := h.Carts.RemoveItem(c.Request.Context(), middleware.VisitorID(c), c.Param("productId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, viewOf(cur), "")
}

func (h *CartHandler) Clear(c *gin.Context) {
	cur, err := h.Carts.Clear(c.Request.Context(), middleware.VisitorID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, viewOf(cur), "cart cleared")
}
