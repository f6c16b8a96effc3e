package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/application/checkout"
	"github.com/oksasatya/go-storefront/internal/infrastructure/api"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-storefront/pkg/response"
)

type CheckoutHandler struct {
	Checkout *checkout.Service
	Backend  *api.Client
	Logger   *logrus.Logger
}

func NewCheckoutHandler(svc *checkout.Service, backend *api.Client, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{Checkout: svc, Backend: backend, Logger: logger}
}

// Place turns the visitor's cart into a backend order.
func (h *CheckoutHandler) Place(c *gin.Context) {
	var in checkout.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		invalid(c, err)
		return
	}
	m, err := sessionOf(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	order, err := h.Checkout.Checkout(c.Request.Context(), middleware.VisitorID(c), m.State().User, m.Client(h.Backend), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, order, "order placed")
}

func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	client, err := authed(c, h.Backend)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	order, err := client.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, order, "")
}
