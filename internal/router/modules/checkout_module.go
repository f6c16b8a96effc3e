package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-storefront/internal/interface/http"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
)

type CheckoutModule struct {
	Handler *handlers.CheckoutHandler
	Limits  Limits
}

func NewCheckoutModule(h *handlers.CheckoutHandler, l Limits) *CheckoutModule {
	return &CheckoutModule{Handler: h, Limits: l}
}

func (m *CheckoutModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.RequireSession())
	{
		auth.POST("/checkout", m.Limits.perMinute(10, middleware.KeyByVisitor()), m.Handler.Place)
		auth.GET("/orders/:id", m.Handler.GetOrder)
	}
}
