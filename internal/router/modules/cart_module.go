package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-storefront/internal/interface/http"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
)

// CartModule serves the visitor's cart. Anonymous visitors have carts too.
type CartModule struct {
	Handler *handlers.CartHandler
	Limits  Limits
}

func NewCartModule(h *handlers.CartHandler, l Limits) *CartModule {
	return &CartModule{Handler: h, Limits: l}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/cart")
	g.Use(m.Limits.perMinute(0, middleware.KeyByVisitor()))
	{
		g.GET("", m.Handler.Get)
		g.DELETE("", m.Handler.Clear)
		g.POST("/items", m.Handler.AddItem)
		g.PUT("/items/:productId", m.Handler.UpdateQuantity)
		g.DELETE("/items/:productId", m.Handler.RemoveItem)
	}
}
