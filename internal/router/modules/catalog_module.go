package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-storefront/internal/interface/http"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
)

// CatalogModule exposes the public product and category pages.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
	Limits  Limits
}

func NewCatalogModule(h *handlers.CatalogHandler, l Limits) *CatalogModule {
	return &CatalogModule{Handler: h, Limits: l}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	pub := rg.Group("/")
	pub.Use(m.Limits.perMinute(0, middleware.KeyByIP()))
	{
		pub.GET("/products", m.Handler.List)
		pub.GET("/products/search", m.Handler.Search)
		pub.GET("/products/featured", m.Handler.Featured)
		pub.GET("/products/:id", m.Handler.Get)
		pub.GET("/categories", m.Handler.Categories)
		pub.GET("/categories/top-level", m.Handler.TopLevelCategories)
		pub.GET("/categories/:id/children", m.Handler.ChildCategories)
		pub.GET("/categories/:id/products", m.Handler.ByCategory)
	}
}
