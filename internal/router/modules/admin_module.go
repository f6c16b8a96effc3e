package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-storefront/internal/interface/http"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
)

// AdminModule is the back office. Every route needs a signed-in admin.
type AdminModule struct {
	Handler *handlers.AdminHandler
}

func NewAdminModule(h *handlers.AdminHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin")
	g.Use(middleware.RequireSession(), middleware.RequireAdmin())
	{
		g.GET("/analytics", m.Handler.Analytics)
		g.GET("/stock", m.Handler.Stock)
		g.GET("/products/low-stock", m.Handler.LowStock)

		g.GET("/orders", m.Handler.Orders)
		g.PATCH("/orders/:id/status", m.Handler.UpdateOrderStatus)

		g.POST("/products", m.Handler.CreateProduct)
		g.PUT("/products/:id", m.Handler.UpdateProduct)
		g.DELETE("/products/:id", m.Handler.DeleteProduct)

		g.POST("/categories", m.Handler.CreateCategory)
		g.PUT("/categories/:id", m.Handler.UpdateCategory)
		g.DELETE("/categories/:id", m.Handler.DeleteCategory)

		g.POST("/uploads/image", m.Handler.UploadImage)
		g.POST("/search/reindex", m.Handler.Reindex)
		g.POST("/reports/sync", m.Handler.SyncReports)
	}
}
