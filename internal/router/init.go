package router

import (
	"github.com/oksasatya/go-storefront/internal/container"
	handlers "github.com/oksasatya/go-storefront/internal/interface/http"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-storefront/internal/router/modules"
)

// InitModules builds the handlers from the container and registers every
// module. Visitor and session resolution run on all /api routes.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	limits := modules.Limits{Store: c.Redis, PerMinute: cfg.RateLimitPerMinute}

	r.Use(
		middleware.Visitor(c.JWT, c.Cookies, c.Logger),
		middleware.Session(c.Sessions, c.Logger),
	)

	admin := &handlers.AdminHandler{
		Backend:  c.Backend,
		Catalog:  c.Catalog,
		Cache:    c.Products,
		Notifier: c.Notifier,
		Logger:   c.Logger,
	}
	if c.Reports != nil {
		admin.Mirror = c.Reports
		if cfg.AnalyticsFromPostgres() {
			admin.Reports = c.Reports
		}
	}
	if c.Images != nil {
		admin.Images = c.Images
	}

	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(c.Catalog, c.Backend, c.Logger), limits))
	r.Add(modules.NewCartModule(handlers.NewCartHandler(c.Carts, c.Backend, c.Logger), limits))
	r.Add(modules.NewSessionModule(handlers.NewSessionHandler(c.Backend, c.Logger), limits))
	r.Add(modules.NewCheckoutModule(handlers.NewCheckoutHandler(c.Checkout, c.Backend, c.Logger), limits))
	r.Add(modules.NewAdminModule(admin))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limits, cfg.DebugPrivateOnly))
	}
}
