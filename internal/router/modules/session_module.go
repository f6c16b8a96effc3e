package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-storefront/internal/interface/http"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
)

// SessionModule wires sign-in, sign-out and profile routes.
// Public: login, register, refresh, logout, session
// Protected: me, profile
type SessionModule struct {
	Handler *handlers.SessionHandler
	Limits  Limits
}

func NewSessionModule(h *handlers.SessionHandler, l Limits) *SessionModule {
	return &SessionModule{Handler: h, Limits: l}
}

func (m *SessionModule) Register(rg *gin.RouterGroup) {
	loginLimiter := m.Limits.perMinute(10, middleware.KeyByIPAndPath())
	refreshLimiter := m.Limits.perMinute(60, middleware.KeyByVisitor())

	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/register", loginLimiter, m.Handler.Register)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/auth/logout", m.Handler.Logout)
	rg.GET("/auth/session", m.Handler.State)

	auth := rg.Group("/auth")
	auth.Use(middleware.RequireSession())
	{
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/profile", m.Handler.UpdateProfile)
	}
}
