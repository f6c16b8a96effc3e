package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-storefront/internal/interface/middleware"
)

type DebugModule struct {
	Limits      Limits
	PrivateOnly bool
}

func NewDebugModule(l Limits, privateOnly bool) *DebugModule {
	return &DebugModule{Limits: l, PrivateOnly: privateOnly}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar, rate limited per IP; private networks skip the limit
	chain := []gin.HandlerFunc{m.Limits.perMinuteUnless(0, middleware.KeyByIP(), middleware.AllowPrivateIP())}
	if m.PrivateOnly {
		chain = append([]gin.HandlerFunc{middleware.DenyUnlessPrivateIP()}, chain...)
	}
	rg.GET("/debug/vars", append(chain, gin.WrapH(expvar.Handler()))...)
}
