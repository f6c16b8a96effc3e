package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-storefront/internal/interface/middleware"
)

// Limits is the Redis-backed rate limit shared by the modules.
type Limits struct {
	Store     middleware.LimiterStore
	PerMinute int
}

func (l Limits) perMinute(max int, key middleware.KeyFunc) gin.HandlerFunc {
	return l.perMinuteUnless(max, key, nil)
}

func (l Limits) perMinuteUnless(max int, key middleware.KeyFunc, allow middleware.AllowFunc) gin.HandlerFunc {
	if max <= 0 {
		max = l.PerMinute
	}
	return middleware.RateLimit(l.Store, max, time.Minute, key, allow)
}
