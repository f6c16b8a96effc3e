package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-storefront/pkg/response"
)

// clientIP prefers the address resolved by RealIP.
func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// routePath is the registered route pattern, so /products/1 and /products/2
// share a bucket.
func routePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc picks the bucket a request is counted in.
type KeyFunc func(c *gin.Context) string

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + clientIP(c) }
}

func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string { return "rl:path:" + routePath(c) + ":ip:" + clientIP(c) }
}

// KeyByVisitor counts per visitor and route; requests without a visitor id
// fall back to the client address.
func KeyByVisitor() KeyFunc {
	return func(c *gin.Context) string {
		if v := c.GetString(CtxVisitorID); v != "" {
			return "rl:visitor:" + v + ":path:" + routePath(c)
		}
		return "rl:visitor:anon:ip:" + clientIP(c)
	}
}

// AllowFunc returns true for requests that skip the limiter.
type AllowFunc func(*gin.Context) bool

// LimiterStore is the Redis surface the limiter needs.
type LimiterStore interface {
	redis.Scripter
}

// hit bumps the window counter and returns {count, pttl}.
var hit = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type bucket struct {
	count int
	reset time.Duration
}

func take(c *gin.Context, rdb LimiterStore, key string, window time.Duration) (bucket, error) {
	vals, err := hit.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return bucket{}, err
	}
	if len(vals) != 2 {
		return bucket{}, redis.Nil
	}
	b := bucket{count: int(vals[0])}
	if vals[1] > 0 {
		b.reset = time.Duration(vals[1]) * time.Millisecond
	}
	return b, nil
}

// RateLimit is a fixed-window limiter backed by Redis. Preflight requests and
// those accepted by allow are not counted. A Redis failure lets the request
// through.
func RateLimit(rdb LimiterStore, perWindow int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || perWindow <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(perWindow)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}
		b, err := take(c, rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}
		secs := int(b.reset.Round(time.Second) / time.Second)
		if b.reset > 0 && secs == 0 {
			secs = 1
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, perWindow-b.count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(secs))
		if b.count <= perWindow {
			c.Next()
			return
		}
		if secs > 0 {
			c.Header("Retry-After", strconv.Itoa(secs))
		}
		response.Fail(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
	}
}
