package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-storefront/internal/application/session"
	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
	"github.com/oksasatya/go-storefront/internal/infrastructure/api"
	"github.com/oksasatya/go-storefront/internal/infrastructure/memory"
	"github.com/oksasatya/go-storefront/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "6f1c3f0a-2c4e-4e59-9a53-0f3d1c7b2a10")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "6f1c3f0a-2c4e-4e59-9a53-0f3d1c7b2a10", w.Body.String())

	req.Header.Set(HeaderRequestID, "not a uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	req.Header.Set("CF-Connecting-IP", "198.51.100.2")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.2", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.Use(RealIP(), RateLimit(rdb, 2, time.Minute, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, do().Code)
	w := do()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusNoContent, do().Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	r := gin.New()
	r.Use(RateLimit(rdb, 1, time.Minute, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestAllowPrivateIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP(), DenyUnlessPrivateIP())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "192.168.1.5")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVisitorIssuesAndReusesCookie(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := gin.New()
	r.Use(Visitor(jwt, helpers.NewCookie("", false), quietLogger()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, VisitorID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	first := w.Body.String()
	require.NotEmpty(t, first)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())
	assert.Empty(t, w.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: helpers.VisitorCookie, Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, first, w.Body.String())
}

type stubAuth struct{}

func (stubAuth) Login(context.Context, string, string) (api.AuthResult, error) {
	return api.AuthResult{}, nil
}
func (stubAuth) Register(context.Context, api.RegisterInput) (api.AuthResult, error) {
	return api.AuthResult{}, nil
}
func (stubAuth) Refresh(context.Context, string) (api.AuthResult, error) {
	return api.AuthResult{AccessToken: "fresh"}, nil
}
func (stubAuth) Logout(context.Context, string, string) error { return nil }

func sessionRouter(creds entity.Credentials) *gin.Engine {
	store := memory.NewCredentialStore(creds)
	svc := session.NewService(stubAuth{}, func(string) repository.CredentialStore { return store }, session.Options{Logger: quietLogger()})

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(CtxVisitorID, "v1"); c.Next() }, Session(svc, quietLogger()))
	r.GET("/me", RequireSession(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/admin", RequireSession(), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRequireSessionAndAdmin(t *testing.T) {
	cases := []struct {
		name       string
		creds      entity.Credentials
		path       string
		wantStatus int
	}{
		{"anonymous on protected", entity.Credentials{}, "/me", http.StatusUnauthorized},
		{"customer on protected", entity.Credentials{AccessToken: "a", RefreshToken: "r", UserID: "1", UserRole: entity.RoleCustomer}, "/me", http.StatusNoContent},
		{"customer on admin", entity.Credentials{AccessToken: "a", RefreshToken: "r", UserID: "1", UserRole: entity.RoleCustomer}, "/admin", http.StatusForbidden},
		{"admin on admin", entity.Credentials{AccessToken: "a", RefreshToken: "r", UserID: "1", UserRole: entity.RoleAdmin}, "/admin", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			sessionRouter(tc.creds).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}
