package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieManager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &CookieManager{Domain: "shop.test", Secure: true, now: func() time.Time { return now }}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	m.SetVisitor(c, "tok", now.Add(time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, VisitorCookie, ck.Name)
	assert.Equal(t, "tok", ck.Value)
	assert.Equal(t, 3600, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "tok"})
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	assert.Equal(t, "tok", m.Visitor(c))

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	m.Clear(c)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}
