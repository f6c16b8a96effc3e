package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const VisitorCookie = "sf_visitor"

// CookieManager owns the signed visitor cookie. It is HttpOnly and SameSite=Lax
// so the storefront can read carts cross-page but scripts cannot.
type CookieManager struct {
	Domain string
	Secure bool
	now    func() time.Time
}

func NewCookie(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure, now: time.Now}
}

func (m *CookieManager) write(c *gin.Context, value string, exp time.Time) {
	ck := &http.Cookie{
		Name:     VisitorCookie,
		Value:    value,
		Path:     "/",
		Domain:   m.Domain,
		Secure:   m.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1
	} else {
		now := time.Now
		if m.now != nil {
			now = m.now
		}
		ck.Expires = exp.UTC()
		ck.MaxAge = max(1, int(exp.Sub(now()).Seconds()))
	}
	http.SetCookie(c.Writer, ck)
}

// SetVisitor issues token until exp.
func (m *CookieManager) SetVisitor(c *gin.Context, token string, exp time.Time) {
	m.write(c, token, exp)
}

// Visitor returns the raw cookie value, empty when absent.
func (m *CookieManager) Visitor(c *gin.Context) string {
	v, _ := c.Cookie(VisitorCookie)
	return v
}

func (m *CookieManager) Clear(c *gin.Context) {
	m.write(c, "", time.Time{})
}
