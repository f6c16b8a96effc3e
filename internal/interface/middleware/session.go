package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/application/session"
	"github.com/oksasatya/go-storefront/pkg/response"
)

const ctxSession = "session"

// Session binds the visitor's session manager to the request and initializes
// it from persisted credentials. It must run after Visitor.
func Session(svc *session.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := svc.For(VisitorID(c))
		if _, err := m.Initialize(c.Request.Context()); err != nil {
			logger.WithError(err).WithField("visitor", VisitorID(c)).Error("session init failed")
			response.Fail(c, http.StatusServiceUnavailable, "session store unavailable", nil)
			return
		}
		c.Set(ctxSession, m)
		c.Next()
	}
}

// SessionFrom returns the manager bound by Session.
func SessionFrom(c *gin.Context) *session.Manager {
	if v, ok := c.Get(ctxSession); ok {
		if m, ok := v.(*session.Manager); ok {
			return m
		}
	}
	return nil
}

// RequireSession guards protected routes. An expiring token is refreshed
// first; a failed refresh still lets the request through.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := SessionFrom(c)
		if m == nil {
			response.Fail(c, http.StatusUnauthorized, "sign in required", nil)
			return
		}
		if _, err := m.EnsureFresh(c.Request.Context()); err != nil {
			if errors.Is(err, session.ErrNotSignedIn) {
				response.Fail(c, http.StatusUnauthorized, "sign in required", nil)
				return
			}
			response.Fail(c, http.StatusServiceUnavailable, "session store unavailable", nil)
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := SessionFrom(c)
		if m == nil || !m.State().User.IsAdmin() {
			response.Fail(c, http.StatusForbidden, "admin access required", nil)
			return
		}
		c.Next()
	}
}
