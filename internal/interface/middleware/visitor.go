package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/pkg/helpers"
	"github.com/oksasatya/go-storefront/pkg/response"
)

const CtxVisitorID = "visitor_id"

// Visitor resolves the signed visitor cookie into a visitor id, issuing a
// new one when the cookie is missing or does not verify.
func Visitor(jwt *helpers.JWTManager, cookies *helpers.CookieManager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := cookies.Visitor(c); tok != "" {
			if id, err := jwt.ParseVisitor(tok); err == nil {
				c.Set(CtxVisitorID, id)
				c.Next()
				return
			}
		}

		id := uuid.NewString()
		tok, exp, err := jwt.IssueVisitor(id)
		if err != nil {
			logger.WithError(err).Error("failed to sign visitor cookie")
			response.Fail(c, http.StatusInternalServerError, "internal error", nil)
			return
		}
		cookies.SetVisitor(c, tok, exp)
		c.Set(CtxVisitorID, id)
		c.Next()
	}
}

// VisitorID returns the id set by Visitor.
func VisitorID(c *gin.Context) string {
	return c.GetString(CtxVisitorID)
}
