package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/application/checkout"
	"github.com/oksasatya/go-storefront/internal/application/session"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
	"github.com/oksasatya/go-storefront/internal/infrastructure/api"
	"github.com/oksasatya/go-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-storefront/pkg/response"
	"github.com/oksasatya/go-storefront/pkg/validation"
)

var errNoSession = errors.New("no session bound")

// fail maps an error onto the status taxonomy: invalid input 400, not signed
// in 401, not allowed 403, missing 404, anything upstream 502.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	var apiErr *api.Error
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		response.Fail(c, http.StatusBadRequest, "cart is empty", map[string]string{"cart": "must contain at least one item"})
	case errors.Is(err, session.ErrNotSignedIn), errors.Is(err, errNoSession):
		response.Fail(c, http.StatusUnauthorized, "sign in required", nil)
	case errors.Is(err, api.ErrUnauthorized):
		response.Fail(c, http.StatusUnauthorized, "session expired, please sign in again", nil)
	case errors.Is(err, api.ErrForbidden):
		response.Fail(c, http.StatusForbidden, "not allowed", nil)
	case errors.Is(err, api.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, api.ErrBadRequest) && errors.As(err, &apiErr):
		response.Fail(c, http.StatusBadRequest, apiErr.Message, nil)
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
		response.Fail(c, http.StatusBadGateway, "backend unavailable, please retry", nil)
	}
}

func invalid(c *gin.Context, err error) {
	response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func sessionOf(c *gin.Context) (*session.Manager, error) {
	m := middleware.SessionFrom(c)
	if m == nil {
		return nil, errNoSession
	}
	return m, nil
}

// authed returns the backend client bound to the caller's session.
func authed(c *gin.Context, backend *api.Client) (*api.Client, error) {
	m, err := sessionOf(c)
	if err != nil {
		return nil, err
	}
	return m.Client(backend), nil
}
