package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/application/session"
	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/infrastructure/api"
	"github.com/oksasatya/go-storefront/pkg/response"
)

// SessionHandler signs visitors in and out against the backend.
type SessionHandler struct {
	Backend *api.Client
	Logger  *logrus.Logger
}

func NewSessionHandler(backend *api.Client, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{Backend: backend, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	m, err := sessionOf(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	state, err := m.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			response.Fail(c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, state, "signed in")
}

func (h *SessionHandler) Register(c *gin.Context) {
	var req api.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	m, err := sessionOf(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	state, err := m.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, state, "account created")
}

// Refresh forces a token refresh. A rejected refresh token ends the session.
func (h *SessionHandler) Refresh(c *gin.Context) {
	m, err := sessionOf(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if _, err := m.Refresh(c.Request.Context()); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			m.HandleAuthFailure(c.Request.Context(), err)
		}
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, m.State(), "session refreshed")
}

func (h *SessionHandler) Logout(c *gin.Context) {
	m, err := sessionOf(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if err := m.Logout(c.Request.Context()); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, m.State(), "signed out")
}

// State reports whether the visitor is signed in. Anonymous is not an error.
func (h *SessionHandler) State(c *gin.Context) {
	m, err := sessionOf(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, m.State(), "")
}

func (h *SessionHandler) Me(c *gin.Context) {
	m, err := sessionOf(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	u, err := m.Client(h.Backend).CurrentUser(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, h.remember(c, m, u), "")
}

func (h *SessionHandler) UpdateProfile(c *gin.Context) {
	var req api.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	m, err := sessionOf(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	u, err := m.Client(h.Backend).UpdateProfile(c.Request.Context(), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, h.remember(c, m, u), "profile updated")
}

// remember stores u on the session and returns the merged user, which keeps
// the stored role when the backend reply has none.
func (h *SessionHandler) remember(c *gin.Context, m *session.Manager, u *entity.User) *entity.User {
	if err := m.SetUser(c.Request.Context(), u); err != nil {
		h.Logger.WithError(err).Warn("failed to persist user details")
		return u
	}
	return m.State().User
}
