package api

import (
	"context"
	"net/http"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

// AuthResult is what login, register and refresh hand back.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

type authResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         *userDTO `json:"user"`
}

func (r authResponse) toResult() AuthResult {
	res := AuthResult{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
	if r.User != nil {
		u := r.User.toEntity()
		res.User = &u
	}
	return res
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required,max=100"`
}

// ProfileInput is the profile update payload.
type ProfileInput struct {
	Name      string `json:"name" binding:"omitempty,max=100"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

// Login, Register and Refresh never go through the refresh-and-retry path.

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return AuthResult{}, err
	}
	var out authResponse
	if err := c.roundTrip(ctx, req, "", &out); err != nil {
		return AuthResult{}, err
	}
	return out.toResult(), nil
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/register", in)
	if err != nil {
		return AuthResult{}, err
	}
	var out authResponse
	if err := c.roundTrip(ctx, req, "", &out); err != nil {
		return AuthResult{}, err
	}
	return out.toResult(), nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return AuthResult{}, err
	}
	var out authResponse
	if err := c.roundTrip(ctx, req, "", &out); err != nil {
		return AuthResult{}, err
	}
	return out.toResult(), nil
}

// Logout tells the backend to revoke the refresh token.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	req, err := jsonRequest(http.MethodPost, "/auth/logout", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, req, accessToken, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (*entity.User, error) {
	var out userDTO
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	u := out.toEntity()
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (*entity.User, error) {
	var out userDTO
	if err := c.call(ctx, http.MethodPut, "/auth/profile", in, &out); err != nil {
		return nil, err
	}
	u := out.toEntity()
	return &u, nil
}
