package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	access     string
	accessErr  error
	refreshed  string
	refreshErr error
	refreshFn  func(ctx context.Context) (string, error)
	refreshes  atomic.Int32
}

func (f *fakeTokens) AccessToken(context.Context) (string, error) { return f.access, f.accessErr }

func (f *fakeTokens) Refresh(ctx context.Context) (string, error) {
	f.refreshes.Add(1)
	if f.refreshFn != nil {
		return f.refreshFn(ctx)
	}
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	return f.refreshed, nil
}

func writeData(w http.ResponseWriter, status int, data string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `{"data":`+data+`}`)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `{"message":"`+msg+`"}`)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func TestSend_RefreshThenSingleRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeError(w, http.StatusUnauthorized, "expired")
			return
		}
		writeData(w, http.StatusOK, `[{"id":1,"total":"12.5","status":"Pending"}]`)
	})

	tokens := &fakeTokens{access: "stale", refreshed: "fresh"}
	var logouts int
	authed := c.WithAuth(tokens, func(context.Context, error) { logouts++ })

	orders, err := authed.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "1", orders[0].ID)
	assert.Equal(t, 12.5, orders[0].Total)
	assert.Equal(t, "pending", orders[0].Status)

	assert.Equal(t, int32(2), calls.Load(), "original request plus exactly one retry")
	assert.Equal(t, int32(1), tokens.refreshes.Load())
	assert.Zero(t, logouts)
}

func TestSend_RefreshFailsLogsOutOnce(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeError(w, http.StatusUnauthorized, "token expired")
	})

	tokens := &fakeTokens{access: "stale", refreshErr: errors.New("refresh rejected")}
	var logouts int
	var reported error
	authed := c.WithAuth(tokens, func(_ context.Context, err error) {
		logouts++
		reported = err
	})

	_, err := authed.ListOrders(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "token expired", apiErr.Message)

	assert.Equal(t, 1, logouts)
	assert.Same(t, err, reported)
	assert.Equal(t, int32(1), calls.Load(), "no retry without a fresh token")
}

func TestSend_RetryStillUnauthorized(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		writeError(w, http.StatusUnauthorized, map[int32]string{1: "first", 2: "second"}[n])
	})

	tokens := &fakeTokens{access: "stale", refreshed: "also-bad"}
	var logouts int
	authed := c.WithAuth(tokens, func(context.Context, error) { logouts++ })

	_, err := authed.GetOrder(context.Background(), "42")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "first", apiErr.Message, "the original error is surfaced")
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 1, logouts)
}

func TestSend_TokenLoadErrorIsReturned(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeError(w, http.StatusUnauthorized, "no token")
	})

	storeDown := errors.New("redis: connection refused")
	tokens := &fakeTokens{accessErr: storeDown}
	var logouts int
	authed := c.WithAuth(tokens, func(context.Context, error) { logouts++ })

	_, err := authed.ListOrders(context.Background())
	assert.ErrorIs(t, err, storeDown)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, calls.Load(), "nothing is sent without the stored token")
	assert.Zero(t, tokens.refreshes.Load())
	assert.Zero(t, logouts)
}

func TestSend_CancelledDuringRefreshKeepsSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "expired")
	})

	ctx, cancel := context.WithCancel(context.Background())
	tokens := &fakeTokens{access: "stale", refreshFn: func(context.Context) (string, error) {
		cancel()
		return "", context.Canceled
	}}
	var logouts int
	authed := c.WithAuth(tokens, func(context.Context, error) { logouts++ })

	_, err := authed.ListOrders(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), tokens.refreshes.Load())
	assert.Zero(t, logouts)
}

func TestSend_NonAuthErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeError(w, http.StatusNotFound, "no such product")
	})
	tokens := &fakeTokens{access: "ok"}
	authed := c.WithAuth(tokens, nil)

	_, err := authed.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
	assert.Zero(t, tokens.refreshes.Load())
}

func TestLogin_NoRefreshFlow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeData(w, http.StatusOK, `{"access_token":"a","refresh_token":"r","user":{"id":7,"email":"jo@example.com","full_name":"Jo","role":null}}`)
	})

	tokens := &fakeTokens{}
	var logouts int
	authed := c.WithAuth(tokens, func(context.Context, error) { logouts++ })

	_, err := authed.Login(context.Background(), "jo@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, tokens.refreshes.Load())
	assert.Zero(t, logouts)

	res, err := authed.Login(context.Background(), "jo@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a", res.AccessToken)
	assert.Equal(t, "r", res.RefreshToken)
	require.NotNil(t, res.User)
	assert.Equal(t, "7", res.User.ID)
	assert.Equal(t, "Jo", res.User.Name)
	assert.Empty(t, res.User.Role, "a missing role is left for the session to resolve")
}

func TestProducts_NormalizesNullableFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search", r.URL.Path)
		assert.Equal(t, "milk", r.URL.Query().Get("q"))
		writeData(w, http.StatusOK, `[
			{"id":"p1","name":" Milk ","price":"1.99","category":{"id":3,"name":"Dairy"},"stock_quantity":4,"in_stock":null,"is_featured":true,"created_date":"2024-06-15T10:00:00"},
			{"id":"p2","name":null,"price":null,"category":"Bakery","stock_quantity":null}
		]`)
	})

	products, err := c.SearchProducts(context.Background(), "milk")
	require.NoError(t, err)
	require.Len(t, products, 2)

	p := products[0]
	assert.Equal(t, "Milk", p.Name)
	assert.Equal(t, 1.99, p.Price)
	assert.Equal(t, "Dairy", p.Category)
	assert.Equal(t, "3", p.CategoryID)
	assert.True(t, p.InStock)
	assert.True(t, p.IsFeatured)
	assert.Equal(t, 2024, p.CreatedAt.Year())

	q := products[1]
	assert.Empty(t, q.Name)
	assert.Zero(t, q.Price)
	assert.Equal(t, "Bakery", q.Category)
	assert.False(t, q.InStock)
}

func TestBreaker_OpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeError(w, http.StatusBadGateway, "down")
	}))
	t.Cleanup(srv.Close)
	c := New(Options{BaseURL: srv.URL, BreakerFailures: 2, BreakerOpenDelay: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := c.ListProducts(context.Background())
		assert.ErrorIs(t, err, ErrUpstream)
	}
	_, err := c.ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, int32(2), calls.Load(), "open breaker short-circuits")
}

func TestBreaker_ClientErrorsKeepItClosed(t *testing.T) {
	var calls atomic.Int32
	c := New(Options{BreakerFailures: 1})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeError(w, http.StatusBadRequest, "bad")
	}))
	t.Cleanup(srv.Close)
	c.baseURL = srv.URL

	for i := 0; i < 3; i++ {
		err := c.DeleteProduct(context.Background(), "x")
		assert.ErrorIs(t, err, ErrBadRequest)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestUploadImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			writeError(w, http.StatusBadRequest, "no image")
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "cat.png", hdr.Filename)
		assert.Equal(t, "pngbytes", string(b))
		writeData(w, http.StatusCreated, `{"url":"https://cdn.example.com/cat.png"}`)
	})

	u, err := c.UploadImage(context.Background(), "cat.png", "image/png", strings.NewReader("pngbytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cat.png", u)
}
