package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// TokenSource supplies the bearer token for authenticated calls and renews it
// on demand.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// AuthFailureHandler is called once when a request stays unauthorized after
// its single refresh-and-retry.
type AuthFailureHandler func(ctx context.Context, err error)

// Options configures a Client.
type Options struct {
	BaseURL          string
	Timeout          time.Duration
	BreakerFailures  uint32
	BreakerOpenDelay time.Duration
	HTTPClient       *http.Client
	Logger           *logrus.Logger
}

// Client talks to the retail REST backend. Responses wrap their payload in a
// "data" envelope.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*rawResponse]
	logger  *logrus.Logger

	tokens        TokenSource
	onAuthFailure AuthFailureHandler
}

type rawResponse struct {
	status int
	body   []byte
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	openDelay := opts.BreakerOpenDelay
	if openDelay <= 0 {
		openDelay = 30 * time.Second
	}
	logger := opts.Logger
	st := gobreaker.Settings{
		Name:    "storefront-backend",
		Timeout: openDelay,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// 4xx answers mean the backend is up.
			var apiErr *Error
			if errors.As(err, &apiErr) {
				return apiErr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
			}
		},
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		breaker: gobreaker.NewCircuitBreaker[*rawResponse](st),
		logger:  logger,
	}
}

// WithAuth returns a copy of the client that sends bearer tokens from tokens
// and reports unrecoverable 401s to onFailure.
func (c *Client) WithAuth(tokens TokenSource, onFailure AuthFailureHandler) *Client {
	cp := *c
	cp.tokens = tokens
	cp.onAuthFailure = onFailure
	return &cp
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// request is one call; body is replayable so it can be sent twice.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func jsonRequest(method, path string, in any) (request, error) {
	r := request{method: method, path: path}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return r, fmt.Errorf("encode request: %w", err)
		}
		r.body = b
		r.contentType = "application/json"
	}
	return r, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	req, err := jsonRequest(method, path, in)
	if err != nil {
		return err
	}
	return c.send(ctx, req, out)
}

// send performs req with the current access token. On 401 it refreshes once
// and retries once; if that does not help the failure handler runs and the
// original error is returned. A caller that gives up mid-refresh gets its own
// context error and leaves the session alone.
func (c *Client) send(ctx context.Context, req request, out any) error {
	if c.tokens == nil {
		return c.roundTrip(ctx, req, "", out)
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("load access token: %w", err)
	}
	err = c.roundTrip(ctx, req, token, out)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	fresh, rerr := c.tokens.Refresh(ctx)
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if rerr != nil {
		if c.logger != nil {
			c.logger.WithError(rerr).WithField("path", req.path).Info("token refresh failed")
		}
		c.authFailed(ctx, err)
		return err
	}
	retryErr := c.roundTrip(ctx, req, fresh, out)
	if errors.Is(retryErr, ErrUnauthorized) {
		c.authFailed(ctx, err)
		return err
	}
	return retryErr
}

func (c *Client) authFailed(ctx context.Context, err error) {
	if c.onAuthFailure != nil {
		c.onAuthFailure(ctx, err)
	}
}

func (c *Client) roundTrip(ctx context.Context, req request, token string, out any) error {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	raw, err := c.breaker.Execute(func() (*rawResponse, error) {
		var body io.Reader
		if req.body != nil {
			body = bytes.NewReader(req.body)
		}
		hreq, err := http.NewRequestWithContext(ctx, req.method, u, body)
		if err != nil {
			return nil, err
		}
		hreq.Header.Set("Accept", "application/json")
		if req.contentType != "" {
			hreq.Header.Set("Content-Type", req.contentType)
		}
		if token != "" {
			hreq.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := c.http.Do(hreq)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		raw := &rawResponse{status: resp.StatusCode, body: b}
		if resp.StatusCode >= 300 {
			return raw, decodeError(raw)
		}
		return raw, nil
	})
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return apiErr
		}
		if c.logger != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{"method": req.method, "path": req.path}).Warn("backend request failed")
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return decodeData(raw.body, out)
}

func decodeError(raw *rawResponse) error {
	e := &Error{Status: raw.status}
	var env envelope
	if json.Unmarshal(raw.body, &env) == nil {
		e.Message = env.Message
		if e.Message == "" && len(env.Error) > 0 {
			var s string
			if json.Unmarshal(env.Error, &s) == nil {
				e.Message = s
			}
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(raw.status)
	}
	return e
}

func decodeData(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
