// Package backend is the REST client for the POS backend that owns
// transactions, rentals, products and customers.
package backend

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

	"github.com/angelmondragon/rentpos-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/angelmondragon/rentpos-backend/pkg/requestctx"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultTimeout          = 10 * time.Second
	responseBodyLimit int64 = 4 << 20
	breakerName             = "pos-backend"
)

var (
	errBaseURLRequired = errors.New("backend base url is required")
	errServerStatus    = errors.New("backend server error")
)

// StateObserver receives the name of every breaker state the client enters.
type StateObserver interface {
	IncBreakerTransition(state string)
}

// Client calls the POS backend through a circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logg       *logger.Logger
	observer   StateObserver
	breaker    *gobreaker.CircuitBreaker[*response]
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// WithStateObserver reports breaker transitions, typically to metrics.
func WithStateObserver(observer StateObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient builds the backend client from config.
func NewClient(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		token:      strings.TrimSpace(cfg.Token),
		logg:       logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	client.breaker = gobreaker.NewCircuitBreaker[*response](client.breakerSettings(cfg))
	return client, nil
}

func (c *Client) breakerSettings(cfg config.BackendConfig) gobreaker.Settings {
	minRequests := cfg.BreakerMinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	ratio := cfg.BreakerFailureRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 0.6
	}
	return gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logg.Warn(context.Background(), fmt.Sprintf("breaker %s changed from %s to %s", name, from, to))
			if c.observer != nil {
				c.observer.IncBreakerTransition(to.String())
			}
		},
		// Cancelled callers say nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
}

type response struct {
	status int
	body   []byte
}

// envelope is the backend's standard response shape.
type envelope struct {
	Meta struct {
		Message string `json:"message"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

// do sends the request and decodes the envelope's data into out when out is
// non-nil. Transport failures and 5xx responses count against the breaker.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal backend request")
		}
		payload = encoded
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		return c.send(ctx, method, path, payload)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend unavailable")
	case errors.Is(err, errServerStatus):
		return newAPIError(resp.status, resp.body).asError()
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s %s", method, path))
	}

	if resp.status < 200 || resp.status >= 300 {
		return newAPIError(resp.status, resp.body).asError()
	}
	if out == nil || len(resp.body) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode backend response")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return pkgerrors.New(pkgerrors.CodeNotFound, "backend returned no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode backend data")
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.authToken(ctx); token != "" {
		req.Header.Set("Authorization", token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(res.Body, responseBodyLimit))
	if err != nil {
		return nil, err
	}
	out := &response{status: res.StatusCode, body: data}
	if res.StatusCode >= http.StatusInternalServerError {
		return out, errServerStatus
	}
	return out, nil
}

// authToken prefers the caller's token over the configured service token.
// The backend expects the raw token without a scheme prefix.
func (c *Client) authToken(ctx context.Context) string {
	if token := strings.TrimSpace(requestctx.AuthToken(ctx)); token != "" {
		return token
	}
	return c.token
}

// Ping checks that the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/categories-all", nil, nil)
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
