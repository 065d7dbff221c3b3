// Package gateway is the single HTTP chokepoint between the dashboard and the
// inventory REST API. It attaches the stored bearer token to every call and
// tears the session down when the backend answers 401.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
	"github.com/jrsteele09/go-inventory-dashboard/metrics"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 15 * time.Second
)

// CredentialProvider is where the gateway reads the access token from on
// every call, and what it clears on a 401.
type CredentialProvider interface {
	AccessToken(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// UnauthorizedHandler runs after a 401 cleared the credentials. The server
// uses it to drop the browser's session and send it to the login page.
type UnauthorizedHandler func(ctx context.Context)

type Option func(*Client)

// WithHTTPClient sets the underlying client. Its transport is wrapped, not
// replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.base = hc.Transport
		}
	}
}

// WithTimeout sets the per-call timeout applied when the context has no
// deadline. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// Client calls the inventory API.
type Client struct {
	baseURL        string
	base           http.RoundTripper
	http           *http.Client
	creds          CredentialProvider
	onUnauthorized UnauthorizedHandler
	timeout        time.Duration
	metrics        *metrics.Recorder
}

// New builds a Client for baseURL (DefaultBaseURL when empty). creds may be
// nil, in which case calls go out without an Authorization header.
func New(baseURL string, creds CredentialProvider, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		base:    http.DefaultTransport,
		creds:   creds,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.buildHTTPClient()
	return c
}

func (c *Client) buildHTTPClient() {
	base := c.base
	if base == nil {
		base = http.DefaultTransport
	}
	c.http = &http.Client{
		Transport: &authTransport{
			base:           base,
			creds:          c.creds,
			onUnauthorized: c.onUnauthorized,
		},
	}
}

// WithCredentials returns a copy of the client bound to another provider.
// The server hands one copy to each browser.
func (c *Client) WithCredentials(creds CredentialProvider) *Client {
	cp := *c
	cp.creds = creds
	cp.buildHTTPClient()
	return &cp
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one backend request. route is the path template used as
// the metrics label.
type call struct {
	method string
	route  string
	path   string
	query  url.Values
	body   any
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	if c.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(b)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}

	route := req.route
	if route == "" {
		route = req.path
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	took := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(req.method, route, 0, took)
		log.Ctx(ctx).Debug().Err(err).Str("method", req.method).Str("path", req.path).Msg("backend call failed")
		return fmt.Errorf("%w: %s %s: %w", apperrors.ErrTransport, req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.metrics.ObserveRequest(req.method, route, resp.StatusCode, took)
	log.Ctx(ctx).Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("took", took).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return newAPIError(req.method, req.path, resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}
