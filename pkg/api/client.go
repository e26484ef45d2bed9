package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Responses larger than this are truncated before decoding; the listing
// endpoints paginate, so a healthy response never gets close.
const maxResponseBytes = 4 << 20

// CredentialSource supplies the stored bearer token for outbound requests.
// Clear is the narrow write access granted to the 401 interceptor.
type CredentialSource interface {
	// Token returns the stored credential, or an error when none is present.
	Token(ctx context.Context) (string, error)
	// Clear removes the stored credential and cached user together.
	Clear(ctx context.Context) error
}

// Config holds client configuration resolved once at startup.
type Config struct {
	BaseURL string        `env:"WANDERLUST_API_URL" envDefault:"http://localhost:5000/api"`
	Timeout time.Duration `env:"WANDERLUST_API_TIMEOUT" envDefault:"30s"`
}

// Client calls the Wanderlust service. All methods are safe for concurrent use.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	creds          CredentialSource
	onUnauthorized func()
	log            *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, e.g. for custom transports in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithOnUnauthorized registers the handler invoked after the 401 interceptor
// has cleared the stored credentials. A UI uses it to navigate to the
// anonymous entry point.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client against the configured base URL.
func New(cfg Config, creds CredentialSource, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		creds: creds,
		log:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the resolved endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// newRequest builds an outbound request with the shared headers and, when a
// credential is stored, the bearer authorization header.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token, err := c.creds.Token(ctx); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do shapes a JSON request and decodes the enveloped response.
func do[T any](ctx context.Context, c *Client, method, path string, query url.Values, payload any) (*T, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: marshal request payload: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "invalid request", cause: err}
	}

	return roundTrip[T](c, req)
}

// roundTrip executes a prepared request and normalizes the outcome. Any 401
// fires the global interceptor before the error is returned.
func roundTrip[T any](c *Client, req *http.Request) (*T, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.DebugContext(req.Context(), "request failed in transport",
			slog.String("method", req.Method), slog.String("url", req.URL.String()))
		return nil, &Error{Kind: KindTransport, Message: "no response from service", cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidate(req.Context())
		return nil, &Error{
			Kind:       KindUnauthorized,
			StatusCode: resp.StatusCode,
			Message:    envelopeMessage(raw, "session is no longer valid"),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Any non-2xx is treated as a failed envelope regardless of body.
		return nil, &Error{
			Kind:       KindResource,
			StatusCode: resp.StatusCode,
			Message:    envelopeMessage(raw, fmt.Sprintf("service returned status %d", resp.StatusCode)),
		}
	}

	if readErr != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to read response", cause: readErr}
	}

	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &Error{Kind: KindTransport, Message: "malformed response body", cause: err}
	}

	if !env.Success {
		return nil, &Error{
			Kind:       KindRejected,
			StatusCode: resp.StatusCode,
			Message:    firstNonEmpty(env.Message, env.Error, "request failed"),
		}
	}

	if env.Data == nil {
		env.Data = new(T)
	}
	return env.Data, nil
}

// invalidate implements the global 401 interceptor: clear stored credentials
// and hand control to the unauthorized handler.
func (c *Client) invalidate(ctx context.Context) {
	c.log.WarnContext(ctx, "credential rejected by service, clearing stored session")
	if err := c.creds.Clear(ctx); err != nil {
		c.log.ErrorContext(ctx, "failed to clear stored credentials", slog.Any("error", err))
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// envelopeMessage extracts the message from a raw envelope body, falling back
// when the body is empty or not an envelope.
func envelopeMessage(raw []byte, fallback string) string {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return fallback
	}
	return firstNonEmpty(env.Message, env.Error, fallback)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
