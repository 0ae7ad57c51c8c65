package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	requestIDHeader  = "X-Request-ID"
	retryWaitTime    = 200 * time.Millisecond
	retryMaxWaitTime = 2 * time.Second
)

// TokenSource provides the bearer credential of the current session.
// An empty token means nobody is logged in.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Retries applies to GET requests only; writes are never replayed.
	Retries int
}

// Client talks JSON over HTTP to the rental service.
type Client struct {
	log    *slog.Logger
	http   *resty.Client
	tokens TokenSource
}

// NewClient creates a client for the service rooted at opts.BaseURL.
func NewClient(log *slog.Logger, tokens TokenSource, opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL %s: %w", opts.BaseURL, err)
	}
	if !base.IsAbs() || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, fmt.Errorf("base URL must be an absolute http(s) URL, got: %s", opts.BaseURL)
	}

	httpClient := resty.New().
		SetBaseURL(base.String()).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(retryWaitTime).
		SetRetryMaxWaitTime(retryMaxWaitTime).
		SetLogger(&restyLogger{log: log})

	httpClient.AddRetryCondition(retryCondition)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader(requestIDHeader, uuid.NewString())
		return nil
	})

	return &Client{log: log, http: httpClient, tokens: tokens}, nil
}

// SetTransport replaces the underlying round tripper.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.http.SetTransport(rt)
}

// request builds an authorized request. The credential is checked before
// anything reaches the network.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	return c.http.R().SetContext(ctx).SetAuthToken(token), nil
}

// retryCondition retries idempotent reads on network errors, 5xx and 429.
func retryCondition(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}

	code := resp.StatusCode()
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

// restyLogger routes resty's own diagnostics into slog.
type restyLogger struct {
	log *slog.Logger
}

func (l *restyLogger) Errorf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...), "op", "remote.http")
}

func (l *restyLogger) Warnf(format string, v ...any) {
	l.log.Warn(fmt.Sprintf(format, v...), "op", "remote.http")
}

func (l *restyLogger) Debugf(format string, v ...any) {
	l.log.Debug(fmt.Sprintf(format, v...), "op", "remote.http")
}
