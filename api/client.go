// Package api is a small JSON-over-HTTP client for the remote resource API.
package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/agentuity/resource-console/logger"
	"github.com/agentuity/resource-console/resilience"
	"github.com/cockroachdb/errors"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

// Client sends JSON requests relative to a fixed base URL.
type Client struct {
	baseURL   *url.URL
	client    *http.Client
	logger    logger.Logger
	userAgent string
	retry     resilience.RetryConfig
	breaker   *resilience.Breaker
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRetry enables up to attempts calls for transient failures
// (connection resets, 408, 429, 502, 503, 504). The default is a single attempt.
func WithRetry(attempts int) Option {
	return func(c *Client) {
		cfg := resilience.DefaultRetryConfig(attempts)
		cfg.Retryable = shouldRetry
		c.retry = cfg
	}
}

// WithRetryConfig sets the retry policy directly.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *Client) {
		if cfg.Retryable == nil {
			cfg.Retryable = shouldRetry
		}
		c.retry = cfg
	}
}

// WithCircuitBreaker guards every request with b. Build b with
// BreakerConfig.Counts set to BreakerCounts so only network failures trip it.
func WithCircuitBreaker(b *resilience.Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client for baseURL.
func New(log logger.Logger, baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL:   u,
		client:    http.DefaultClient,
		logger:    log.WithPrefix("[api]"),
		userAgent: UserAgent(),
		retry:     resilience.RetryConfig{Attempts: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// BreakerCounts reports whether err should count against a circuit breaker.
func BreakerCounts(err error) bool {
	return errors.Is(err, ErrNetwork)
}

func UserAgent() string {
	gitSHA := Commit
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				gitSHA = setting.Value
			}
		}
	}
	return "resource-console/" + Version + " (" + gitSHA + ")"
}

func shouldRetry(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	switch StatusOf(err) {
	case http.StatusRequestTimeout, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return true
	}
	return false
}

var binaryTypes = []string{
	"image/", "video/", "audio/", "application/octet-stream",
	"application/pdf", "application/zip", "application/gzip", "font/",
}

// safeBodyPreview returns a loggable preview of a body: binary bodies are
// reduced to size and hash, text is truncated to maxChars.
func safeBodyPreview(body []byte, contentType string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = 200
	}
	lower := strings.ToLower(contentType)
	for _, t := range binaryTypes {
		if strings.Contains(lower, t) {
			hash := sha256.Sum256(body)
			return fmt.Sprintf("<binary: %d bytes, sha256=%s>", len(body), hex.EncodeToString(hash[:8]))
		}
	}
	if len(body) > maxChars {
		return string(body[:maxChars]) + fmt.Sprintf("[truncated, total: %d bytes]", len(body))
	}
	return string(body)
}

func (c *Client) resolve(pathParam string) string {
	u := *c.baseURL
	if i := strings.Index(pathParam, "?"); i != -1 {
		u.RawQuery = pathParam[i+1:]
		pathParam = pathParam[:i]
	}
	switch {
	case pathParam == "":
	case u.Path == "" || u.Path == "/":
		u.Path = pathParam
	default:
		u.Path = path.Join(u.Path, pathParam)
	}
	return u.String()
}

// errorBody is the error envelope the remote API returns with non-2xx statuses.
type errorBody struct {
	Message string `json:"message"`
}

// Do sends method to pathParam with payload JSON-encoded (when non-nil) and
// decodes a 2xx body into response (when non-nil). Failures are *Error values
// matching ErrFetch; a cancelled ctx is returned unwrapped.
func (c *Client) Do(ctx context.Context, method, pathParam string, payload any, response any) error {
	u := c.resolve(pathParam)
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return NewError(u, method, 0, "", ErrValidation, errors.Wrap(err, "error marshalling payload"))
		}
	}

	var respBody []byte
	call := func(ctx context.Context) error {
		return resilience.Retry(ctx, c.retry, func(attempt int) error {
			if attempt > 0 {
				c.logger.Debug("retrying %s %s (attempt %d)", method, u, attempt+1)
			}
			var err error
			respBody, err = c.send(ctx, method, u, body)
			return err
		})
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, call)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			err = NewError(u, method, 0, "", ErrNetwork, err)
		}
	} else {
		err = call(ctx)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		c.logger.Debug("%s %s failed: %s", method, u, err)
		return err
	}

	if response != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, response); err != nil {
			return NewError(u, method, 200, string(respBody), ErrNetwork, errors.Wrap(err, "error JSON decoding response"))
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, u string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, NewError(u, method, 0, "", ErrNetwork, errors.Wrap(err, "error creating request"))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.logger.Trace("sending request: %s %s", method, u)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, NewError(u, method, 0, "", ErrNetwork, errors.Wrap(err, "error sending request"))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(u, method, resp.StatusCode, "", ErrNetwork, errors.Wrap(err, "error reading response body"))
	}
	contentType := resp.Header.Get("Content-Type")
	c.logger.Debug("%s %s -> %s %s", method, u, resp.Status, safeBodyPreview(respBody, contentType, 200))

	if resp.StatusCode > 299 {
		msg := fmt.Sprintf("request failed with status (%s)", resp.Status)
		if strings.Contains(contentType, "application/json") {
			var eb errorBody
			if json.Unmarshal(respBody, &eb) == nil && eb.Message != "" {
				msg = eb.Message
			}
		}
		return nil, NewError(u, method, resp.StatusCode, string(respBody), kindForStatus(resp.StatusCode), errors.New(msg))
	}
	return respBody, nil
}
