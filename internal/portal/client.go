package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rshade/lectern/internal/cache"
	"github.com/rshade/lectern/internal/logging"
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Token             string

	// CacheScope separates cached responses of different accounts, usually the user ID.
	CacheScope string

	// Cache, when set and enabled, backs GET listings for offline use.
	Cache *cache.FileStore

	// OnUnauthorized is called when the portal answers 401.
	OnUnauthorized func()

	Logger zerolog.Logger
	Now    Clock
}

// Client talks to the lecturer portal REST API. Requests may run concurrently;
// SetToken must not be called while requests are in flight.
type Client struct {
	http           *resty.Client
	baseURL        string
	limiter        *rate.Limiter
	files          *cache.FileStore
	cacheScope     string
	onUnauthorized func()
	logger         zerolog.Logger
	now            Clock
	token          string
}

// NewClient builds a client for opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	baseURL, err := buildBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Client{
		baseURL:        baseURL,
		files:          opts.Cache,
		cacheScope:     opts.CacheScope,
		onUnauthorized: opts.OnUnauthorized,
		logger:         logging.ComponentLogger(opts.Logger, "portal"),
		now:            now,
	}
	c.http = buildHTTPClient(baseURL, opts.Timeout)
	c.limiter = buildRateLimiter(opts.RequestsPerSecond)

	c.http.OnBeforeRequest(c.beforeRequest)
	c.http.OnAfterResponse(c.afterResponse)

	c.SetToken(opts.Token)
	return c, nil
}

// buildBaseURL validates and normalizes the portal base URL.
func buildBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("base URL must be absolute, got: %q", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func buildHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}

// buildRateLimiter returns nil when rps is not positive.
func buildRateLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// SetToken sets or clears the bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
	c.http.SetAuthToken(token)
}

// BaseURL returns the normalized portal URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Now returns the client's current time.
func (c *Client) Now() time.Time {
	return c.now()
}

func (c *Client) beforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()
	req.SetHeader(logging.TraceIDHeader, logging.GetOrGenerateTraceID(ctx))
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	return nil
}

func (c *Client) afterResponse(_ *resty.Client, resp *resty.Response) error {
	c.logger.Debug().
		Ctx(resp.Request.Context()).
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("portal request completed")
	return nil
}

func (c *Client) requireToken() error {
	if c.token == "" {
		return ErrNotLoggedIn
	}
	return nil
}

// getJSON performs an authenticated GET and decodes the body into result.
// When the request fails in transport and a cached body exists, the cached body
// is decoded instead and stale is true.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, result any) (bool, error) {
	if err := c.requireToken(); err != nil {
		return false, err
	}

	key := c.cacheKey(path, query)
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) || ctx.Err() != nil {
			return false, err
		}
		cached, ok := c.cachedBody(key)
		if !ok {
			return false, err
		}
		c.logger.Warn().Ctx(ctx).Err(err).Str("path", path).Msg("portal unreachable, serving cached response")
		if decodeErr := json.Unmarshal(cached, result); decodeErr != nil {
			return false, fmt.Errorf("%w: cached %s: %w", ErrInvalidResponse, path, decodeErr)
		}
		return true, nil
	}

	if err = json.Unmarshal(body, result); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidResponse, path, err)
	}
	c.storeBody(key, body)
	return false, nil
}

// sendJSON performs an authenticated request with an optional body.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload, result any) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	body, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	if result == nil || len(body) == 0 {
		return nil
	}
	if err = json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidResponse, path, err)
	}
	return nil
}

// do executes one request and returns the raw body of a successful response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	req := c.http.R().SetContext(ctx).SetError(&APIError{})
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if payload != nil {
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err = c.handleResponse(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// handleResponse maps HTTP error statuses to *APIError.
func (c *Client) handleResponse(resp *resty.Response) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode()}
	if parsed, ok := resp.Error().(*APIError); ok && parsed != nil {
		apiErr.Message = parsed.Message
	}
	if apiErr.Message == "" {
		var body APIError
		if json.Unmarshal(resp.Body(), &body) == nil {
			apiErr.Message = body.Message
		}
	}

	if apiErr.Status == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return apiErr
}

// download streams the body of an authenticated GET into w.
func (c *Client) download(ctx context.Context, path string, w io.Writer) (int64, error) {
	if err := c.requireToken(); err != nil {
		return 0, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Accept", "*/*").
		Get(path)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.StatusCode() >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(raw, 64<<10))
		apiErr := &APIError{Status: resp.StatusCode()}
		var body APIError
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Message
		}
		if apiErr.Status == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return 0, apiErr
	}

	n, err := io.Copy(w, raw)
	if err != nil {
		return n, fmt.Errorf("writing download: %w", err)
	}
	return n, nil
}

func (c *Client) cacheKey(path string, query url.Values) string {
	key := cache.RequestKey(http.MethodGet, path, query)
	if c.cacheScope != "" {
		key = c.cacheScope + "-" + key
	}
	return key
}

func (c *Client) cachedBody(key string) (json.RawMessage, bool) {
	if c.files == nil || !c.files.IsEnabled() {
		return nil, false
	}
	entry, err := c.files.GetStale(key)
	if err != nil {
		return nil, false
	}
	return entry.Data, true
}

func (c *Client) storeBody(key string, body []byte) {
	if c.files == nil || !c.files.IsEnabled() || !json.Valid(body) {
		return
	}
	if err := c.files.Set(key, json.RawMessage(body)); err != nil {
		c.logger.Debug().Err(err).Msg("cache write failed")
	}
}
