package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "curl/7.54.1"
)

// Client issues single shot requests against upstream endpoints. It never
// retries, a failed call is returned straight to the caller.
type Client struct {
	httpClient *http.Client
	userAgent  string
	cache      ResponseCache
	logger     zerolog.Logger
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithCache(cache ResponseCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *Client) Fetch(ctx context.Context, endpoint Endpoint) (*Body, error) {
	requestURL, err := endpoint.Resolve()
	if err != nil {
		return nil, err
	}

	var requestBody []byte
	if endpoint.Body != nil {
		requestBody, err = json.Marshal(endpoint.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request body: %w", endpoint.Name, err)
		}
	}

	logger := c.logger.With().
		Str("endpoint", endpoint.Name).
		Str("method", endpoint.method()).
		Str("url", requestURL).
		Logger()

	cacheKey := ""
	if c.cache != nil && endpoint.Cacheable {
		cacheKey = fmt.Sprintf("etastation/fetch/%s/%s/%s", endpoint.method(), requestURL, requestBody)

		if cached, found := c.cache.Get(ctx, cacheKey); found {
			logger.Debug().Msg("Serving response from cache")
			return NewBody(endpoint.Format, cached), nil
		}
	}

	var bodyReader io.Reader
	if requestBody != nil {
		bodyReader = bytes.NewReader(requestBody)
	}

	req, err := http.NewRequestWithContext(ctx, endpoint.method(), requestURL, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("Request failed")
		return nil, &NetworkError{Endpoint: endpoint.Name, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug().
		Int("status", resp.StatusCode).
		Str("latency", time.Since(startTime).String()).
		Msg("Upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Endpoint: endpoint.Name, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint.Name, Err: err}
	}

	if cacheKey != "" {
		c.cache.Set(ctx, cacheKey, raw)
	}

	return NewBody(endpoint.Format, raw), nil
}
