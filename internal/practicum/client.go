// Package practicum implements the homework status API client.
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	logx "homeworkbot/pkg/logx"
)

const (
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	defaultTimeout  = 30 * time.Second
)

// Client polls the homework status endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	log        logx.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the status endpoint (tests, mirrors).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(log logx.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client authorized with an OAuth token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		endpoint:   DefaultEndpoint,
		token:      token,
		log:        logx.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log.IsZero() {
		c.log = logx.Nop()
	}
	return c
}

// Poll requests homework statuses changed since fromDate (unix seconds) and
// returns the decoded JSON body. Numbers are kept as json.Number.
//
// A non-200 answer yields ErrServerUnavailable without reading the body;
// network and decoding failures yield *TransportError. Poll never retries.
func (c *Client) Poll(ctx context.Context, fromDate int64) (any, error) {
	if fromDate < 0 {
		return nil, fmt.Errorf("from_date must be >= 0, got %d", fromDate)
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("review api request failed", logx.Err(err), logx.Int64("from_date", fromDate))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("review api unavailable",
			logx.Int("status", resp.StatusCode),
			logx.Int64("from_date", fromDate),
		)
		return nil, fmt.Errorf("%w: http status %d", ErrServerUnavailable, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		c.log.Error("review api response undecodable", logx.Err(err))
		return nil, &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}

	c.log.Debug("review api request ok",
		logx.Int64("from_date", fromDate),
		logx.Duration("took", time.Since(started)),
	)
	return body, nil
}
