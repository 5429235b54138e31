package yt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/alanpramil7/ytscout/internal/logging"
	"github.com/alanpramil7/ytscout/internal/metrics"
)

// ErrMissingAPIKey is returned when no Data API key is configured.
var ErrMissingAPIKey = errors.New("missing YouTube API key")

// Client wraps the YouTube API service. It is safe to share between calls;
// nothing on it changes after construction.
type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
}

type clientConfig struct {
	maxQPS  float64
	options []option.ClientOption
}

// ClientOption customises NewClient.
type ClientOption func(*clientConfig)

// WithMaxQPS spaces API requests to at most qps per second. Zero disables pacing.
func WithMaxQPS(qps float64) ClientOption {
	return func(c *clientConfig) { c.maxQPS = qps }
}

// WithAPIOptions passes extra options to the generated API client, e.g. a
// custom endpoint or HTTP client.
func WithAPIOptions(opts ...option.ClientOption) ClientOption {
	return func(c *clientConfig) { c.options = append(c.options, opts...) }
}

// NewClient creates a new YouTube API client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	apiOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, cfg.options...)
	service, err := youtube.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	c := &Client{service: service}
	if cfg.maxQPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.maxQPS), 1)
	}
	return c, nil
}

// Service returns the underlying YouTube service for API calls
func (c *Client) Service() *youtube.Service {
	return c.service
}

// Do runs one Data API request: it waits for the pacer, then records the
// outcome in metrics and the debug log.
func Do[T any](ctx context.Context, c *Client, endpoint string, call func() (T, error)) (T, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
	}

	started := time.Now()
	resp, err := call()
	metrics.ObserveAPICall(endpoint, started, err)

	logging.Logger.Debug().
		Str("endpoint", endpoint).
		Dur("took", time.Since(started)).
		Err(err).
		Msg("youtube api call")

	return resp, err
}
