package ign

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
	"github.com/urbanclimate-tools/urbanmdu/internal/observability"
	"github.com/urbanclimate-tools/urbanmdu/internal/tilecache"
	"github.com/urbanclimate-tools/urbanmdu/internal/tilecache/keys"
)

// Client fetches WFS feature pages, consulting the tile cache before the
// network. Responses are cached raw so a cache hit skips the request but not
// the decode.
type Client struct {
	owsURL *url.URL
	http   *http.Client
	cache  tilecache.Interface // nil disables caching
	ttl    time.Duration
	logger zerolog.Logger
}

type ClientOption func(*Client)

func WithCache(c tilecache.Interface, ttl time.Duration) ClientOption {
	return func(cl *Client) {
		cl.cache = c
		cl.ttl = ttl
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(cl *Client) { cl.http = h }
}

func NewClient(base string, logger zerolog.Logger, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(OWSEndpoint(base))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", base, err)
	}
	c := &Client{
		owsURL: u,
		http:   &http.Client{Timeout: 30 * time.Second},
		ttl:    15 * time.Minute,
		logger: logger,
	}
	for _, f := range opts {
		f(c)
	}
	return c, nil
}

// GetFeatures fetches one GetFeature page for a layer over a geographic
// extent and returns the raw GeoJSON body.
func (c *Client) GetFeatures(ctx context.Context, layer string, bbox geocore.BoundingBox, startIndex, count int) ([]byte, error) {
	params := BuildGetFeatureParams(layer, bbox, startIndex, count)
	key := keys.Key(layer, params.Get("bbox")+fmt.Sprintf("|%d|%d", startIndex, count), "json")

	if c.cache != nil {
		if val, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return val, nil
		} else if err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, going upstream")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.owsURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	u := *c.owsURL
	u.RawQuery = params.Encode()
	req.URL = &u
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.ObserveUpstream(layer, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	observability.ObserveUpstream(layer, resp.Status, time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(b))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return b, nil
}
