// Package ebird is a thin client for the eBird API v2 endpoints birdseye
// needs: the taxonomy reference, the checklist view and hotspot info.
package ebird

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/checklist"
	"github.com/JakeFAU/birdseye/internal/metrics"
)

const (
	// DefaultBaseURL is the public eBird API root.
	DefaultBaseURL = "https://api.ebird.org/v2"
	// TokenHeader carries the API key on every request.
	TokenHeader = "X-eBirdApiToken"

	serviceName = "ebird"
)

// Config holds connection settings for the eBird API.
type Config struct {
	APIKey  string
	BaseURL string
}

// Client issues authenticated requests to the eBird API.
type Client struct {
	fetcher checklist.Fetcher
	apiKey  string
	baseURL string
	logger  *zap.Logger
}

// New creates an eBird client on top of fetcher.
func New(cfg Config, fetcher checklist.Fetcher, logger *zap.Logger) (*Client, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("api key is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Client{
		fetcher: fetcher,
		apiKey:  cfg.APIKey,
		baseURL: base,
		logger:  logger.Named("ebird"),
	}, nil
}

// get issues an authenticated GET and returns the body of a 2xx response.
// Failures come back as *checklist.UpstreamError tagged with op.
func (c *Client) get(ctx context.Context, op string, path string, query url.Values) ([]byte, error) {
	req := checklist.FetchRequest{
		URL:     c.baseURL + path,
		Query:   query,
		Headers: http.Header{TokenHeader: {c.apiKey}},
	}
	c.logger.Debug("ebird request", zap.String("op", op), zap.String("path", path))

	start := time.Now()
	resp, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		metrics.ObserveUpstream(serviceName, op, metrics.OutcomeTransportError, time.Since(start))
		return nil, &checklist.UpstreamError{Op: op, Err: err}
	}
	if !resp.OK() {
		metrics.ObserveUpstream(serviceName, op, metrics.OutcomeHTTPError, resp.Duration)
		return nil, &checklist.UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", http.StatusText(resp.StatusCode)),
		}
	}
	metrics.ObserveUpstream(serviceName, op, metrics.OutcomeOK, resp.Duration)
	return resp.Body, nil
}

func (c *Client) decode(op string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		metrics.ObserveUpstream(serviceName, op, metrics.OutcomeDecodeError, 0)
		return &checklist.UpstreamError{Op: op, Err: fmt.Errorf("parse response: %w", err)}
	}
	return nil
}
