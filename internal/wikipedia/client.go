// Package wikipedia resolves species photos through the Wikipedia REST
// page-summary endpoint. Lookups are best-effort: every failure collapses
// into "no photo".
package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/checklist"
	"github.com/JakeFAU/birdseye/internal/metrics"
)

const (
	// DefaultBaseURL is the English Wikipedia REST API root.
	DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1"
	// DefaultUserAgent identifies birdseye to Wikimedia, which rejects anonymous agents.
	DefaultUserAgent = "birdseye/0.1 (https://github.com/JakeFAU/birdseye; bird checklist tool)"

	serviceName = "wikipedia"
	opSummary   = "summary"
)

// Config holds the summary endpoint settings.
type Config struct {
	BaseURL   string
	UserAgent string
}

// Client looks up page summaries.
type Client struct {
	fetcher   checklist.Fetcher
	baseURL   string
	userAgent string
	logger    *zap.Logger
}

type imageRef struct {
	Source string `json:"source"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type pageSummary struct {
	Title         string    `json:"title"`
	OriginalImage *imageRef `json:"originalimage,omitempty"`
	Thumbnail     *imageRef `json:"thumbnail,omitempty"`
}

// New creates a Wikipedia client on top of fetcher.
func New(cfg Config, fetcher checklist.Fetcher, logger *zap.Logger) (*Client, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	agent := strings.TrimSpace(cfg.UserAgent)
	if agent == "" {
		agent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Client{
		fetcher:   fetcher,
		baseURL:   base,
		userAgent: agent,
		logger:    logger.Named("wikipedia"),
	}, nil
}

// PageTitle converts a species common name into a URL-safe page title:
// spaces become underscores and the result is percent-encoded.
func PageTitle(name string) string {
	return url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// PhotoURL returns an image for the species page, preferring the original
// image over the thumbnail. It reports false on any failure.
func (c *Client) PhotoURL(ctx context.Context, name string) (string, bool) {
	title := PageTitle(name)
	if title == "" {
		c.miss()
		return "", false
	}
	req := checklist.FetchRequest{
		URL:     c.baseURL + "/page/summary/" + title,
		Headers: http.Header{"User-Agent": {c.userAgent}, "Accept": {"application/json"}},
	}

	start := time.Now()
	resp, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		metrics.ObserveUpstream(serviceName, opSummary, metrics.OutcomeTransportError, time.Since(start))
		c.logger.Warn("photo lookup failed", zap.String("species", name), zap.Error(err))
		c.miss()
		return "", false
	}
	if !resp.OK() {
		metrics.ObserveUpstream(serviceName, opSummary, metrics.OutcomeHTTPError, resp.Duration)
		c.logger.Debug("photo lookup rejected", zap.String("species", name), zap.Int("status", resp.StatusCode))
		c.miss()
		return "", false
	}

	var summary pageSummary
	if err := json.Unmarshal(resp.Body, &summary); err != nil {
		metrics.ObserveUpstream(serviceName, opSummary, metrics.OutcomeDecodeError, resp.Duration)
		c.logger.Warn("photo summary unreadable", zap.String("species", name), zap.Error(err))
		c.miss()
		return "", false
	}
	metrics.ObserveUpstream(serviceName, opSummary, metrics.OutcomeOK, resp.Duration)

	if photo, ok := summary.imageURL(); ok {
		return photo, true
	}
	c.miss()
	return "", false
}

func (c *Client) miss() {
	metrics.ObserveEnrichmentMiss(metrics.EnrichmentPhoto)
}

func (s pageSummary) imageURL() (string, bool) {
	if s.OriginalImage != nil && s.OriginalImage.Source != "" {
		return s.OriginalImage.Source, true
	}
	if s.Thumbnail != nil && s.Thumbnail.Source != "" {
		return s.Thumbnail.Source, true
	}
	return "", false
}
