package ebird

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/metrics"
)

const opHotspot = "hotspot"

type hotspotInfo struct {
	LocID string `json:"locId"`
	Name  string `json:"name"`
}

// HotspotName looks up a location's display name. It reports false on any
// failure; callers treat the name as optional.
func (c *Client) HotspotName(ctx context.Context, locID string) (string, bool) {
	if strings.TrimSpace(locID) == "" {
		metrics.ObserveEnrichmentMiss(metrics.EnrichmentLocation)
		return "", false
	}
	body, err := c.get(ctx, opHotspot, "/ref/hotspot/info/"+url.PathEscape(locID), nil)
	if err != nil {
		c.logger.Warn("hotspot lookup failed", zap.String("loc_id", locID), zap.Error(err))
		metrics.ObserveEnrichmentMiss(metrics.EnrichmentLocation)
		return "", false
	}
	var info hotspotInfo
	if err := c.decode(opHotspot, body, &info); err != nil {
		c.logger.Warn("hotspot response unreadable", zap.String("loc_id", locID), zap.Error(err))
		metrics.ObserveEnrichmentMiss(metrics.EnrichmentLocation)
		return "", false
	}
	name := strings.TrimSpace(info.Name)
	if name == "" {
		metrics.ObserveEnrichmentMiss(metrics.EnrichmentLocation)
		return "", false
	}
	return name, true
}
