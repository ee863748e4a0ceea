package ebird

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/checklist"
)

const opTaxonomy = "taxonomy"

type taxonRecord struct {
	SpeciesCode string `json:"speciesCode"`
	ComName     string `json:"comName"`
	SciName     string `json:"sciName"`
}

// Taxonomy fetches the full eBird taxonomy and maps each species code to its
// common and scientific names.
func (c *Client) Taxonomy(ctx context.Context) (checklist.Taxonomy, error) {
	body, err := c.get(ctx, opTaxonomy, "/ref/taxonomy/ebird", url.Values{"fmt": {"json"}})
	if err != nil {
		return nil, err
	}
	var records []taxonRecord
	if err := c.decode(opTaxonomy, body, &records); err != nil {
		return nil, err
	}

	taxonomy := make(checklist.Taxonomy, len(records))
	for _, r := range records {
		if r.SpeciesCode == "" {
			continue
		}
		taxonomy[r.SpeciesCode] = checklist.TaxonEntry{Name: r.ComName, SciName: r.SciName}
	}
	c.logger.Debug("taxonomy loaded", zap.Int("species", len(taxonomy)))
	return taxonomy, nil
}
