package ebird

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/checklist"
)

const opChecklist = "checklist"

// Checklist fetches one submitted checklist by its submission ID.
func (c *Client) Checklist(ctx context.Context, id string) (checklist.Checklist, error) {
	body, err := c.get(ctx, opChecklist, "/product/checklist/view/"+url.PathEscape(id), nil)
	if err != nil {
		return checklist.Checklist{}, err
	}
	var cl checklist.Checklist
	if err := c.decode(opChecklist, body, &cl); err != nil {
		return checklist.Checklist{}, err
	}
	c.logger.Debug("checklist loaded",
		zap.String("sub_id", id),
		zap.String("loc_id", cl.LocID),
		zap.Int("observations", len(cl.Obs)),
	)
	return cl, nil
}
