package cardmaker

import (
	"context"
	"fmt"

	"github.com/cardmakerapp/cardmaker-go/internal/domain"
)

// GetTags fetches all known tags in backend order. Under the absorbing
// read policy a failure is logged and an empty slice returned.
func (c *Client) GetTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := get[[]domain.Tag](c, ctx, "/tags", nil)
	if err != nil {
		if c.absorb("tags fetch", err) {
			return []domain.Tag{}, nil
		}
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}
