package gateway

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"
)

// Stats are the three dashboard counters
type Stats struct {
	Products  int `json:"products"`
	Movements int `json:"movements"`
	Users     int `json:"users"`
}

// Stats fetches the counters concurrently. Each list is asked for a single
// row; only the count matters. The first failure cancels the other calls.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	one := url.Values{"limit": {"1"}}

	var stats Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := c.ListProducts(ctx, one)
		stats.Products = page.Count
		return err
	})
	g.Go(func() error {
		page, err := c.ListMovements(ctx, one)
		stats.Movements = page.Count
		return err
	})
	g.Go(func() error {
		page, err := c.ListUsers(ctx, one)
		stats.Users = page.Count
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
