package api

import (
	"context"
	"fmt"
	"net/http"

	"luckycat-cli/internal/model"
)

func (c *Client) Profile(ctx context.Context, id int) (model.Profile, error) {
	var out model.Profile
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("profiles/%d/", id), nil, &out); err != nil {
		return model.Profile{}, err
	}
	return out, nil
}

// Follow toggles the current user's follow on the given profile.
func (c *Client) Follow(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("profiles/%d/follow/", id), nil, nil)
}

func (c *Client) Followers(ctx context.Context, id int) ([]model.Profile, error) {
	return collectPages[model.Profile](ctx, c, fmt.Sprintf("profiles/%d/followers/", id))
}

func (c *Client) Following(ctx context.Context, id int) ([]model.Profile, error) {
	return collectPages[model.Profile](ctx, c, fmt.Sprintf("profiles/%d/following/", id))
}
