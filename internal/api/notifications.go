package api

import (
	"context"
	"fmt"
	"net/http"

	"luckycat-cli/internal/model"
)

// Notifications returns recent unread-leaning activity items (the server's
// default window).
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	return collectPages[model.Notification](ctx, c, "notifications/")
}

// AllNotifications returns the full activity history.
func (c *Client) AllNotifications(ctx context.Context) ([]model.Notification, error) {
	return collectPages[model.Notification](ctx, c, "notifications/all/")
}

// MarkNotificationRead marks a single item read. Best effort: callers flip
// local state optimistically and do not roll back on failure.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("notifications/%d/mark-read/", id), nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "notifications/mark-all-read/", nil, nil)
}
