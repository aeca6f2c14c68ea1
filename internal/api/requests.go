package api

import (
	"context"
	"fmt"
	"net/http"

	"luckycat-cli/internal/model"
)

// Sitting-request lifecycle actions accepted by the manage endpoint.
const (
	RequestActionAccept  = "accept"
	RequestActionDecline = "decline"
	RequestActionCancel  = "cancel"
)

// IncomingRequests returns every request where the current user is the
// receiver, following pagination cursors to the end.
func (c *Client) IncomingRequests(ctx context.Context) ([]model.SittingRequest, error) {
	return collectPages[model.SittingRequest](ctx, c, "posts/requests/incoming/")
}

// SentRequests returns every request the current user sent.
func (c *Client) SentRequests(ctx context.Context) ([]model.SittingRequest, error) {
	return collectPages[model.SittingRequest](ctx, c, "posts/requests/sent/")
}

// CreateRequest sends a new sitting request against a post.
func (c *Client) CreateRequest(ctx context.Context, postID int, message string) (model.SittingRequest, error) {
	body := map[string]any{"post": postID, "message": message}
	var out model.SittingRequest
	if err := c.do(ctx, http.MethodPost, "posts/requests/manage/", body, &out); err != nil {
		return model.SittingRequest{}, err
	}
	return out, nil
}

// ManageRequest applies a lifecycle action (accept/decline/cancel) to a request.
func (c *Client) ManageRequest(ctx context.Context, requestID int, action string) error {
	path := fmt.Sprintf("posts/requests/manage/%d/", requestID)
	return c.do(ctx, http.MethodPost, path, map[string]string{"action": action}, nil)
}

// SittingMessages returns the full per-account message collection. The server
// does not expose a per-request query, so callers filter by request id locally
// (model.FilterMessages).
func (c *Client) SittingMessages(ctx context.Context) ([]model.SittingMessage, error) {
	return collectPages[model.SittingMessage](ctx, c, "posts/sitting-messages/")
}

func (c *Client) CreateSittingMessage(ctx context.Context, requestID int, content string) (model.SittingMessage, error) {
	body := map[string]any{"sitting_request": requestID, "content": content}
	var out model.SittingMessage
	if err := c.do(ctx, http.MethodPost, "posts/sitting-messages/", body, &out); err != nil {
		return model.SittingMessage{}, err
	}
	return out, nil
}

func (c *Client) UpdateSittingMessage(ctx context.Context, messageID int, content string) (model.SittingMessage, error) {
	path := fmt.Sprintf("posts/sitting-messages/%d/", messageID)
	var out model.SittingMessage
	if err := c.do(ctx, http.MethodPatch, path, map[string]string{"content": content}, &out); err != nil {
		return model.SittingMessage{}, err
	}
	return out, nil
}

func (c *Client) DeleteSittingMessage(ctx context.Context, messageID int) error {
	path := fmt.Sprintf("posts/sitting-messages/%d/", messageID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// collectPages follows next cursors until exhausted and returns the
// concatenated results.
func collectPages[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	next := path
	for next != "" {
		var page model.Page[T]
		if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Results...)
		if page.Next == nil || *page.Next == "" {
			break
		}
		next = *page.Next
	}
	return out, nil
}
