package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"luckycat-cli/internal/model"
)

// Feed fetches one page of the post feed. pageURL is "" for the first page or
// a cursor link from a previous page.
func (c *Client) Feed(ctx context.Context, pageURL string) (model.Page[model.Post], error) {
	if pageURL == "" {
		pageURL = "posts/feed/"
	}
	var out model.Page[model.Post]
	if err := c.do(ctx, http.MethodGet, pageURL, nil, &out); err != nil {
		return model.Page[model.Post]{}, err
	}
	return out, nil
}

func (c *Client) Post(ctx context.Context, id int) (model.Post, error) {
	var out model.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("posts/%d/", id), nil, &out); err != nil {
		return model.Post{}, err
	}
	return out, nil
}

// CreatePostInput carries the new-post form. ImagePath is an optional local
// file attached as multipart form data.
type CreatePostInput struct {
	Title     string `validate:"required"`
	Category  string `validate:"required"`
	Content   string
	ImagePath string
}

// CreatePost is the one non-JSON call: multipart form data for the optional
// image attachment.
func (c *Client) CreatePost(ctx context.Context, in CreatePostInput) (model.Post, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("title", in.Title)
	_ = w.WriteField("category", in.Category)
	_ = w.WriteField("content", in.Content)
	if in.ImagePath != "" {
		f, err := os.Open(in.ImagePath)
		if err != nil {
			return model.Post{}, fmt.Errorf("api: posts/: open image: %w", err)
		}
		defer f.Close()
		part, err := w.CreateFormFile("image", filepath.Base(in.ImagePath))
		if err != nil {
			return model.Post{}, fmt.Errorf("api: posts/: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return model.Post{}, fmt.Errorf("api: posts/: read image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return model.Post{}, fmt.Errorf("api: posts/: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve("posts/"), &buf)
	if err != nil {
		return model.Post{}, fmt.Errorf("api: posts/: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", w.FormDataContentType())
	tok, err := c.CSRFToken(ctx)
	if err != nil {
		return model.Post{}, err
	}
	req.Header.Set("X-CSRFToken", tok)

	var out model.Post
	if err := c.send(req, "posts/", &out); err != nil {
		return model.Post{}, err
	}
	return out, nil
}

func (c *Client) UpdatePost(ctx context.Context, id int, title, category, content string) (model.Post, error) {
	body := map[string]string{"title": title, "category": category, "content": content}
	var out model.Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("posts/%d/", id), body, &out); err != nil {
		return model.Post{}, err
	}
	return out, nil
}

func (c *Client) DeletePost(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("posts/%d/", id), nil, nil)
}

// LikePost toggles the current user's like on a post.
func (c *Client) LikePost(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("posts/%d/like/", id), nil, nil)
}

func (c *Client) CreateComment(ctx context.Context, postID int, content string) (model.Comment, error) {
	var out model.Comment
	path := fmt.Sprintf("posts/%d/comment/", postID)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"content": content}, &out); err != nil {
		return model.Comment{}, err
	}
	return out, nil
}

func (c *Client) UpdateComment(ctx context.Context, postID, commentID int, content string) (model.Comment, error) {
	var out model.Comment
	path := fmt.Sprintf("posts/%d/comment/%d/", postID, commentID)
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"content": content}, &out); err != nil {
		return model.Comment{}, err
	}
	return out, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("posts/%d/comment/%d/", postID, commentID), nil, nil)
}
