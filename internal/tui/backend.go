package tui

import (
	"context"

	"luckycat-cli/internal/model"
)

// Backend is the slice of the API client the TUI calls. Narrowed to an
// interface so tests can substitute a recording fake.
type Backend interface {
	IncomingRequests(ctx context.Context) ([]model.SittingRequest, error)
	SentRequests(ctx context.Context) ([]model.SittingRequest, error)
	ManageRequest(ctx context.Context, requestID int, action string) error
	SittingMessages(ctx context.Context) ([]model.SittingMessage, error)
	CreateSittingMessage(ctx context.Context, requestID int, content string) (model.SittingMessage, error)
	UpdateSittingMessage(ctx context.Context, messageID int, content string) (model.SittingMessage, error)
	DeleteSittingMessage(ctx context.Context, messageID int) error

	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int) error
	MarkAllNotificationsRead(ctx context.Context) error

	Feed(ctx context.Context, pageURL string) (model.Page[model.Post], error)
	Post(ctx context.Context, id int) (model.Post, error)
	LikePost(ctx context.Context, id int) error
	CreateComment(ctx context.Context, postID int, content string) (model.Comment, error)
	UpdateComment(ctx context.Context, postID, commentID int, content string) (model.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID int) error

	Profile(ctx context.Context, id int) (model.Profile, error)
	Follow(ctx context.Context, id int) error
	Followers(ctx context.Context, id int) ([]model.Profile, error)
	Following(ctx context.Context, id int) ([]model.Profile, error)
}

// SessionState is the read/mutate surface of the auth session the TUI uses.
type SessionState interface {
	IsAuthenticated() bool
	UserID() int
	Username() string
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context)
}
