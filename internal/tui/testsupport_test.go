package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"luckycat-cli/internal/model"
)

var errTest = errors.New("backend unavailable")

// fakeBackend is an in-memory Backend that records every call it receives.
// Error fields, when set, make the matching method fail.
type fakeBackend struct {
	calls []string

	incoming []model.SittingRequest
	sent     []model.SittingRequest
	msgs     []model.SittingMessage
	notifs   []model.Notification
	posts    map[int]model.Post
	feedPage model.Page[model.Post]
	profile  model.Profile

	incomingErr error
	sentErr     error
	msgsErr     error
	postErr     error
	manageErr   error
	createErr   error

	nextMsgID     int
	nextCommentID int
}

func (f *fakeBackend) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeBackend) IncomingRequests(context.Context) ([]model.SittingRequest, error) {
	f.record("IncomingRequests")
	return f.incoming, f.incomingErr
}

func (f *fakeBackend) SentRequests(context.Context) ([]model.SittingRequest, error) {
	f.record("SentRequests")
	return f.sent, f.sentErr
}

func (f *fakeBackend) ManageRequest(_ context.Context, requestID int, action string) error {
	f.record("ManageRequest %d %s", requestID, action)
	return f.manageErr
}

func (f *fakeBackend) SittingMessages(context.Context) ([]model.SittingMessage, error) {
	f.record("SittingMessages")
	return f.msgs, f.msgsErr
}

func (f *fakeBackend) CreateSittingMessage(_ context.Context, requestID int, content string) (model.SittingMessage, error) {
	f.record("CreateSittingMessage %d %q", requestID, content)
	if f.createErr != nil {
		return model.SittingMessage{}, f.createErr
	}
	f.nextMsgID++
	msg := model.SittingMessage{
		ID:             1000 + f.nextMsgID,
		SittingRequest: requestID,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	f.msgs = append(f.msgs, msg)
	return msg, nil
}

func (f *fakeBackend) UpdateSittingMessage(_ context.Context, messageID int, content string) (model.SittingMessage, error) {
	f.record("UpdateSittingMessage %d %q", messageID, content)
	for i := range f.msgs {
		if f.msgs[i].ID == messageID {
			f.msgs[i].Content = content
			return f.msgs[i], nil
		}
	}
	return model.SittingMessage{}, fmt.Errorf("message %d not found", messageID)
}

func (f *fakeBackend) DeleteSittingMessage(_ context.Context, messageID int) error {
	f.record("DeleteSittingMessage %d", messageID)
	kept := f.msgs[:0]
	for _, m := range f.msgs {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	f.msgs = kept
	return nil
}

func (f *fakeBackend) Notifications(context.Context) ([]model.Notification, error) {
	f.record("Notifications")
	return f.notifs, nil
}

func (f *fakeBackend) MarkNotificationRead(_ context.Context, id int) error {
	f.record("MarkNotificationRead %d", id)
	return nil
}

func (f *fakeBackend) MarkAllNotificationsRead(context.Context) error {
	f.record("MarkAllNotificationsRead")
	return nil
}

func (f *fakeBackend) Feed(_ context.Context, pageURL string) (model.Page[model.Post], error) {
	f.record("Feed %q", pageURL)
	return f.feedPage, nil
}

func (f *fakeBackend) Post(_ context.Context, id int) (model.Post, error) {
	f.record("Post %d", id)
	if f.postErr != nil {
		return model.Post{}, f.postErr
	}
	p, ok := f.posts[id]
	if !ok {
		return model.Post{}, fmt.Errorf("post %d not found", id)
	}
	return p, nil
}

func (f *fakeBackend) LikePost(_ context.Context, id int) error {
	f.record("LikePost %d", id)
	return nil
}

func (f *fakeBackend) CreateComment(_ context.Context, postID int, content string) (model.Comment, error) {
	f.record("CreateComment %d %q", postID, content)
	if f.createErr != nil {
		return model.Comment{}, f.createErr
	}
	f.nextCommentID++
	return model.Comment{
		ID:        500 + f.nextCommentID,
		Post:      postID,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

func (f *fakeBackend) UpdateComment(_ context.Context, postID, commentID int, content string) (model.Comment, error) {
	f.record("UpdateComment %d %d %q", postID, commentID, content)
	return model.Comment{ID: commentID, Post: postID, Content: content}, nil
}

func (f *fakeBackend) DeleteComment(_ context.Context, postID, commentID int) error {
	f.record("DeleteComment %d %d", postID, commentID)
	return nil
}

func (f *fakeBackend) Profile(_ context.Context, id int) (model.Profile, error) {
	f.record("Profile %d", id)
	return f.profile, nil
}

func (f *fakeBackend) Follow(_ context.Context, id int) error {
	f.record("Follow %d", id)
	return nil
}

func (f *fakeBackend) Followers(_ context.Context, id int) ([]model.Profile, error) {
	f.record("Followers %d", id)
	return nil, nil
}

func (f *fakeBackend) Following(_ context.Context, id int) ([]model.Profile, error) {
	f.record("Following %d", id)
	return nil, nil
}

func (f *fakeBackend) calledWith(prefix string) bool {
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// stubSession is a SessionState with fixed identity.
type stubSession struct {
	authed   bool
	userID   int
	username string
	loginErr error

	loggedOut bool
}

func (s *stubSession) IsAuthenticated() bool { return s.authed }
func (s *stubSession) UserID() int           { return s.userID }
func (s *stubSession) Username() string      { return s.username }

func (s *stubSession) Login(_ context.Context, username, _ string) error {
	if s.loginErr != nil {
		return s.loginErr
	}
	s.authed = true
	s.username = username
	return nil
}

func (s *stubSession) Logout(context.Context) {
	s.authed = false
	s.loggedOut = true
}
