package model

import (
	"sort"
	"strings"
	"time"
)

// Client-side entities mirroring the Lucky Cat API payloads.
//
// These are transient: every view re-fetches from the server on entry, so the
// structs here are never a source of truth. Field tags follow the wire names.

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
)

// SittingRequest is one cat-sitting proposal. Directionality is implicit:
// a request arrives in either the incoming or the sent list, never with an
// explicit direction field.
type SittingRequest struct {
	ID                     int           `json:"id"`
	Status                 RequestStatus `json:"status"`
	SenderUsername         string        `json:"sender_username"`
	ReceiverUsername       string        `json:"receiver_username"`
	SenderProfilePicture   string        `json:"sender_profile_picture"`
	ReceiverProfilePicture string        `json:"receiver_profile_picture"`
	PostTitle              string        `json:"post_title"`
	PostCategory           string        `json:"post_category"`
	Message                string        `json:"message"`
	CreatedAt              time.Time     `json:"created_at"`
}

// RequestRef tags a SittingRequest with the list it came from.
// Outgoing means the current user is the sender.
type RequestRef struct {
	SittingRequest
	Outgoing bool
}

// Counterpart returns the username shown for a request row: the other party.
func (r RequestRef) Counterpart() string {
	if r.Outgoing {
		return r.ReceiverUsername
	}
	return r.SenderUsername
}

// MergeRequests concatenates the received and sent lists and sorts the result
// by CreatedAt descending. The sort is stable so that equal timestamps keep
// their original list order.
func MergeRequests(received, sent []SittingRequest) []RequestRef {
	out := make([]RequestRef, 0, len(received)+len(sent))
	for _, r := range received {
		out = append(out, RequestRef{SittingRequest: r})
	}
	for _, r := range sent {
		out = append(out, RequestRef{SittingRequest: r, Outgoing: true})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// FindRequest returns the ref with the given id, or false. Ids are expected
// to be unique across the merged list; if the server ever violates that, the
// first match wins.
func FindRequest(refs []RequestRef, id int) (RequestRef, bool) {
	for _, r := range refs {
		if r.ID == id {
			return r, true
		}
	}
	return RequestRef{}, false
}

// MessageSender is the embedded author object on a chat message.
type MessageSender struct {
	ID             int    `json:"id"`
	ProfilePicture string `json:"profile_picture"`
}

// SittingMessage is one chat message scoped to an accepted sitting request.
type SittingMessage struct {
	ID             int           `json:"id"`
	SittingRequest int           `json:"sitting_request"`
	Content        string        `json:"content"`
	Sender         MessageSender `json:"sender"`
	SenderName     string        `json:"sender_name"`
	CreatedAt      time.Time     `json:"created_at"`
}

// FilterMessages returns the subset of msgs belonging to the given request,
// oldest first. The server only exposes the full per-account collection, so
// scoping happens here.
func FilterMessages(msgs []SittingMessage, requestID int) []SittingMessage {
	var out []SittingMessage
	for _, m := range msgs {
		if m.SittingRequest == requestID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindMessage returns the index of the message with the given id, or -1.
func FindMessage(msgs []SittingMessage, id int) int {
	for i := range msgs {
		if msgs[i].ID == id {
			return i
		}
	}
	return -1
}

// Notification types dispatched by the activity feed.
const (
	NotifComment        = "comment"
	NotifLike           = "like"
	NotifFollow         = "follow"
	NotifRequest        = "request"
	NotifSittingMessage = "sitting_message"
)

// Notification is one activity item. The correlation ids are optional and
// depend on Type.
type Notification struct {
	ID               int       `json:"id"`
	Type             string    `json:"type"`
	IsRead           bool      `json:"is_read"`
	Message          string    `json:"message"`
	CreatedAt        time.Time `json:"created_at"`
	PostID           *int      `json:"post_id,omitempty"`
	CommentID        *int      `json:"comment_id,omitempty"`
	SittingRequestID *int      `json:"sitting_request_id,omitempty"`
	SittingMessageID *int      `json:"sitting_message_id,omitempty"`
}

// UnreadCount is recomputed from current state on every render, never cached.
func UnreadCount(items []Notification) int {
	n := 0
	for _, it := range items {
		if !it.IsRead {
			n++
		}
	}
	return n
}

// Profile is a user profile, either the authenticated user's own or another's.
type Profile struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
	Bio            string `json:"bio"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
}

// Post is a cat-sitting post in the feed.
type Post struct {
	ID            int       `json:"id"`
	Author        string    `json:"author"`
	AuthorID      int       `json:"author_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Content       string    `json:"content"`
	Image         string    `json:"image"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	IsLiked       bool      `json:"is_liked"`
	Comments      []Comment `json:"comments,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Comment on a post.
type Comment struct {
	ID        int       `json:"id"`
	Post      int       `json:"post"`
	Author    string    `json:"author"`
	AuthorID  int       `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is the cursor-paginated list envelope the API wraps collections in.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// BlankText reports whether a message/comment body is empty after trimming.
// Blank submissions are dropped before any network call.
func BlankText(s string) bool {
	return strings.TrimSpace(s) == ""
}
