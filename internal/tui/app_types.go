package tui

import (
	"luckycat-cli/internal/model"
)

type view int

const (
	viewLogin view = iota
	viewFeed
	viewPost
	viewRequests
	viewNotifications
	viewProfile
)

func viewToString(v view) string {
	switch v {
	case viewLogin:
		return "login"
	case viewFeed:
		return "feed"
	case viewPost:
		return "post"
	case viewRequests:
		return "requests"
	case viewNotifications:
		return "notifications"
	case viewProfile:
		return "profile"
	}
	return "?"
}

type modalKind int

const (
	modalNone modalKind = iota
	modalEditMessage
	modalConfirmDeleteMessage
	modalConfirmCancelRequest
	modalAddComment
	modalEditComment
	modalConfirmDeleteComment
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// Below this terminal width the selected request renders as an overlay
// instead of a side-by-side split. Pure presentation: the selection and
// messaging logic is shared between both branches.
const narrowLayoutW = 100

type flashDoneMsg struct{ seq int }

type loginDoneMsg struct{ err error }

type logoutDoneMsg struct{}

// requestsLoadedMsg carries one of the two independent list fetches. Both
// must land (same seq) before the loading state clears.
type requestsLoadedMsg struct {
	seq      int
	outgoing bool
	reqs     []model.SittingRequest
	err      error
}

// messagesLoadedMsg carries the full per-account message collection; the
// handler filters it down to the selected request.
type messagesLoadedMsg struct {
	seq       int
	requestID int
	all       []model.SittingMessage
	err       error
}

type requestActionDoneMsg struct {
	requestID int
	action    string
	err       error
}

type messageSentMsg struct {
	requestID int
	err       error
}

type messageMutatedMsg struct {
	op  string // "edit" | "delete"
	err error
}

// scrollRetryMsg drives the bounded wait for a deep-linked chat message to
// become scrollable.
type scrollRetryMsg struct {
	seq     int
	attempt int
}

type notificationsLoadedMsg struct {
	seq   int
	items []model.Notification
	err   error
}

type markAllReadDoneMsg struct{ err error }

// likeNavCheckedMsg is the result of the liveness GET performed before
// navigating from a like notification.
type likeNavCheckedMsg struct {
	postID int
	err    error
}

type feedLoadedMsg struct {
	seq  int
	page model.Page[model.Post]
	err  error
}

type postLoadedMsg struct {
	seq     int
	post    model.Post
	comment int // deep-linked comment id to highlight, 0 when absent
	err     error
}

type likeToggledMsg struct {
	postID int
	err    error
}

type commentSavedMsg struct {
	postID  int
	localID int // placeholder id of the optimistic prepend; 0 for edits
	comment model.Comment
	err     error
}

type commentDeletedMsg struct {
	postID    int
	commentID int
	err       error
}

type profileLoadedMsg struct {
	seq       int
	prof      model.Profile
	followers []model.Profile
	following []model.Profile
	err       error
}

type followToggledMsg struct {
	profileID int
	err       error
}
