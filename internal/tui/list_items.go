package tui

import (
	"fmt"
	"time"

	"luckycat-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

// requestItem is one row in the merged sent+received master list.
type requestItem struct {
	ref model.RequestRef
}

func (it requestItem) Title() string {
	dir := "from"
	if it.ref.Outgoing {
		dir = "to"
	}
	return fmt.Sprintf("%s %s %s — %s", statusGlyph(it.ref.Status), dir, it.ref.Counterpart(), it.ref.PostTitle)
}

func (it requestItem) Description() string {
	return fmt.Sprintf("%s · %s", it.ref.PostCategory, relTime(it.ref.CreatedAt))
}

func (it requestItem) FilterValue() string {
	return it.ref.Counterpart() + " " + it.ref.PostTitle
}

func statusGlyph(s model.RequestStatus) string {
	switch s {
	case model.StatusPending:
		return "●"
	case model.StatusAccepted:
		return "✓"
	case model.StatusDeclined:
		return "✗"
	}
	return "?"
}

// notificationItem is one activity row.
type notificationItem struct {
	n model.Notification
}

func (it notificationItem) Title() string {
	marker := " "
	if !it.n.IsRead {
		marker = "•"
	}
	return fmt.Sprintf("%s %s", marker, it.n.Message)
}

func (it notificationItem) Description() string {
	return fmt.Sprintf("%s · %s", it.n.Type, relTime(it.n.CreatedAt))
}

func (it notificationItem) FilterValue() string { return it.n.Message }

// postItem is one feed row.
type postItem struct {
	post model.Post
}

func (it postItem) Title() string {
	return it.post.Title
}

func (it postItem) Description() string {
	return fmt.Sprintf("%s · %s · ♥%d 💬%d", it.post.Author, it.post.Category, it.post.LikesCount, it.post.CommentsCount)
}

func (it postItem) FilterValue() string { return it.post.Title + " " + it.post.Author }

// profileItem is one follower/following row.
type profileItem struct {
	prof model.Profile
}

func (it profileItem) Title() string       { return it.prof.Username }
func (it profileItem) Description() string { return it.prof.Bio }
func (it profileItem) FilterValue() string { return it.prof.Username }

func newList(title, help string, items []list.Item) list.Model {
	l := list.New(items, newCompactItemDelegate(), 0, 0)
	l.Title = title
	// We render our own global header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

// relTime renders a compact relative timestamp for list rows.
func relTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format("2006-01-02")
}
