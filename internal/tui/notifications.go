package tui

import (
	"context"
	"fmt"

	"luckycat-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) loadNotifications() tea.Cmd {
	m.notifSeq++
	m.notifsBusy = true
	seq := m.notifSeq
	backend := m.backend
	return func() tea.Msg {
		items, err := backend.Notifications(context.Background())
		return notificationsLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m *appModel) handleNotificationsLoaded(msg notificationsLoadedMsg) tea.Cmd {
	if msg.seq != m.notifSeq {
		return nil
	}
	m.notifsBusy = false
	if msg.err != nil {
		m.logf("notifications: load: %v", msg.err)
		return m.flashError("Could not load notifications: " + msg.err.Error())
	}
	m.notifs = msg.items
	m.rebuildNotifsList()
	return nil
}

func (m *appModel) rebuildNotifsList() {
	items := make([]list.Item, 0, len(m.notifs))
	for _, n := range m.notifs {
		items = append(items, notificationItem{n: n})
	}
	m.notifsList.SetItems(items)
}

// markReadLocally flips local state optimistically. Failure of the server
// call is logged but not rolled back.
func (m *appModel) markReadLocally(id int) {
	for i := range m.notifs {
		if m.notifs[i].ID == id {
			m.notifs[i].IsRead = true
		}
	}
	m.rebuildNotifsList()
}

func (m *appModel) markReadCmd(id int) tea.Cmd {
	backend := m.backend
	logf := m.logf
	return func() tea.Msg {
		if err := backend.MarkNotificationRead(context.Background(), id); err != nil {
			logf("notifications: mark read %d: %v", id, err)
		}
		return nil
	}
}

// openNotification decides navigation by item type, marks the item read, and
// returns the follow-up commands. Unknown types flash and stay put.
func (m *appModel) openNotification(n model.Notification) tea.Cmd {
	cmds := []tea.Cmd{m.markReadCmd(n.ID)}
	m.markReadLocally(n.ID)

	switch n.Type {
	case model.NotifComment:
		if n.PostID == nil {
			return tea.Batch(append(cmds, m.flashError("Notification has no post reference"))...)
		}
		highlight := 0
		if n.CommentID != nil {
			highlight = *n.CommentID
		}
		m.view = viewPost
		return tea.Batch(append(cmds, m.loadPost(*n.PostID, highlight))...)

	case model.NotifLike:
		if n.PostID == nil {
			return tea.Batch(append(cmds, m.flashError("Notification has no post reference"))...)
		}
		// Liveness check before navigating: the post may have been deleted.
		postID := *n.PostID
		backend := m.backend
		cmds = append(cmds, func() tea.Msg {
			_, err := backend.Post(context.Background(), postID)
			return likeNavCheckedMsg{postID: postID, err: err}
		})
		return tea.Batch(cmds...)

	case model.NotifFollow:
		if m.sess.UserID() == 0 {
			return tea.Batch(append(cmds, m.flashError("Your profile is not loaded yet"))...)
		}
		m.view = viewProfile
		m.profileTab = 0
		return tea.Batch(append(cmds, m.loadProfile())...)

	case model.NotifRequest, model.NotifSittingMessage:
		if n.SittingRequestID != nil {
			m.pendingFocusReq = *n.SittingRequestID
		}
		if n.SittingMessageID != nil {
			m.pendingFocusMsg = *n.SittingMessageID
		}
		m.view = viewRequests
		return tea.Batch(append(cmds, m.loadRequests())...)

	default:
		return tea.Batch(append(cmds, m.setFlash(fmt.Sprintf("Nothing to open for %q notifications", n.Type), false))...)
	}
}

func (m *appModel) handleLikeNavChecked(msg likeNavCheckedMsg) tea.Cmd {
	if msg.err != nil {
		m.logf("notifications: like target %d: %v", msg.postID, msg.err)
		return m.flashError("That post no longer exists")
	}
	m.view = viewPost
	return m.loadPost(msg.postID, 0)
}

// markAllRead issues one bulk call and flips every local item optimistically.
func (m *appModel) markAllRead() tea.Cmd {
	for i := range m.notifs {
		m.notifs[i].IsRead = true
	}
	m.rebuildNotifsList()
	backend := m.backend
	return func() tea.Msg {
		return markAllReadDoneMsg{err: backend.MarkAllNotificationsRead(context.Background())}
	}
}

func (m *appModel) handleMarkAllReadDone(msg markAllReadDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.logf("notifications: mark all read: %v", msg.err)
		return m.flashError("Could not mark all as read: " + msg.err.Error())
	}
	return nil
}

func (m appModel) renderNotificationsView() string {
	if m.notifsBusy {
		return styleMuted().Render("Loading notifications…")
	}
	unread := model.UnreadCount(m.notifs)
	head := styleMuted().Render(fmt.Sprintf("%d unread · enter: open   M: mark all read   r: reload", unread))
	return head + "\n" + m.notifsList.View()
}
