package tui

import (
	"fmt"
	"strings"

	"luckycat-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if !m.seenWindowSize {
		return "Starting…"
	}

	header := m.renderHeader()
	body := m.renderBody()
	footer := m.renderFooter()

	out := strings.Join([]string{header, body, footer}, "\n\n")

	if m.modal != modalNone {
		return overlayCentered(m.renderModal(), m.width, m.height)
	}
	return out
}

func (m appModel) renderHeader() string {
	who := m.sess.Username()
	if who == "" {
		who = "-"
	}
	unreadBadge := ""
	if n := model.UnreadCount(m.notifs); n > 0 {
		unreadBadge = lipgloss.NewStyle().Foreground(colorUnread).Render(fmt.Sprintf("  ✉ %d", n))
	}
	return styleHeader().Render(fmt.Sprintf("Lucky Cat  ·  %s  ·  %s%s", who, viewToString(m.view), unreadBadge))
}

func (m appModel) renderBody() string {
	switch m.view {
	case viewLogin:
		return m.renderLoginView()
	case viewFeed:
		return m.renderFeedView()
	case viewPost:
		return m.renderPostView()
	case viewRequests:
		return m.renderRequestsView()
	case viewNotifications:
		return m.renderNotificationsView()
	case viewProfile:
		return m.renderProfileView()
	}
	return ""
}

func (m appModel) renderFooter() string {
	flash := m.renderFlash()
	nav := styleMuted().Render("1: feed  2: requests  3: notifications  4: profile  L: log out  q: quit")
	if flash == "" {
		return nav
	}
	return flash + "\n" + nav
}

func (m appModel) renderModal() string {
	switch m.modal {
	case modalEditMessage:
		return renderModalBox(m.width, "Edit message",
			m.modalText.View()+"\n\n"+styleMuted().Render("ctrl+s: save   esc: cancel"))
	case modalEditComment:
		return renderModalBox(m.width, "Edit comment",
			m.modalText.View()+"\n\n"+styleMuted().Render("ctrl+s: save   esc: cancel"))
	case modalConfirmDeleteMessage:
		return renderConfirmModal(m.width, "Delete message",
			"Delete this message? This cannot be undone.", "Delete", "Keep", m.confirmFocus)
	case modalConfirmDeleteComment:
		return renderConfirmModal(m.width, "Delete comment",
			"Delete this comment? This cannot be undone.", "Delete", "Keep", m.confirmFocus)
	case modalConfirmCancelRequest:
		return renderConfirmModal(m.width, "Cancel request",
			"Withdraw this sitting request?", "Withdraw", "Keep", m.confirmFocus)
	}
	return ""
}
