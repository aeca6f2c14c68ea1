package tui

import (
	"luckycat-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) updateNotificationsKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.notifsList.SettingFilter() {
		if cmd, ok := m.switchViewKey(k); ok {
			return *m, cmd
		}
		switch k.String() {
		case "q":
			return *m, tea.Quit
		case "r":
			return *m, m.loadNotifications()
		case "M":
			return *m, m.markAllRead()
		case "esc":
			m.view = viewFeed
			return *m, m.loadFeed("")
		case "enter":
			if it, ok := m.notifsList.SelectedItem().(notificationItem); ok {
				return *m, m.openNotification(it.n)
			}
			return *m, nil
		}
	}
	var cmd tea.Cmd
	m.notifsList, cmd = m.notifsList.Update(k)
	return *m, cmd
}

func (m *appModel) updateFeedKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.feedList.SettingFilter() {
		if cmd, ok := m.switchViewKey(k); ok {
			return *m, cmd
		}
		switch k.String() {
		case "q":
			return *m, tea.Quit
		case "r":
			return *m, m.loadFeed("")
		case "n":
			if m.feedNext != "" {
				return *m, m.loadFeed(m.feedNext)
			}
			return *m, nil
		case "p":
			if m.feedPrev != "" {
				return *m, m.loadFeed(m.feedPrev)
			}
			return *m, nil
		case "enter":
			if it, ok := m.feedList.SelectedItem().(postItem); ok {
				m.view = viewPost
				m.openPost = nil
				return *m, m.loadPost(it.post.ID, 0)
			}
			return *m, nil
		}
	}
	var cmd tea.Cmd
	m.feedList, cmd = m.feedList.Update(k)
	return *m, cmd
}

func (m *appModel) updatePostKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composerCmt {
		switch k.String() {
		case "esc":
			m.composerCmt = false
			m.commentInput.Blur()
			return *m, nil
		case "ctrl+s":
			m.composerCmt = false
			m.commentInput.Blur()
			return *m, m.submitComment()
		}
		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(k)
		return *m, cmd
	}

	if cmd, ok := m.switchViewKey(k); ok {
		return *m, cmd
	}
	switch k.String() {
	case "q":
		return *m, tea.Quit
	case "esc":
		m.view = viewFeed
		m.openPost = nil
		m.highlightCmt = 0
		return *m, nil
	case "l":
		return *m, m.toggleLike()
	case "c":
		m.composerCmt = true
		return *m, m.commentInput.Focus()
	case "j":
		if m.openPost != nil && m.commentIdx < len(m.openPost.Comments)-1 {
			m.commentIdx++
		}
		return *m, nil
	case "k":
		if m.commentIdx > 0 {
			m.commentIdx--
		}
		return *m, nil
	case "e":
		if c, ok := m.cursorComment(); ok && c.AuthorID == m.sess.UserID() {
			m.modal = modalEditComment
			m.modalCommentID = c.ID
			m.modalText.SetValue(c.Content)
			return *m, m.modalText.Focus()
		}
		return *m, nil
	case "x":
		if c, ok := m.cursorComment(); ok && c.AuthorID == m.sess.UserID() {
			m.modal = modalConfirmDeleteComment
			m.modalCommentID = c.ID
			m.confirmFocus = confirmFocusCancel
			return *m, nil
		}
		return *m, nil
	case "r":
		if m.openPost != nil {
			return *m, m.loadPost(m.openPost.ID, m.highlightCmt)
		}
		return *m, nil
	}
	return *m, nil
}

func (m appModel) cursorComment() (model.Comment, bool) {
	if m.openPost == nil || m.commentIdx < 0 || m.commentIdx >= len(m.openPost.Comments) {
		return model.Comment{}, false
	}
	return m.openPost.Comments[m.commentIdx], true
}

func (m *appModel) updateProfileKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	activeList := &m.followers
	if m.profileTab == 1 {
		activeList = &m.following
	}
	if !activeList.SettingFilter() {
		if cmd, ok := m.switchViewKey(k); ok {
			return *m, cmd
		}
		switch k.String() {
		case "q":
			return *m, tea.Quit
		case "esc":
			m.view = viewFeed
			return *m, m.loadFeed("")
		case "tab":
			m.profileTab = (m.profileTab + 1) % 2
			return *m, nil
		case "r":
			return *m, m.loadProfile()
		case "f":
			if it, ok := activeList.SelectedItem().(profileItem); ok {
				return *m, m.toggleFollow(it.prof)
			}
			return *m, nil
		}
	}
	var cmd tea.Cmd
	*activeList, cmd = activeList.Update(k)
	return *m, cmd
}

func (m *appModel) updateModalKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalEditMessage, modalEditComment:
		switch k.String() {
		case "esc":
			m.closeModal()
			return *m, nil
		case "ctrl+s":
			text := m.modalText.Value()
			var cmd tea.Cmd
			switch m.modal {
			case modalEditMessage:
				cmd = m.editMessage(m.modalMsgID, text)
			case modalEditComment:
				cmd = m.saveCommentEdit(m.modalCommentID, text)
			}
			m.closeModal()
			return *m, cmd
		}
		var cmd tea.Cmd
		m.modalText, cmd = m.modalText.Update(k)
		return *m, cmd

	case modalConfirmDeleteMessage, modalConfirmCancelRequest, modalConfirmDeleteComment:
		switch k.String() {
		case "esc":
			m.closeModal()
			return *m, nil
		case "tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
			return *m, nil
		case "enter":
			confirmed := m.confirmFocus == confirmFocusConfirm
			modal := m.modal
			msgID := m.modalMsgID
			commentID := m.modalCommentID
			m.closeModal()
			if !confirmed {
				return *m, nil
			}
			switch modal {
			case modalConfirmDeleteMessage:
				return *m, m.deleteMessage(msgID)
			case modalConfirmCancelRequest:
				if ref, ok := m.selectedRef(); ok {
					return *m, m.manageRequest(ref.ID, "cancel")
				}
			case modalConfirmDeleteComment:
				return *m, m.deleteComment(commentID)
			}
			return *m, nil
		}
	}
	return *m, nil
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalMsgID = 0
	m.modalCommentID = 0
	m.modalText.Reset()
	m.modalText.Blur()
	m.confirmFocus = confirmFocusCancel
}
