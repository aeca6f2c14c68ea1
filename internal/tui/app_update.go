package tui

import (
	"context"

	"luckycat-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		(&m).resizeLists()
		return m, nil

	case flashDoneMsg:
		(&m).handleFlashDone(msg)
		return m, nil

	case loginDoneMsg:
		return m, (&m).handleLoginDone(msg)

	case logoutDoneMsg:
		m.view = viewLogin
		m.loginUser.Focus()
		return m, nil

	case requestsLoadedMsg:
		return m, (&m).handleRequestsLoaded(msg)

	case messagesLoadedMsg:
		return m, (&m).handleMessagesLoaded(msg)

	case requestActionDoneMsg:
		return m, (&m).handleRequestAction(msg)

	case messageSentMsg:
		return m, (&m).handleMessageSent(msg)

	case messageMutatedMsg:
		return m, (&m).handleMessageMutated(msg)

	case scrollRetryMsg:
		return m, (&m).scrollToMessage(msg.seq, msg.attempt)

	case notificationsLoadedMsg:
		return m, (&m).handleNotificationsLoaded(msg)

	case markAllReadDoneMsg:
		return m, (&m).handleMarkAllReadDone(msg)

	case likeNavCheckedMsg:
		return m, (&m).handleLikeNavChecked(msg)

	case feedLoadedMsg:
		return m, (&m).handleFeedLoaded(msg)

	case postLoadedMsg:
		return m, (&m).handlePostLoaded(msg)

	case likeToggledMsg:
		return m, (&m).handleLikeToggled(msg)

	case commentSavedMsg:
		return m, (&m).handleCommentSaved(msg)

	case commentDeletedMsg:
		return m, (&m).handleCommentDeleted(msg)

	case profileLoadedMsg:
		return m, (&m).handleProfileLoaded(msg)

	case followToggledMsg:
		return m, (&m).handleFollowToggled(msg)

	case tea.KeyMsg:
		return (&m).handleKey(msg)
	}
	return m, nil
}

func (m *appModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.String() == "ctrl+c" {
		return *m, tea.Quit
	}

	if m.modal != modalNone {
		return m.updateModalKeys(k)
	}

	switch m.view {
	case viewLogin:
		return m.updateLoginKeys(k)
	case viewRequests:
		return m.updateRequestsKeys(k)
	case viewNotifications:
		return m.updateNotificationsKeys(k)
	case viewFeed:
		return m.updateFeedKeys(k)
	case viewPost:
		return m.updatePostKeys(k)
	case viewProfile:
		return m.updateProfileKeys(k)
	}
	return *m, nil
}

// switchViewKey handles the global view hotkeys. Returns false when the key
// is not a view switch (or the user is typing).
func (m *appModel) switchViewKey(k tea.KeyMsg) (tea.Cmd, bool) {
	switch k.String() {
	case "1":
		m.view = viewFeed
		return m.loadFeed(""), true
	case "2":
		m.view = viewRequests
		return m.loadRequests(), true
	case "3":
		m.view = viewNotifications
		return m.loadNotifications(), true
	case "4":
		m.view = viewProfile
		return m.loadProfile(), true
	case "L":
		sess := m.sess
		return func() tea.Msg {
			sess.Logout(context.Background())
			return logoutDoneMsg{}
		}, true
	}
	return nil, false
}

func (m *appModel) updateLoginKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q":
		if m.loginUser.Value() == "" && m.loginPass.Value() == "" {
			return *m, tea.Quit
		}
	case "tab", "down":
		m.loginFocus = (m.loginFocus + 1) % 2
		m.syncLoginFocus()
		return *m, nil
	case "shift+tab", "up":
		m.loginFocus = (m.loginFocus + 1) % 2
		m.syncLoginFocus()
		return *m, nil
	case "enter":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.syncLoginFocus()
			return *m, nil
		}
		return *m, m.submitLogin()
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.loginUser, cmd = m.loginUser.Update(k)
	} else {
		m.loginPass, cmd = m.loginPass.Update(k)
	}
	return *m, cmd
}

func (m *appModel) syncLoginFocus() {
	if m.loginFocus == 0 {
		m.loginUser.Focus()
		m.loginPass.Blur()
	} else {
		m.loginUser.Blur()
		m.loginPass.Focus()
	}
}

func (m *appModel) updateRequestsKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Composer owns the keyboard while focused.
	if m.composerOn {
		switch k.String() {
		case "esc":
			m.composerOn = false
			m.composer.Blur()
			m.resizeChat()
			return *m, nil
		case "ctrl+s":
			return *m, m.sendMessage()
		}
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(k)
		return *m, cmd
	}

	if !m.requestsList.SettingFilter() {
		if cmd, ok := m.switchViewKey(k); ok {
			return *m, cmd
		}
		switch k.String() {
		case "q":
			return *m, tea.Quit
		case "r":
			return *m, m.loadRequests()
		case "esc":
			if m.selectedReq != 0 {
				m.clearSelection()
				return *m, nil
			}
			m.view = viewFeed
			return *m, m.loadFeed("")
		case "enter":
			if it, ok := m.requestsList.SelectedItem().(requestItem); ok {
				return *m, m.selectRequest(it.ref.ID)
			}
			return *m, nil
		case "a", "d":
			if ref, ok := m.selectedRef(); ok && !ref.Outgoing && ref.Status == model.StatusPending {
				action := "accept"
				if k.String() == "d" {
					action = "decline"
				}
				return *m, m.manageRequest(ref.ID, action)
			}
			return *m, nil
		case "c":
			if ref, ok := m.selectedRef(); ok && ref.Outgoing && ref.Status == model.StatusPending {
				m.modal = modalConfirmCancelRequest
				m.confirmFocus = confirmFocusCancel
				return *m, nil
			}
			return *m, nil
		case "tab":
			if ref, ok := m.selectedRef(); ok && ref.Status == model.StatusAccepted {
				m.composerOn = true
				m.resizeChat()
				return *m, m.composer.Focus()
			}
			return *m, nil
		case "J":
			if m.selectedReq != 0 && m.chatCursor < len(m.messages)-1 {
				m.chatCursor++
				m.scrollChatCursorIntoView()
			}
			return *m, nil
		case "K":
			if m.selectedReq != 0 && m.chatCursor > 0 {
				m.chatCursor--
				m.scrollChatCursorIntoView()
			}
			return *m, nil
		case "e":
			if msg, ok := m.cursorMessage(); ok && m.ownMessage(msg) {
				m.modal = modalEditMessage
				m.modalMsgID = msg.ID
				m.modalText.SetValue(msg.Content)
				return *m, m.modalText.Focus()
			}
			return *m, nil
		case "x":
			if msg, ok := m.cursorMessage(); ok && m.ownMessage(msg) {
				m.modal = modalConfirmDeleteMessage
				m.modalMsgID = msg.ID
				m.confirmFocus = confirmFocusCancel
				return *m, nil
			}
			return *m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.chatVP, cmd = m.chatVP.Update(k)
			return *m, cmd
		}
	}

	var cmd tea.Cmd
	m.requestsList, cmd = m.requestsList.Update(k)
	return *m, cmd
}
