package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"luckycat-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// The negotiation view is a state machine over one selected request:
// Unselected, or Selected(request) with the request's status deciding which
// actions render. All server state is replaced wholesale on every load.

const (
	scrollMaxAttempts   = 10
	scrollRetryInterval = 200 * time.Millisecond
)

// loadRequests fetches the sent and received lists independently. Both calls
// share a seq; the loading state clears only when both have landed.
func (m *appModel) loadRequests() tea.Cmd {
	m.reqSeq++
	m.reqPending = 2
	seq := m.reqSeq
	backend := m.backend
	fetchIncoming := func() tea.Msg {
		reqs, err := backend.IncomingRequests(context.Background())
		return requestsLoadedMsg{seq: seq, outgoing: false, reqs: reqs, err: err}
	}
	fetchSent := func() tea.Msg {
		reqs, err := backend.SentRequests(context.Background())
		return requestsLoadedMsg{seq: seq, outgoing: true, reqs: reqs, err: err}
	}
	return tea.Batch(fetchIncoming, fetchSent)
}

func (m *appModel) handleRequestsLoaded(msg requestsLoadedMsg) tea.Cmd {
	if msg.seq != m.reqSeq {
		// A newer load superseded this response; drop it.
		return nil
	}
	m.reqPending--
	if msg.err != nil {
		m.logf("requests: load (outgoing=%v): %v", msg.outgoing, msg.err)
		return m.flashError("Could not load requests: " + msg.err.Error())
	}
	if msg.outgoing {
		m.sentReqs = msg.reqs
	} else {
		m.recvReqs = msg.reqs
	}
	if m.reqPending > 0 {
		return nil
	}
	return m.finishRequestsLoad()
}

// finishRequestsLoad runs once both lists are in: merge, rebuild the master
// list, re-resolve the selection, and apply any pending deep link.
func (m *appModel) finishRequestsLoad() tea.Cmd {
	m.merged = model.MergeRequests(m.recvReqs, m.sentReqs)
	m.rebuildRequestsList()

	var cmds []tea.Cmd

	// A previously selected request may have disappeared (e.g. cancelled).
	if m.selectedReq != 0 {
		if _, ok := model.FindRequest(m.merged, m.selectedReq); !ok {
			m.clearSelection()
		}
	}

	// Deep link applies exactly once, after the first complete load.
	if m.pendingFocusReq != 0 {
		id := m.pendingFocusReq
		m.pendingFocusReq = 0
		if _, ok := model.FindRequest(m.merged, id); ok {
			cmds = append(cmds, m.selectRequest(id))
		} else {
			m.pendingFocusMsg = 0
			cmds = append(cmds, m.flashError(fmt.Sprintf("Request %d was not found", id)))
		}
	}
	return tea.Batch(cmds...)
}

func (m *appModel) rebuildRequestsList() {
	curID := 0
	if it, ok := m.requestsList.SelectedItem().(requestItem); ok {
		curID = it.ref.ID
	}
	items := make([]list.Item, 0, len(m.merged))
	for _, ref := range m.merged {
		items = append(items, requestItem{ref: ref})
	}
	m.requestsList.SetItems(items)
	if curID != 0 {
		selectRequestRow(&m.requestsList, curID)
	}
}

func selectRequestRow(l *list.Model, id int) {
	for i, it := range l.Items() {
		if r, ok := it.(requestItem); ok && r.ref.ID == id {
			l.Select(i)
			return
		}
	}
}

// selectRequest enters Selected(id) and kicks off the message fetch keyed on
// the selected id.
func (m *appModel) selectRequest(id int) tea.Cmd {
	m.selectedReq = id
	m.chatCursor = -1
	m.messages = nil
	m.composer.Reset()
	m.composerOn = false
	selectRequestRow(&m.requestsList, id)
	return m.fetchMessages()
}

func (m *appModel) clearSelection() {
	m.selectedReq = 0
	m.messages = nil
	m.chatCursor = -1
	m.composerOn = false
	m.composer.Reset()
}

// fetchMessages loads the entire per-account message collection; filtering to
// the selected request happens on arrival. The server exposes no per-request
// query, so the over-fetch is unavoidable.
func (m *appModel) fetchMessages() tea.Cmd {
	if m.selectedReq == 0 {
		return nil
	}
	m.msgSeq++
	m.msgsLoading = true
	seq := m.msgSeq
	reqID := m.selectedReq
	backend := m.backend
	return func() tea.Msg {
		all, err := backend.SittingMessages(context.Background())
		return messagesLoadedMsg{seq: seq, requestID: reqID, all: all, err: err}
	}
}

func (m *appModel) handleMessagesLoaded(msg messagesLoadedMsg) tea.Cmd {
	if msg.seq != m.msgSeq || msg.requestID != m.selectedReq {
		// Rapid reselection: an older fetch landed late. Ignore it.
		return nil
	}
	m.msgsLoading = false
	if msg.err != nil {
		m.logf("requests: load messages: %v", msg.err)
		return m.flashError("Could not load messages: " + msg.err.Error())
	}
	m.messages = model.FilterMessages(msg.all, m.selectedReq)

	// A deep-linked message that no longer resolves clears the selection.
	if m.pendingFocusMsg != 0 {
		target := m.pendingFocusMsg
		if model.FindMessage(m.messages, target) < 0 {
			m.pendingFocusMsg = 0
			m.clearSelection()
			return m.flashError(fmt.Sprintf("Message %d no longer exists", target))
		}
	}

	m.rebuildChat()
	if m.pendingFocusMsg != 0 {
		m.scrollSeq++
		return m.scrollToMessage(m.scrollSeq, 0)
	}
	m.chatVP.GotoBottom()
	return nil
}

// scrollToMessage waits for the deep-linked bubble to be scrollable, retrying
// on a fixed interval with a hard attempt bound. On give-up it logs and
// stops; the thread is still usable, just not pre-scrolled.
func (m *appModel) scrollToMessage(seq, attempt int) tea.Cmd {
	target := m.pendingFocusMsg
	if target == 0 || seq != m.scrollSeq {
		return nil
	}
	idx := model.FindMessage(m.messages, target)
	if idx >= 0 && m.chatVP.Height > 0 {
		m.pendingFocusMsg = 0
		m.chatCursor = idx
		m.scrollChatCursorIntoView()
		return nil
	}
	if attempt >= scrollMaxAttempts {
		m.logf("requests: gave up scrolling to message %d after %d attempts", target, attempt)
		m.pendingFocusMsg = 0
		return nil
	}
	return tea.Tick(scrollRetryInterval, func(time.Time) tea.Msg {
		return scrollRetryMsg{seq: seq, attempt: attempt + 1}
	})
}

// manageRequest runs accept/decline/cancel, then reloads both lists
// wholesale. The selection is re-resolved against the refreshed lists.
func (m *appModel) manageRequest(id int, action string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		err := backend.ManageRequest(context.Background(), id, action)
		return requestActionDoneMsg{requestID: id, action: action, err: err}
	}
}

func (m *appModel) handleRequestAction(msg requestActionDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.logf("requests: %s %d: %v", msg.action, msg.requestID, msg.err)
		return m.flashError(fmt.Sprintf("Could not %s request: %v", msg.action, msg.err))
	}
	return tea.Batch(
		m.setFlash("Request "+actionPastTense(msg.action), false),
		m.loadRequests(),
	)
}

func actionPastTense(action string) string {
	switch action {
	case "accept":
		return "accepted"
	case "decline":
		return "declined"
	case "cancel":
		return "cancelled"
	}
	return action
}

// sendMessage posts the composer content. Blank input is a no-op with no
// network call. There is no optimistic append: the thread re-fetches after a
// confirmed send (unlike comments, which prepend optimistically).
func (m *appModel) sendMessage() tea.Cmd {
	text := m.composer.Value()
	if model.BlankText(text) {
		return nil
	}
	reqID := m.selectedReq
	if reqID == 0 {
		return nil
	}
	m.composer.Reset()
	backend := m.backend
	return func() tea.Msg {
		_, err := backend.CreateSittingMessage(context.Background(), reqID, text)
		return messageSentMsg{requestID: reqID, err: err}
	}
}

func (m *appModel) handleMessageSent(msg messageSentMsg) tea.Cmd {
	if msg.err != nil {
		m.logf("requests: send message: %v", msg.err)
		return m.flashError("Could not send message: " + msg.err.Error())
	}
	if msg.requestID != m.selectedReq {
		return nil
	}
	return m.fetchMessages()
}

func (m *appModel) editMessage(id int, content string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		_, err := backend.UpdateSittingMessage(context.Background(), id, content)
		return messageMutatedMsg{op: "edit", err: err}
	}
}

func (m *appModel) deleteMessage(id int) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		err := backend.DeleteSittingMessage(context.Background(), id)
		return messageMutatedMsg{op: "delete", err: err}
	}
}

func (m *appModel) handleMessageMutated(msg messageMutatedMsg) tea.Cmd {
	if msg.err != nil {
		m.logf("requests: %s message: %v", msg.op, msg.err)
		return m.flashError(fmt.Sprintf("Could not %s message: %v", msg.op, msg.err))
	}
	return m.fetchMessages()
}

// selectedRef resolves the current selection against the merged list.
func (m appModel) selectedRef() (model.RequestRef, bool) {
	if m.selectedReq == 0 {
		return model.RequestRef{}, false
	}
	return model.FindRequest(m.merged, m.selectedReq)
}

// cursorMessage returns the chat message under the cursor, if any.
func (m appModel) cursorMessage() (model.SittingMessage, bool) {
	if m.chatCursor < 0 || m.chatCursor >= len(m.messages) {
		return model.SittingMessage{}, false
	}
	return m.messages[m.chatCursor], true
}

// ownMessage reports whether the current user sent the message. Edit/delete
// affordances render only for own messages; the server enforces for real.
func (m appModel) ownMessage(msg model.SittingMessage) bool {
	return msg.Sender.ID == m.sess.UserID()
}

// --- rendering ---

func (m *appModel) resizeChat() {
	w, h := m.chatPanelSize()
	m.chatVP.Width = w
	m.chatVP.Height = h - composerHeight(m.composerOn)
	m.composer.SetWidth(w)
	if m.selectedReq != 0 && len(m.messages) > 0 {
		m.rebuildChat()
	}
}

func composerHeight(focused bool) int {
	if focused {
		return 5
	}
	return 4
}

// chatPanelSize is the detail panel's inner size for the current layout.
func (m appModel) chatPanelSize() (int, int) {
	bodyH := m.height - 6
	if bodyH < 8 {
		bodyH = 8
	}
	if m.splitLayout() {
		w := m.width - m.width/2 - 2
		if w < 30 {
			w = 30
		}
		return w, bodyH
	}
	w := m.width - 8
	if w < 30 {
		w = 30
	}
	return w, bodyH - 2
}

func (m *appModel) rebuildChat() {
	w := m.chatVP.Width
	if w <= 0 {
		w, _ = m.chatPanelSize()
	}
	m.chatVP.SetContent(renderChatThread(m.messages, m.chatCursor, m.sess.UserID(), w))
}

// scrollChatCursorIntoView scrolls so the cursor's bubble is visible. Bubble
// heights vary with wrapping, so the offset is the rendered height of every
// preceding block.
func (m *appModel) scrollChatCursorIntoView() {
	m.rebuildChat()
	if m.chatCursor < 0 || len(m.messages) == 0 {
		return
	}
	w := m.chatVP.Width
	if w <= 0 {
		w, _ = m.chatPanelSize()
	}
	line := 0
	for i := 0; i < m.chatCursor; i++ {
		line += lipgloss.Height(renderChatBubble(m.messages[i], false, m.sess.UserID(), w))
	}
	m.chatVP.SetYOffset(line)
}

// renderChatBubble renders one message block: a muted header line plus the
// bordered bubble, aligned by sender. Content longer than the bubble width
// wraps; short bubbles stay as narrow as their content.
func renderChatBubble(msg model.SittingMessage, selected bool, ownUserID, width int) string {
	bubbleW := width - 6
	if bubbleW < 20 {
		bubbleW = 20
	}
	own := msg.Sender.ID == ownUserID
	border := colorTheirBubble
	align := lipgloss.Left
	if own {
		border = colorOwnBubble
		align = lipgloss.Right
	}
	st := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	// Width wraps; padding and border take 4 cells.
	if lipgloss.Width(msg.Content)+4 > bubbleW {
		st = st.Width(bubbleW)
	}
	if selected {
		st = st.Bold(true).BorderForeground(colorAccent)
	}
	head := styleMuted().Render(fmt.Sprintf("%s · %s", msg.SenderName, relTime(msg.CreatedAt)))
	block := lipgloss.JoinVertical(lipgloss.Left, head, st.Render(msg.Content))
	return lipgloss.PlaceHorizontal(width, align, block)
}

// renderChatThread is the single chat renderer used by both the split panel
// and the narrow overlay.
func renderChatThread(msgs []model.SittingMessage, cursor, ownUserID, width int) string {
	if len(msgs) == 0 {
		return styleMuted().Render("No messages yet.")
	}
	var b strings.Builder
	for i, msg := range msgs {
		b.WriteString(renderChatBubble(msg, i == cursor, ownUserID, width))
		b.WriteString("\n")
	}
	return b.String()
}

// renderRequestDetail renders the selected request's header and the actions
// its status allows. Pending+received: accept/decline. Pending+sent: cancel.
// Accepted: the chat thread and composer. Declined: a terminal notice.
func (m appModel) renderRequestDetail(width, height int) string {
	ref, ok := m.selectedRef()
	if !ok {
		return lipgloss.NewStyle().Width(width).Height(height).
			Render(styleMuted().Render("Select a request."))
	}

	var parts []string
	dir := "From"
	who := ref.SenderUsername
	if ref.Outgoing {
		dir = "To"
		who = ref.ReceiverUsername
	}
	parts = append(parts, styleHeader().Render(ref.PostTitle))
	parts = append(parts, styleMuted().Render(fmt.Sprintf("%s %s · %s · %s", dir, who, ref.PostCategory, relTime(ref.CreatedAt))))
	parts = append(parts, "")
	if strings.TrimSpace(ref.Message) != "" {
		parts = append(parts, lipgloss.NewStyle().Width(width).Render("“"+ref.Message+"”"))
		parts = append(parts, "")
	}

	switch ref.Status {
	case model.StatusPending:
		pending := lipgloss.NewStyle().Foreground(colorPending)
		if ref.Outgoing {
			parts = append(parts, pending.Render("Pending — waiting for "+ref.ReceiverUsername))
			parts = append(parts, styleMuted().Render("c: cancel request"))
		} else {
			parts = append(parts, pending.Render("Pending — your answer is needed"))
			parts = append(parts, styleMuted().Render("a: accept   d: decline"))
		}
	case model.StatusDeclined:
		parts = append(parts, styleError().Render("Declined"))
	case model.StatusAccepted:
		parts = append(parts, lipgloss.NewStyle().Foreground(colorOK).Render("Accepted — chat open"))
		parts = append(parts, "")
		if m.msgsLoading {
			parts = append(parts, styleMuted().Render("Loading messages…"))
		} else {
			parts = append(parts, m.chatVP.View())
		}
		parts = append(parts, m.renderComposer(width))
	}

	return lipgloss.NewStyle().Width(width).MaxHeight(height).
		Render(strings.Join(parts, "\n"))
}

func (m appModel) renderComposer(width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(colorMuted).
		Width(width)
	if m.composerOn {
		return box.Render(m.composer.View() + "\n" + styleMuted().Render("ctrl+s: send   esc: leave composer"))
	}
	return box.Render(styleMuted().Render("tab: write a message   e: edit   x: delete (own messages)"))
}

// renderRequestsView draws master list plus detail: side-by-side above the
// breakpoint, overlay below it. Both branches share renderRequestDetail.
func (m appModel) renderRequestsView() string {
	bodyH := m.height - 6
	if bodyH < 8 {
		bodyH = 8
	}

	if m.reqPending > 0 {
		return styleMuted().Render("Loading requests…")
	}

	if !m.splitLayout() {
		if m.selectedReq != 0 {
			w, h := m.chatPanelSize()
			detail := m.renderRequestDetail(w, h)
			return overlayCentered(renderModalBox(m.width, "Request", detail), m.width, m.height-4)
		}
		return m.requestsList.View()
	}

	leftW := m.width / 2
	rightW, _ := m.chatPanelSize()
	left := m.requestsList.View()
	detail := m.renderRequestDetail(rightW, bodyH)
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(leftW).Render(left), " ", detail)
}
