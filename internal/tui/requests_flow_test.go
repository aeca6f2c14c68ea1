package tui

import (
	"strings"
	"testing"
	"time"

	"luckycat-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

// Fixture: one pending request received from bob, one accepted request sent to
// carol, with carol's thread holding two messages plus one stray message that
// belongs to an unrelated request.
func requestsFixture() *fakeBackend {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeBackend{
		incoming: []model.SittingRequest{{
			ID:               1,
			Status:           model.StatusPending,
			SenderUsername:   "bob",
			ReceiverUsername: "me",
			PostTitle:        "Weekend sitting",
			PostCategory:     "sitter_wanted",
			Message:          "Could you watch Miso?",
			CreatedAt:        base,
		}},
		sent: []model.SittingRequest{{
			ID:               2,
			Status:           model.StatusAccepted,
			SenderUsername:   "me",
			ReceiverUsername: "carol",
			PostTitle:        "Holiday sitting",
			PostCategory:     "cat_available",
			CreatedAt:        base.Add(time.Hour),
		}},
		msgs: []model.SittingMessage{
			{ID: 11, SittingRequest: 2, Content: "Hi!", Sender: model.MessageSender{ID: 7}, SenderName: "me", CreatedAt: base.Add(2 * time.Hour)},
			{ID: 12, SittingRequest: 2, Content: "Hello there", Sender: model.MessageSender{ID: 9}, SenderName: "carol", CreatedAt: base.Add(3 * time.Hour)},
			{ID: 13, SittingRequest: 3, Content: "wrong thread", Sender: model.MessageSender{ID: 9}, SenderName: "carol", CreatedAt: base.Add(4 * time.Hour)},
		},
	}
}

func newRequestsModel(fb *fakeBackend) appModel {
	m := newAppModel(Options{
		Backend:   fb,
		Session:   &stubSession{authed: true, userID: 7, username: "me"},
		StartView: "requests",
	})
	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return mAny.(appModel)
}

// loadBothLists simulates the two list fetches landing in order.
func loadBothLists(t *testing.T, m *appModel, fb *fakeBackend) tea.Cmd {
	t.Helper()
	_ = m.loadRequests()
	if m.reqPending != 2 {
		t.Fatalf("reqPending = %d, want 2 while both fetches are in flight", m.reqPending)
	}
	if cmd := m.handleRequestsLoaded(requestsLoadedMsg{seq: m.reqSeq, outgoing: false, reqs: fb.incoming}); cmd != nil {
		t.Fatalf("first list landing should not finish the load")
	}
	return m.handleRequestsLoaded(requestsLoadedMsg{seq: m.reqSeq, outgoing: true, reqs: fb.sent})
}

func TestRequestsLoad_MergesNewestFirstAndClearsPendingOnlyWhenBothLand(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)

	loadBothLists(t, &m, fb)

	if m.reqPending != 0 {
		t.Fatalf("reqPending = %d after both lists landed", m.reqPending)
	}
	if len(m.merged) != 2 {
		t.Fatalf("merged = %d refs, want 2", len(m.merged))
	}
	// Sent request is newer, so it sorts first.
	if m.merged[0].ID != 2 || !m.merged[0].Outgoing {
		t.Fatalf("merged[0] = id %d outgoing %v, want id 2 outgoing", m.merged[0].ID, m.merged[0].Outgoing)
	}
	if m.merged[1].ID != 1 || m.merged[1].Outgoing {
		t.Fatalf("merged[1] = id %d outgoing %v, want id 1 incoming", m.merged[1].ID, m.merged[1].Outgoing)
	}

	out := xansi.Strip(m.renderRequestsView())
	if !strings.Contains(out, "carol") || !strings.Contains(out, "bob") {
		t.Fatalf("master list should show both counterparts, got:\n%s", out)
	}
}

func TestRequestsLoad_StaleSeqIsDiscarded(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)

	_ = m.loadRequests()
	stale := m.reqSeq
	_ = m.loadRequests() // user hit reload before the first answer came back

	m.handleRequestsLoaded(requestsLoadedMsg{seq: stale, outgoing: false, reqs: fb.incoming})
	if m.recvReqs != nil {
		t.Fatalf("stale response must not populate state")
	}
	if m.reqPending != 2 {
		t.Fatalf("reqPending = %d, stale response must not decrement the newer load", m.reqPending)
	}
}

func TestSelectRequest_FiltersMessagesToThread(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	cmd := m.selectRequest(2)
	if cmd == nil {
		t.Fatalf("selecting a request should start a message fetch")
	}
	m.handleMessagesLoaded(messagesLoadedMsg{seq: m.msgSeq, requestID: 2, all: fb.msgs})

	if len(m.messages) != 2 {
		t.Fatalf("got %d messages, want 2 (the stray request-3 message filtered out)", len(m.messages))
	}
	if m.messages[0].ID != 11 || m.messages[1].ID != 12 {
		t.Fatalf("messages not oldest-first: %d, %d", m.messages[0].ID, m.messages[1].ID)
	}
}

func TestMessagesLoaded_StaleOrReselectedIsDiscarded(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	_ = m.selectRequest(2)
	seqFor2 := m.msgSeq
	_ = m.selectRequest(1) // rapid reselection before request 2's messages land

	m.handleMessagesLoaded(messagesLoadedMsg{seq: seqFor2, requestID: 2, all: fb.msgs})
	if m.messages != nil {
		t.Fatalf("late answer for a deselected request must be ignored")
	}
}

func TestRequestDetail_PendingIncomingOffersAcceptDecline(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	m.selectedReq = 1
	out := xansi.Strip(m.renderRequestDetail(60, 30))
	if !strings.Contains(out, "a: accept") || !strings.Contains(out, "d: decline") {
		t.Fatalf("pending incoming detail should offer accept/decline, got:\n%s", out)
	}
	if strings.Contains(out, "write a message") {
		t.Fatalf("pending request must not render the chat composer:\n%s", out)
	}
}

func TestRequestDetail_AcceptedShowsChatAndComposer(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	_ = m.selectRequest(2)
	m.handleMessagesLoaded(messagesLoadedMsg{seq: m.msgSeq, requestID: 2, all: fb.msgs})

	out := xansi.Strip(m.renderRequestDetail(60, 30))
	if !strings.Contains(out, "Accepted") {
		t.Fatalf("detail should show accepted state:\n%s", out)
	}
	if !strings.Contains(out, "write a message") {
		t.Fatalf("accepted request should render the composer hint:\n%s", out)
	}
	if !strings.Contains(out, "Hello there") {
		t.Fatalf("chat thread should render the messages:\n%s", out)
	}
}

func TestAcceptDeclineKeys_IgnoredUnlessPendingIncoming(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	// Accepted request: "a" must not fire a manage call.
	m.selectedReq = 2
	_, cmd := m.updateRequestsKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if cmd != nil {
		t.Fatalf("accept on a non-pending request should be a no-op")
	}

	// Pending incoming: "d" fires decline.
	m.selectedReq = 1
	_, cmd = m.updateRequestsKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if cmd == nil {
		t.Fatalf("decline on a pending incoming request should fire")
	}
	msg := cmd()
	done, ok := msg.(requestActionDoneMsg)
	if !ok {
		t.Fatalf("got %T, want requestActionDoneMsg", msg)
	}
	if done.action != "decline" || done.requestID != 1 {
		t.Fatalf("got action %q on %d, want decline on 1", done.action, done.requestID)
	}
	if !fb.calledWith("ManageRequest 1 decline") {
		t.Fatalf("backend never saw the decline, calls: %v", fb.calls)
	}
}

func TestRequestAction_ReloadsBothListsWholesale(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	before := m.reqSeq
	cmd := m.handleRequestAction(requestActionDoneMsg{requestID: 1, action: "accept"})
	if cmd == nil {
		t.Fatalf("successful action should flash and reload")
	}
	if m.reqSeq != before+1 || m.reqPending != 2 {
		t.Fatalf("action must start a fresh two-list load, seq %d→%d pending %d", before, m.reqSeq, m.reqPending)
	}
	if m.flashText != "Request accepted" {
		t.Fatalf("flash = %q", m.flashText)
	}
}

func TestSelectionClearedWhenRequestVanishesOnReload(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	_ = m.selectRequest(2)
	// The counterpart cancelled: request 2 is gone from the refreshed lists.
	fb.sent = nil
	loadBothLists(t, &m, fb)

	if m.selectedReq != 0 {
		t.Fatalf("selection should clear when the request vanishes, still %d", m.selectedReq)
	}
}

func TestSendMessage_BlankIsNoOpWithoutNetworkCall(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	_ = m.selectRequest(2)
	m.composer.SetValue("   \n\t  ")
	if cmd := m.sendMessage(); cmd != nil {
		t.Fatalf("blank message should be dropped before any command")
	}
	if fb.calledWith("CreateSittingMessage") {
		t.Fatalf("blank message must not reach the backend, calls: %v", fb.calls)
	}
}

func TestSendMessage_RefetchesThreadInsteadOfAppending(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	_ = m.selectRequest(2)
	m.handleMessagesLoaded(messagesLoadedMsg{seq: m.msgSeq, requestID: 2, all: fb.msgs})

	m.composer.SetValue("See you at 9")
	cmd := m.sendMessage()
	if cmd == nil {
		t.Fatalf("non-blank message should produce a send command")
	}
	// No optimistic append: local thread is untouched until the re-fetch.
	if len(m.messages) != 2 {
		t.Fatalf("thread grew to %d before the server confirmed", len(m.messages))
	}

	sent, ok := cmd().(messageSentMsg)
	if !ok || sent.err != nil {
		t.Fatalf("send failed: %+v", sent)
	}
	if !fb.calledWith(`CreateSittingMessage 2 "See you at 9"`) {
		t.Fatalf("backend call missing, calls: %v", fb.calls)
	}

	refetch := m.handleMessageSent(sent)
	if refetch == nil {
		t.Fatalf("confirmed send must re-fetch the collection")
	}
	loaded, ok := refetch().(messagesLoadedMsg)
	if !ok {
		t.Fatalf("re-fetch produced %T", refetch())
	}
	m.handleMessagesLoaded(loaded)
	if len(m.messages) != 3 {
		t.Fatalf("thread has %d messages after re-fetch, want 3", len(m.messages))
	}
}

func TestDeepLink_FocusUnknownRequestFlashesNotFound(t *testing.T) {
	fb := requestsFixture()
	m := newAppModel(Options{
		Backend:        fb,
		Session:        &stubSession{authed: true, userID: 7, username: "me"},
		StartView:      "requests",
		FocusRequestID: 99,
		FocusMessageID: 12,
	})
	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = mAny.(appModel)

	loadBothLists(t, &m, fb)

	if m.selectedReq != 0 {
		t.Fatalf("unknown focus target must leave the view unselected, got %d", m.selectedReq)
	}
	if m.pendingFocusReq != 0 || m.pendingFocusMsg != 0 {
		t.Fatalf("deep link must be consumed even on failure")
	}
	if !strings.Contains(m.flashText, "not found") {
		t.Fatalf("flash = %q, want a not-found notice", m.flashText)
	}
}

func TestDeepLink_FocusAppliesOnceNotOnLaterReloads(t *testing.T) {
	fb := requestsFixture()
	m := newAppModel(Options{
		Backend:        fb,
		Session:        &stubSession{authed: true, userID: 7, username: "me"},
		StartView:      "requests",
		FocusRequestID: 2,
	})
	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = mAny.(appModel)

	cmd := loadBothLists(t, &m, fb)
	if m.selectedReq != 2 {
		t.Fatalf("deep link should select request 2, got %d", m.selectedReq)
	}
	if cmd == nil {
		t.Fatalf("deep-link selection should start the message fetch")
	}

	// User navigates away; a later reload must not re-apply the link.
	m.clearSelection()
	loadBothLists(t, &m, fb)
	if m.selectedReq != 0 {
		t.Fatalf("deep link re-applied on reload, selected %d", m.selectedReq)
	}
}

func TestDeepLink_MissingMessageClearsSelection(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	m.pendingFocusMsg = 404
	_ = m.selectRequest(2)
	m.handleMessagesLoaded(messagesLoadedMsg{seq: m.msgSeq, requestID: 2, all: fb.msgs})

	if m.selectedReq != 0 {
		t.Fatalf("missing deep-linked message should clear the selection, got %d", m.selectedReq)
	}
	if !strings.Contains(m.flashText, "no longer exists") {
		t.Fatalf("flash = %q", m.flashText)
	}
}

func TestScrollToMessage_GivesUpAfterBoundedAttempts(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	_ = m.selectRequest(2)
	// Viewport was never sized, so the target cannot be scrolled to yet.
	m.chatVP.Height = 0
	m.pendingFocusMsg = 12
	m.messages = model.FilterMessages(fb.msgs, 2)
	m.scrollSeq++

	cmd := m.scrollToMessage(m.scrollSeq, 0)
	if cmd == nil {
		t.Fatalf("unscrollable target should schedule a retry")
	}
	if m.pendingFocusMsg != 12 {
		t.Fatalf("link must stay armed while retrying")
	}

	// At the attempt bound the wait stops rather than polling forever.
	if cmd := m.scrollToMessage(m.scrollSeq, scrollMaxAttempts); cmd != nil {
		t.Fatalf("retry loop must stop at the bound")
	}
	if m.pendingFocusMsg != 0 {
		t.Fatalf("give-up should consume the link")
	}
}

func TestScrollToMessage_StaleSeqStopsRetrying(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	m.pendingFocusMsg = 12
	m.scrollSeq = 5
	if cmd := m.scrollToMessage(4, 1); cmd != nil {
		t.Fatalf("a superseded scroll wait must not keep ticking")
	}
}

func TestScrollToMessage_LandsOnTargetWhenSized(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)

	_ = m.selectRequest(2)
	m.pendingFocusMsg = 12
	m.messages = model.FilterMessages(fb.msgs, 2)
	m.chatVP.Height = 20
	m.scrollSeq++

	if cmd := m.scrollToMessage(m.scrollSeq, 0); cmd != nil {
		t.Fatalf("target is resolvable, no retry expected")
	}
	if m.chatCursor != 1 {
		t.Fatalf("cursor = %d, want index of message 12", m.chatCursor)
	}
	if m.pendingFocusMsg != 0 {
		t.Fatalf("link should be consumed on success")
	}
}

func TestNarrowLayout_SelectedRequestRendersAsOverlay(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = mAny.(appModel)
	if m.splitLayout() {
		t.Fatalf("80 columns should be below the split breakpoint")
	}
	loadBothLists(t, &m, fb)

	// Unselected: just the master list.
	out := xansi.Strip(m.renderRequestsView())
	if !strings.Contains(out, "bob") {
		t.Fatalf("narrow unselected view should show the list:\n%s", out)
	}

	_ = m.selectRequest(2)
	m.handleMessagesLoaded(messagesLoadedMsg{seq: m.msgSeq, requestID: 2, all: fb.msgs})
	out = xansi.Strip(m.renderRequestsView())
	// The overlay shares the one chat renderer with the split detail panel.
	if !strings.Contains(out, "Hello there") {
		t.Fatalf("narrow overlay should render the same chat thread:\n%s", out)
	}

	mAny, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = mAny.(appModel)
	if !m.splitLayout() {
		t.Fatalf("140 columns should be above the split breakpoint")
	}
	out = xansi.Strip(m.renderRequestsView())
	if !strings.Contains(out, "Hello there") || !strings.Contains(out, "bob") {
		t.Fatalf("split view should show list and thread side by side:\n%s", out)
	}
}

func TestEditMessage_RoundTripsThroughModalAndRefetch(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)
	_ = m.selectRequest(2)
	m.handleMessagesLoaded(messagesLoadedMsg{seq: m.msgSeq, requestID: 2, all: fb.msgs})

	// "e" on an own message opens the edit modal pre-filled.
	m.chatCursor = 0
	m.updateRequestsKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if m.modal != modalEditMessage || m.modalMsgID != 11 {
		t.Fatalf("modal = %v msgID = %d, want edit modal for message 11", m.modal, m.modalMsgID)
	}
	if m.modalText.Value() != "Hi!" {
		t.Fatalf("modal should open with the current content, got %q", m.modalText.Value())
	}

	m.modalText.SetValue("Hi! Updated")
	_, cmd := m.updateModalKeys(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.modal != modalNone {
		t.Fatalf("save should close the modal")
	}
	mutated, ok := cmd().(messageMutatedMsg)
	if !ok || mutated.err != nil {
		t.Fatalf("edit failed: %+v", mutated)
	}
	if !fb.calledWith(`UpdateSittingMessage 11 "Hi! Updated"`) {
		t.Fatalf("backend never saw the edit, calls: %v", fb.calls)
	}

	// A confirmed mutation re-fetches the thread rather than patching locally.
	refetch := m.handleMessageMutated(mutated)
	if refetch == nil {
		t.Fatalf("confirmed edit must re-fetch")
	}
	m.handleMessagesLoaded(refetch().(messagesLoadedMsg))
	if m.messages[0].Content != "Hi! Updated" {
		t.Fatalf("thread content = %q after re-fetch", m.messages[0].Content)
	}
}

func TestOwnMessage_EditDeleteAffordanceOnlyForOwn(t *testing.T) {
	fb := requestsFixture()
	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)
	_ = m.selectRequest(2)
	m.handleMessagesLoaded(messagesLoadedMsg{seq: m.msgSeq, requestID: 2, all: fb.msgs})

	m.chatCursor = 1 // carol's message
	_, cmd := m.updateRequestsKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd != nil || m.modal != modalNone {
		t.Fatalf("delete on someone else's message must not open the modal")
	}

	m.chatCursor = 0 // own message
	m.updateRequestsKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.modal != modalConfirmDeleteMessage || m.modalMsgID != 11 {
		t.Fatalf("modal = %v msgID = %d, want delete confirm for message 11", m.modal, m.modalMsgID)
	}
}
