package tui

import (
	"strings"
	"testing"
	"time"

	"luckycat-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestRenderChatThread_WrapsLongMessagesWithoutClipping(t *testing.T) {
	long := strings.Repeat("word ", 30) + "END"
	msgs := []model.SittingMessage{{
		ID:             1,
		SittingRequest: 2,
		Content:        long,
		Sender:         model.MessageSender{ID: 7},
		SenderName:     "me",
		CreatedAt:      time.Now(),
	}}

	out := xansi.Strip(renderChatThread(msgs, -1, 7, 60))
	if !strings.Contains(out, "END") {
		t.Fatalf("tail of a long message missing from the render:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if w := xansi.StringWidth(line); w > 60 {
			t.Fatalf("line exceeds the panel width (%d > 60): %q", w, line)
		}
	}
	// Wrapped content means a taller bubble than the single-line 4-line block.
	if h := lipgloss.Height(out); h <= 5 {
		t.Fatalf("long message should wrap onto multiple lines, height = %d", h)
	}
}

func TestRenderChatThread_ShortBubbleStaysNarrow(t *testing.T) {
	msgs := []model.SittingMessage{{
		ID:             1,
		SittingRequest: 2,
		Content:        "ok",
		Sender:         model.MessageSender{ID: 9},
		SenderName:     "carol",
		CreatedAt:      time.Now(),
	}}

	out := xansi.Strip(renderChatThread(msgs, -1, 7, 60))
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "ok") && xansi.StringWidth(strings.TrimRight(line, " ")) > 10 {
			t.Fatalf("short message should not stretch to the full bubble width: %q", line)
		}
	}
}

func TestScrollChatCursorIntoView_AccountsForWrappedBubbleHeights(t *testing.T) {
	fb := requestsFixture()
	base := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	long := strings.Repeat("alpha beta ", 30)
	fb.msgs = []model.SittingMessage{
		{ID: 11, SittingRequest: 2, Content: long, Sender: model.MessageSender{ID: 7}, SenderName: "me", CreatedAt: base},
		{ID: 12, SittingRequest: 2, Content: "short", Sender: model.MessageSender{ID: 9}, SenderName: "carol", CreatedAt: base.Add(time.Minute)},
		{ID: 13, SittingRequest: 2, Content: "also short", Sender: model.MessageSender{ID: 7}, SenderName: "me", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 14, SittingRequest: 2, Content: "tail", Sender: model.MessageSender{ID: 9}, SenderName: "carol", CreatedAt: base.Add(3 * time.Minute)},
	}

	m := newRequestsModel(fb)
	loadBothLists(t, &m, fb)
	_ = m.selectRequest(2)
	m.handleMessagesLoaded(messagesLoadedMsg{seq: m.msgSeq, requestID: 2, all: fb.msgs})

	// Small viewport so the offset is not clamped away.
	m.chatVP.Height = 4
	m.chatCursor = 1
	m.scrollChatCursorIntoView()

	want := lipgloss.Height(renderChatBubble(m.messages[0], false, 7, m.chatVP.Width))
	if want <= 4 {
		t.Fatalf("fixture did not wrap: first bubble height = %d", want)
	}
	if got := m.chatVP.YOffset; got != want {
		t.Fatalf("YOffset = %d, want %d (rendered height of the preceding bubble)", got, want)
	}
}
