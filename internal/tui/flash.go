package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Flash notices are the TUI's toast: one transient line above the footer,
// cleared after a fixed interval unless a newer flash superseded it.

const flashDuration = 4 * time.Second

func (m *appModel) setFlash(text string, isErr bool) tea.Cmd {
	m.flashText = text
	m.flashErr = isErr
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m *appModel) flashError(text string) tea.Cmd {
	return m.setFlash(text, true)
}

func (m *appModel) handleFlashDone(msg flashDoneMsg) {
	if msg.seq == m.flashSeq {
		m.flashText = ""
		m.flashErr = false
	}
}

func (m appModel) renderFlash() string {
	if m.flashText == "" {
		return ""
	}
	if m.flashErr {
		return styleError().Render(m.flashText)
	}
	return styleInfo().Render(m.flashText)
}
