package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor and "faint" styling is applied only on
// dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted lipgloss.TerminalColor = ac("240", "243")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorControlBg lipgloss.TerminalColor = ac("252", "235")

	colorAccent lipgloss.TerminalColor = ac("27", "62") // blue
	colorDanger lipgloss.TerminalColor = ac("160", "203")
	colorOK     lipgloss.TerminalColor = ac("28", "77")

	// Unread markers and pending-status badges.
	colorUnread  lipgloss.TerminalColor = ac("166", "214")
	colorPending lipgloss.TerminalColor = ac("130", "179")

	// Chat bubbles: own messages get the accent border, the counterpart's a
	// neutral one.
	colorOwnBubble   lipgloss.TerminalColor = ac("27", "68")
	colorTheirBubble lipgloss.TerminalColor = ac("247", "241")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorDanger)
}

func styleInfo() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccent)
}

// setupColorProfile respects NO_COLOR and CLICOLOR_FORCE before falling back
// to termenv's detection.
func setupColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) != "" {
		profile := termenv.ColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI256
		}
		lipgloss.SetColorProfile(profile)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}
