package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// compactItemDelegate renders a two-line row: title plus a muted meta line.
type compactItemDelegate struct {
	normal     lipgloss.Style
	selected   lipgloss.Style
	meta       lipgloss.Style
	metaActive lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle().Foreground(colorSurfaceFg),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		meta: styleMuted(),
		metaActive: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg),
	}
}

func (d compactItemDelegate) Height() int  { return 2 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	title := ""
	if t, ok := item.(interface{ Title() string }); ok {
		title = t.Title()
	} else {
		title = fmt.Sprint(item)
	}
	meta := ""
	if t, ok := item.(interface{ Description() string }); ok {
		meta = t.Description()
	}

	titleSt, metaSt := d.normal, d.meta
	if index == m.Index() {
		titleSt, metaSt = d.selected, d.metaActive
	}

	fmt.Fprint(w, titleSt.Render(padToWidth(title, contentW)))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, metaSt.Render(padToWidth("  "+meta, contentW)))
}

// padToWidth pads or cuts a line to an exact terminal cell width, ANSI-aware.
func padToWidth(line string, width int) string {
	lineW := xansi.StringWidth(line)
	if lineW < width {
		return line + strings.Repeat(" ", width-lineW)
	}
	if lineW > width {
		return xansi.Cut(line, 0, width)
	}
	return line
}
