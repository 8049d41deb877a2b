package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// layout is the space inside the frame: border 1 and padding (1, 2).
type layout struct {
	width  int // content width
	height int // content height
}

func (m *model) layout() layout {
	return layout{
		width:  clampMin(m.width-2-4, 0),
		height: clampMin(m.height-2-2, 0),
	}
}

// bodyHeight is what remains for the menu after the header, the footer and
// the blank line separating each from the body.
func (m *model) bodyHeight(l layout) int {
	used := lineCount(m.viewHeader(), l.width) + lineCount(m.viewFooter(l.width), l.width) + 2
	return clampMin(l.height-used, 1)
}

// syncViewport sizes the viewport and refills it with the rendered menu.
// One column is kept for the scrollbar when the menu overflows.
func (m *model) syncViewport() {
	m.renderCache = nil
	l := m.layout()
	m.viewport.Height = m.bodyHeight(l)
	m.viewport.Width = l.width

	if m.tree == nil {
		m.viewport.SetContent("")
		return
	}
	menu := m.viewMenu()
	if l.width > 1 && lineCount(menu, l.width) > m.viewport.Height {
		m.viewport.Width = l.width - 1
	}
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(menu))
}

// ensureSelectionVisible scrolls the least distance that brings the
// selected node into view.
func (m *model) ensureSelectionVisible() {
	m.syncViewport()
	line := m.selectedMenuLine()
	if line < 0 || m.viewport.Height <= 0 {
		return
	}
	switch top := m.viewport.YOffset; {
	case line < top:
		m.viewport.SetYOffset(line)
	case line >= top+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// lineCount is the number of lines s takes when wrapped to width.
func lineCount(s string, width int) int {
	if width > 0 {
		s = lipgloss.NewStyle().Width(width).Render(s)
	}
	return strings.Count(s, "\n") + 1
}
