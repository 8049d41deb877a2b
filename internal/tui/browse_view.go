package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func clampMin(n, min int) int {
	if n < min {
		return min
	}
	return n
}

func (m *model) View() string {
	// Wait until we get an initial window size.
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	if m.dialog != nil {
		return m.viewDialog()
	}

	w := m.layout().width
	block := lipgloss.NewStyle().Width(w)
	content := strings.Join([]string{
		block.Render(m.viewHeader()),
		block.Render(m.viewBody()),
		block.Render(m.viewFooter(w)),
	}, "\n\n")

	return m.frame(content, lipgloss.Color("8"))
}

// frame draws content inside the full-screen rounded border.
func (m *model) frame(content string, border lipgloss.Color) string {
	innerW := clampMin(m.width-2, 0)
	innerH := clampMin(m.height-2, 0)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	inner := lipgloss.Place(innerW, innerH, lipgloss.Left, lipgloss.Top, padded)

	return lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(inner)
}

// viewHeader shows the server, the menu source, the active object and the
// label filter when one is set.
func (m *model) viewHeader() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.server))
	sb.WriteString(dimStyle.Render("  menu: " + string(m.source)))
	sb.WriteString("\n")

	active := "none"
	if m.session != nil {
		if ref := m.session.ActiveObject(); ref != nil {
			active = ref.ID
		}
	}
	sb.WriteString(dimStyle.Render("active object: "))
	sb.WriteString(valueStyle.Render(active))

	switch {
	case m.filtering:
		sb.WriteString("\n")
		sb.WriteString(m.filter.View())
	case m.tree != nil && m.tree.Filter() != "":
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("filter: "))
		sb.WriteString(valueStyle.Render(m.tree.Filter()))
		sb.WriteString(dimStyle.Render(" (esc to clear)"))
	}
	return sb.String()
}

func (m *model) viewBody() string {
	if m.tree == nil {
		if m.loading {
			return runningStyle.Render("Loading menu...")
		}
		return m.viewNoMenu()
	}
	if m.viewport.Height <= 0 {
		return m.viewMenu()
	}
	scrollbar := m.viewScrollbar()
	if scrollbar == "" {
		return m.viewport.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), scrollbar)
}

func (m *model) viewNoMenu() string {
	var sb strings.Builder
	sb.WriteString(errorStyle.Render("No menu available"))
	sb.WriteString("\n")
	if m.loadErr != "" {
		sb.WriteString(dimStyle.Render(m.loadErr))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render("Press ctrl+r to retry."))
	return sb.String()
}

func (m *model) viewFooter(width int) string {
	var sb strings.Builder
	sb.WriteString(dimStyle.Render(strings.Repeat("─", width)))
	sb.WriteString("\n")
	sb.WriteString(m.help.ShortHelpView(m.contextHelp()))
	switch {
	case m.statusMsg != "":
		sb.WriteString("   " + statusStyle.Render(m.statusMsg))
	case m.loadErr != "" && m.tree != nil:
		sb.WriteString("   " + errorStyle.Render("menu reload failed"))
	}
	return sb.String()
}

func (m *model) dialogWidth() int {
	return clampMin(m.layout().width, 20)
}

// viewDialog renders the open input form full screen.
func (m *model) viewDialog() string {
	contentW := m.layout().width

	var sb strings.Builder
	d := m.dialog.dialog
	sb.WriteString(dimStyle.Render(m.server + " › "))
	sb.WriteString(plainStyle.Render(d.Module.Identifier))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", contentW)))
	sb.WriteString("\n\n")
	sb.WriteString(m.dialog.form.form.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", contentW)))
	sb.WriteString("\n")
	sb.WriteString(m.help.ShortHelpView(dialogHelp))

	// Accent border while a form is open.
	return m.frame(sb.String(), lipgloss.Color("14"))
}
