package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imagej/ijc/internal/app"
)

// viewMenu renders the menu tree with run output under command nodes.
// The result is cached for the current frame.
func (m *model) viewMenu() string {
	if m.renderCache != nil && m.renderCache.menuViewSet {
		return m.renderCache.menuView
	}
	result, _ := m.renderMenu()
	if m.renderCache == nil {
		m.renderCache = &frameCache{}
	}
	m.renderCache.menuView = result
	m.renderCache.menuViewSet = true
	return result
}

// selectedMenuLine returns the zero-based line of the selected node in the
// rendered menu, or -1. The result is cached for the current frame.
func (m *model) selectedMenuLine() int {
	if m.renderCache != nil && m.renderCache.selLineSet {
		return m.renderCache.selLine
	}
	_, line := m.renderMenu()
	if m.renderCache == nil {
		m.renderCache = &frameCache{}
	}
	m.renderCache.selLine = line
	m.renderCache.selLineSet = true
	return line
}

// renderMenu renders the tree and reports the selected node's line.
func (m *model) renderMenu() (string, int) {
	if m.tree == nil {
		return "", -1
	}
	var sb strings.Builder
	header := m.viewMenuHeader()
	sb.WriteString(header)
	lines := strings.Count(header, "\n")

	selected := m.tree.SelectedNode()
	selLine := -1
	for _, node := range m.tree.VisibleNodes() {
		if node == selected {
			selLine = lines
		}
		sb.WriteString(m.renderTreeNode(node, node == selected))
		sb.WriteString("\n")
		lines++

		if rs, ok := m.runState[node.ID]; ok && rs.expanded {
			indent := strings.Repeat(" ", (node.Depth+1)*2)
			block := m.renderRunState(indent, rs)
			sb.WriteString(block)
			lines += strings.Count(block, "\n")
		}
	}
	return sb.String(), selLine
}

func (m *model) viewMenuHeader() string {
	var sb strings.Builder
	sb.WriteString(plainStyle.Bold(true).Render("Menu"))
	if m.tree.Filter() != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%d shown)", len(m.tree.VisibleNodes()))))
	} else {
		sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%d)", len(m.tree.Root.Children))))
	}
	sb.WriteString("\n\n")
	return sb.String()
}

// renderTreeNode renders a single tree node with proper styling.
func (m *model) renderTreeNode(node *TreeNode, selected bool) string {
	var parts []string

	parts = append(parts, strings.Repeat(" ", node.Depth*2))

	labelStyle := m.getNodeLabelStyle(node, selected)
	parts = append(parts, labelStyle.Render(m.getNodeIndicator(node, selected)), " ")
	parts = append(parts, labelStyle.Render(node.Label))

	if node.Badge != "" {
		parts = append(parts, " ", dimStyle.Render(node.Badge))
	}
	if rs, ok := m.runState[node.ID]; ok {
		parts = append(parts, " ", m.renderRunStatusBadge(rs))
	}
	return strings.Join(parts, "")
}

// getNodeIndicator draws open and closed menus as triangles and commands as
// dots. A filtered tree shows every menu open.
func (m *model) getNodeIndicator(node *TreeNode, selected bool) string {
	if node.IsLeaf() {
		return pick(selected, "•", "·")
	}
	if node.Expanded || m.tree.Filter() != "" {
		return pick(selected, "▼", "▽")
	}
	return pick(selected, "▶", "▷")
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

func (m *model) getNodeLabelStyle(node *TreeNode, selected bool) lipgloss.Style {
	switch {
	case selected:
		return titleStyle
	case node.Type == NodeTypeMenu:
		return plainStyle.Bold(true)
	case node.Type == NodeTypeEmpty:
		return dimStyle
	default:
		return plainStyle
	}
}

func (m *model) renderRunStatusBadge(rs *runState) string {
	switch rs.status {
	case app.RunStatusRunning:
		return m.spinner.View()
	case app.RunStatusSuccess:
		return successStyle.Render("✓")
	case app.RunStatusError:
		return errorStyle.Render("✗")
	default:
		return ""
	}
}

func (m *model) renderRunState(indent string, rs *runState) string {
	var sb strings.Builder
	sb.WriteString(indent)
	switch rs.status {
	case app.RunStatusRunning:
		sb.WriteString(m.spinner.View() + runningStyle.Render(" Running..."))
		sb.WriteString(dimStyle.Render(" [c to detach]"))
	case app.RunStatusSuccess:
		header := successStyle.Bold(true)
		sb.WriteString(header.Render("Outputs"))
		if rs.durationMs > 0 {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%dms)", rs.durationMs)))
		}
		sb.WriteString(header.Render(":"))
		sb.WriteString("\n")
		sb.WriteString(m.viewRunOutput(rs, indent))
		return sb.String()
	case app.RunStatusError:
		sb.WriteString(errorStyle.Bold(true).Render("Error: "))
		sb.WriteString(errorStyle.Render(rs.error))
		if rs.durationMs > 0 {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%dms)", rs.durationMs)))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// viewRunOutput renders classified outputs in a box. Object references show
// both links; plain values are highlighted.
func (m *model) viewRunOutput(rs *runState, indent string) string {
	var content string
	if rs.result == nil || len(rs.result.Outputs) == 0 {
		content = dimStyle.Render("(no outputs)")
	} else {
		var parts []string
		for _, o := range rs.result.Outputs {
			parts = append(parts, renderTUIOutput(o))
		}
		content = strings.Join(parts, "\n")
	}

	// Calculate available width for the box (account for indent and border)
	boxWidth := m.viewport.Width - len(indent) - 4
	if boxWidth < 20 {
		boxWidth = 60 // fallback
	}
	boxed := outputBoxStyle.Width(boxWidth).Render(content)

	var sb strings.Builder
	for _, line := range strings.Split(boxed, "\n") {
		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderTUIOutput shows one output: object references with both links,
// other values highlighted.
func renderTUIOutput(o app.Output) string {
	label := o.Name
	if o.Label != "" && o.Label != o.Name {
		label = fmt.Sprintf("%s (%s)", o.Label, o.Name)
	}
	name := valueStyle.Render(label + ":")
	if o.Kind == app.OutputObject {
		return fmt.Sprintf("%s %v\n%s %s\n%s %s", name, o.Value,
			dimStyle.Render("raw:"), o.RawURL,
			dimStyle.Render(o.Format+":"), o.ConvertURL)
	}
	value := Highlight(app.PrettyValue(o.Value))
	if strings.Contains(value, "\n") {
		return name + "\n" + value
	}
	return name + " " + value
}
