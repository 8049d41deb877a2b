package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/imagej/ijc/internal/app"
)

// browseKeys are the browser's bindings. Help text feeds the footer.
type browseKeys struct {
	Up          key.Binding
	Down        key.Binding
	NextSibling key.Binding
	PrevSibling key.Binding
	First       key.Binding
	Last        key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Run         key.Binding
	Detach      key.Binding
	Details     key.Binding
	CopyOutput  key.Binding
	CopyID      key.Binding
	Activate    key.Binding
	Filter      key.Binding
	Reload      key.Binding
	Quit        key.Binding
}

var keys = browseKeys{
	Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "navigate")),
	Down:        key.NewBinding(key.WithKeys("j", "down")),
	NextSibling: key.NewBinding(key.WithKeys("alt+down"), key.WithHelp("alt+↑/↓", "sibling")),
	PrevSibling: key.NewBinding(key.WithKeys("alt+up")),
	First:       key.NewBinding(key.WithKeys("g", "shift+up")),
	Last:        key.NewBinding(key.WithKeys("G", "shift+down")),
	Expand:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("h/l", "collapse/expand")),
	Collapse:    key.NewBinding(key.WithKeys("h", "left")),
	ExpandAll:   key.NewBinding(key.WithKeys("shift+right")),
	CollapseAll: key.NewBinding(key.WithKeys("shift+left")),
	Run:         key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/run")),
	Detach:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "detach")),
	Details:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "outputs")),
	CopyOutput:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "copy output")),
	CopyID:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	Activate:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "set active")),
	Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Reload:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Shown while typing a filter and inside an input form.
var (
	filterHelp = []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	}
	dialogHelp = []key.Binding{
		key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab/shift+tab", "field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next/submit")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
)

// contextHelp lists the bindings that apply to the current selection.
func (m *model) contextHelp() []key.Binding {
	if m.filtering {
		return filterHelp
	}
	if m.tree == nil || len(m.tree.Root.Children) == 0 {
		return []key.Binding{keys.Reload, keys.Quit}
	}
	node := m.tree.SelectedNode()
	if node == nil || node.Type != NodeTypeCommand {
		return []key.Binding{keys.Up, keys.NextSibling, keys.Expand, keys.Run, keys.Filter, keys.Reload, keys.Quit}
	}

	run := keys.Run
	run.SetHelp("enter", "run")
	bindings := []key.Binding{keys.Up, keys.Expand, run, keys.CopyID, keys.Filter}
	if rs, ok := m.runState[node.ID]; ok {
		if rs.status == app.RunStatusRunning {
			bindings = append(bindings, keys.Detach)
		}
		if rs.result != nil {
			bindings = append(bindings, keys.Details, keys.CopyOutput)
			if app.HasObjects(rs.result.Outputs) {
				bindings = append(bindings, keys.Activate)
			}
		}
	}
	return append(bindings, keys.Quit)
}
