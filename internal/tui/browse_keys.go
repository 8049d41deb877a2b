package tui

import (
	"encoding/json"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imagej/ijc/internal/app"
)

// clearStatusAfter returns a command that clears the status after duration.
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// clearStatusMsg is sent after a delay to clear the status message.
type clearStatusMsg struct{}

var defaultClipboardWrite = clipboard.WriteAll

// clipboardWrite is replaced in tests.
var clipboardWrite = defaultClipboardWrite

// handleGlobalKeys handles reload and quit.
func (m *model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, keys.Reload):
		if m.loading {
			return nil, true
		}
		m.loading = true
		m.statusMsg = "Reloading menu..."
		return tea.Batch(loadMenuCmd(m.ctx, m.session, m.source), clearStatusAfter(2*time.Second)), true
	}
	return nil, false
}

// startFilter focuses the filter input, keeping any previous query.
func (m *model) startFilter() tea.Cmd {
	m.filtering = true
	m.filter.SetValue(m.tree.Filter())
	m.filter.CursorEnd()
	m.syncViewport()
	return m.filter.Focus()
}

// clearFilter drops the label filter and restores the full menu.
func (m *model) clearFilter() {
	m.filtering = false
	m.filter.Blur()
	m.filter.SetValue("")
	m.tree.SetFilter("")
	m.ensureSelectionVisible()
}

// handleFilterKeys edits the filter query. The tree is filtered as the
// query changes.
func (m *model) handleFilterKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.clearFilter()
		return nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		m.syncViewport()
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.tree.SetFilter(m.filter.Value())
	m.ensureSelectionVisible()
	return cmd
}

// handleMenuKeys handles tree navigation and runs.
func (m *model) handleMenuKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.tree == nil {
		return nil, false
	}
	t := m.tree

	move := func(f func() bool) (tea.Cmd, bool) {
		f()
		m.ensureSelectionVisible()
		return nil, true
	}

	switch {
	case key.Matches(msg, keys.Down):
		return move(t.MoveDown)
	case key.Matches(msg, keys.Up):
		return move(t.MoveUp)
	case key.Matches(msg, keys.NextSibling):
		return move(t.MoveToNextSibling)
	case key.Matches(msg, keys.PrevSibling):
		return move(t.MoveToPrevSibling)
	case key.Matches(msg, keys.Last):
		return move(t.MoveToLast)
	case key.Matches(msg, keys.First):
		return move(t.MoveToFirst)
	case key.Matches(msg, keys.Expand):
		t.Expand()
		m.syncViewport()
		return nil, true
	case key.Matches(msg, keys.Collapse):
		return move(t.Collapse)
	case key.Matches(msg, keys.ExpandAll):
		t.ExpandAll()
		m.syncViewport()
		return nil, true
	case key.Matches(msg, keys.CollapseAll):
		t.CollapseAll()
		return move(t.MoveToFirst)
	case key.Matches(msg, keys.Filter):
		return m.startFilter(), true
	case key.Matches(msg, keys.Run):
		return m.handleRun(), true
	case key.Matches(msg, keys.Detach):
		return m.detachRun(), true
	case key.Matches(msg, keys.Details):
		if node := t.SelectedNode(); node != nil {
			if rs, ok := m.runState[node.ID]; ok {
				rs.expanded = !rs.expanded
				m.syncViewport()
			}
		}
		return nil, true
	case key.Matches(msg, keys.CopyOutput):
		return m.copyOutput(), true
	case key.Matches(msg, keys.CopyID):
		return m.copyModuleID(), true
	case key.Matches(msg, keys.Activate):
		return m.activateOutput(), true
	}
	return nil, false
}

// handleRun toggles menus and opens the dialog of a command.
func (m *model) handleRun() tea.Cmd {
	node := m.tree.SelectedNode()
	if node == nil {
		return nil
	}
	if node.Type == NodeTypeMenu {
		m.tree.Toggle()
		m.syncViewport()
		return nil
	}
	_, item, ok := m.selectedCommand()
	if !ok {
		return nil
	}
	if rs, ok := m.runState[node.ID]; ok && rs.status == app.RunStatusRunning {
		m.statusMsg = "Already running"
		return clearStatusAfter(2 * time.Second)
	}
	m.statusMsg = "Opening " + item.Label + "..."
	return openDialogCmd(m.ctx, m.session, node.ID, item)
}

// detachRun stops tracking the selected node's run. Requests already sent
// are not aborted; the server finishes them and the result is ignored.
func (m *model) detachRun() tea.Cmd {
	node := m.tree.SelectedNode()
	if node == nil {
		return nil
	}
	rs, ok := m.runState[node.ID]
	if !ok || rs.status != app.RunStatusRunning {
		return nil
	}
	rs.status = app.RunStatusError
	rs.error = detachedError
	m.syncViewport()
	return nil
}

func (m *model) copyOutput() tea.Cmd {
	node := m.tree.SelectedNode()
	if node == nil {
		return nil
	}
	rs, ok := m.runState[node.ID]
	if !ok || rs.result == nil {
		return nil
	}
	data, err := json.MarshalIndent(app.OutputsMap(rs.result.Outputs), "", "  ")
	if err == nil {
		err = clipboardWrite(string(data))
	}
	return m.flash(err, "Copied!", "Copy failed")
}

func (m *model) copyModuleID() tea.Cmd {
	_, item, ok := m.selectedCommand()
	if !ok {
		return nil
	}
	return m.flash(clipboardWrite(item.ModuleID()), "Copied "+item.ModuleID(), "Copy failed")
}

// activateOutput makes the first object output of the selected run the
// active object.
func (m *model) activateOutput() tea.Cmd {
	node := m.tree.SelectedNode()
	if node == nil {
		return nil
	}
	rs, ok := m.runState[node.ID]
	if !ok || rs.result == nil {
		return nil
	}
	for _, o := range rs.result.Outputs {
		if o.Kind != app.OutputObject {
			continue
		}
		id, _ := o.Value.(string)
		ref := m.session.SetActive(id)
		m.statusMsg = "Active object: " + ref.ID
		m.syncViewport()
		return clearStatusAfter(2 * time.Second)
	}
	m.statusMsg = "No object outputs"
	return clearStatusAfter(2 * time.Second)
}

func (m *model) flash(err error, ok, failed string) tea.Cmd {
	if err != nil {
		m.statusMsg = failed
	} else {
		m.statusMsg = ok
	}
	return clearStatusAfter(2 * time.Second)
}
