package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/imagej/ijc/internal/app"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.renderCache = nil

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = clampMin(m.width-6, 0)
		m.syncViewport()
		if m.dialog != nil {
			m.dialog.form.form = m.dialog.form.form.WithWidth(m.dialogWidth())
		}
		return m, nil

	case menuLoadedMsg:
		return m.handleMenuLoaded(msg)

	case dialogOpenedMsg:
		return m.handleDialogOpened(msg)

	case runResultMsg:
		return m.handleRunResult(msg)

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil

	case tea.MouseMsg:
		if m.dialog != nil {
			return m.updateDialog(msg)
		}
		return m.handleMouseMsg(msg)

	case tea.KeyMsg:
		if m.dialog != nil {
			return m.handleDialogKeys(msg)
		}
		return m.handleKeyMsg(msg)
	}

	if m.dialog != nil {
		return m.updateDialog(msg)
	}
	return m, nil
}

func (m *model) handleMenuLoaded(msg menuLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err.Error()
	} else {
		m.loadErr = ""
	}
	// A failed refresh still returns the previous menu.
	if msg.root != nil {
		m.setMenu(msg.root)
	}
	m.syncViewport()
	return m, nil
}

func (m *model) handleDialogOpened(msg dialogOpenedMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	if msg.err != nil {
		m.runState[msg.nodeID] = &runState{
			status:   app.RunStatusError,
			module:   msg.module,
			error:    msg.err.Error(),
			expanded: true,
		}
		m.syncViewport()
		return m, nil
	}
	if !msg.dialog.NeedsInput() {
		cmd := m.launchRun(msg.nodeID, msg.module, msg.dialog, nil)
		m.syncViewport()
		return m, cmd
	}
	f := newInputForm(msg.dialog.Module.ID().DisplayName(), msg.dialog.Requests)
	f.form = f.form.WithWidth(m.dialogWidth())
	m.dialog = &dialogState{nodeID: msg.nodeID, dialog: msg.dialog, form: f}
	return m, f.form.Init()
}

// handleDialogKeys routes keys to the open form. esc closes the form.
func (m *model) handleDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.dialog = nil
		m.statusMsg = "Cancelled"
		return m, clearStatusAfter(2 * time.Second)
	}
	return m.updateDialog(msg)
}

func (m *model) updateDialog(msg tea.Msg) (tea.Model, tea.Cmd) {
	ds := m.dialog
	updated, cmd := ds.form.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		ds.form.form = f
	}

	switch ds.form.form.State {
	case huh.StateCompleted:
		m.dialog = nil
		raw, err := ds.form.apply(ds.dialog.Requests)
		if err != nil {
			m.runState[ds.nodeID] = &runState{
				status:   app.RunStatusError,
				module:   ds.dialog.Module.Identifier,
				error:    err.Error(),
				expanded: true,
			}
			m.syncViewport()
			return m, nil
		}
		run := m.launchRun(ds.nodeID, ds.dialog.Module.Identifier, ds.dialog, raw)
		m.syncViewport()
		return m, run
	case huh.StateAborted:
		m.dialog = nil
		m.statusMsg = "Cancelled"
		return m, clearStatusAfter(2 * time.Second)
	}
	return m, cmd
}

func (m *model) handleRunResult(msg runResultMsg) (tea.Model, tea.Cmd) {
	rs, ok := m.runState[msg.nodeID]
	if !ok || rs.status != app.RunStatusRunning || rs.seq != msg.seq {
		// Detached, or superseded by a newer run.
		return m, nil
	}
	rs.durationMs = msg.durationMs
	if msg.err != nil {
		rs.status = app.RunStatusError
		rs.error = msg.err.Error()
	} else {
		rs.status = app.RunStatusSuccess
		rs.result = msg.result
	}
	m.syncViewport()
	return m, nil
}

// handleSpinnerTick advances the spinner while any command runs and lets
// the tick chain end otherwise.
func (m *model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if !m.anyRunning() {
		m.spinnerActive = false
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	m.syncViewport()
	return m, cmd
}

// handleMouseMsg scrolls the menu with the wheel.
func (m *model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m, m.handleFilterKeys(msg)
	}
	// esc drops an applied filter before it quits.
	if msg.String() == "esc" && m.tree != nil && m.tree.Filter() != "" {
		m.clearFilter()
		return m, nil
	}
	if cmd, handled := m.handleGlobalKeys(msg); handled {
		return m, cmd
	}
	if cmd, handled := m.handleMenuKeys(msg); handled {
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}
