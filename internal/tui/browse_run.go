package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imagej/ijc/internal/app"
	"github.com/imagej/ijc/internal/logger"
)

// RunBrowse launches the menu browser against session. server is shown in
// the header.
func RunBrowse(ctx context.Context, session *app.Session, source app.MenuSource, server string) error {
	m := newModel(ctx, session, source, server)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// detachedError is shown for a run the user stopped watching.
const detachedError = "detached; the server still completes the run"

// menuLoadedMsg carries a fetched menu tree.
type menuLoadedMsg struct {
	root *app.MenuItem
	err  error
}

// dialogOpenedMsg carries the dialog built for a command node.
type dialogOpenedMsg struct {
	nodeID string
	module string
	dialog *app.Dialog
	err    error
}

// runResultMsg is the outcome of a module run.
type runResultMsg struct {
	nodeID     string
	seq        int
	result     *app.ExecutionResult
	err        error
	durationMs int64
}

func loadMenuCmd(ctx context.Context, s *app.Session, source app.MenuSource) tea.Cmd {
	return func() tea.Msg {
		root, err := s.Menu(ctx, source)
		return menuLoadedMsg{root: root, err: err}
	}
}

// openDialogCmd resolves a menu leaf to its module and builds its dialog.
func openDialogCmd(ctx context.Context, s *app.Session, nodeID string, item app.MenuItem) tea.Cmd {
	return func() tea.Msg {
		module, err := s.ResolveMenuItem(ctx, item)
		if err != nil {
			return dialogOpenedMsg{nodeID: nodeID, err: err}
		}
		d, err := s.OpenDialog(ctx, module)
		return dialogOpenedMsg{nodeID: nodeID, module: module, dialog: d, err: err}
	}
}

// runModuleCmd submits d. Uploads and the execution run to completion once
// issued, so ctx must not be one the browser cancels.
func runModuleCmd(ctx context.Context, s *app.Session, nodeID string, seq int, d *app.Dialog, raw app.RawOverrides) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		result, err := s.Submit(ctx, d, raw)
		durationMs := time.Since(start).Milliseconds()
		if err != nil {
			logger.Debug("browser run failed", "node", nodeID, "err", err)
		}
		return runResultMsg{nodeID: nodeID, seq: seq, result: result, err: err, durationMs: durationMs}
	}
}

// launchRun starts d for nodeID, replacing any earlier run state of the
// node. An earlier run still in flight is left to finish on the server and
// its result is dropped.
func (m *model) launchRun(nodeID, module string, d *app.Dialog, raw app.RawOverrides) tea.Cmd {
	m.runSeq++
	m.runState[nodeID] = &runState{
		status:   app.RunStatusRunning,
		module:   module,
		expanded: true,
		seq:      m.runSeq,
	}
	ctx := context.WithoutCancel(m.ctx)
	cmds := []tea.Cmd{runModuleCmd(ctx, m.session, nodeID, m.runSeq, d, raw)}
	if !m.spinnerActive {
		m.spinnerActive = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}
