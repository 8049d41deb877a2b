package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imagej/ijc/internal/app"
)

type model struct {
	ctx     context.Context
	session *app.Session
	source  app.MenuSource
	server  string

	width  int
	height int

	tree    *TreeState
	loading bool
	loadErr string

	// Run state per command node ID. runSeq numbers launches so a replaced
	// run's late result is recognised.
	runState map[string]*runState
	runSeq   int

	// Open input form, nil when none.
	dialog *dialogState

	viewport viewport.Model
	help     help.Model

	// Label filter input; filtering is set while it has focus.
	filter    textinput.Model
	filtering bool

	// Status message (e.g., "Copied!")
	statusMsg string

	// One spinner animates every running command. spinnerActive is set
	// while its tick chain is live.
	spinner       spinner.Model
	spinnerActive bool

	renderCache *frameCache // cleared by every Update
}

// frameCache holds cached render output for the current frame.
type frameCache struct {
	menuView    string
	menuViewSet bool
	selLine     int
	selLineSet  bool
}

// dialogState is an input form opened for one command node.
type dialogState struct {
	nodeID string
	dialog *app.Dialog
	form   *inputForm
}

// runState tracks one module run started from a command node.
type runState struct {
	status     string // app.RunStatus*
	module     string // module identifier
	result     *app.ExecutionResult
	error      string
	durationMs int64
	expanded   bool
	seq        int
}

func newModel(ctx context.Context, session *app.Session, source app.MenuSource, server string) *model {
	return &model{
		ctx:      ctx,
		session:  session,
		source:   source,
		server:   server,
		loading:  true,
		runState: make(map[string]*runState),
		viewport: viewport.New(0, 0),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(runningStyle)),
		filter:   newFilterInput(),
	}
}

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "menu label"
	ti.CharLimit = 64
	return ti
}

func (m *model) Init() tea.Cmd {
	return loadMenuCmd(m.ctx, m.session, m.source)
}

// selectedCommand returns the selected node when it is a runnable command.
func (m *model) selectedCommand() (*TreeNode, app.MenuItem, bool) {
	if m.tree == nil {
		return nil, app.MenuItem{}, false
	}
	node := m.tree.SelectedNode()
	if node == nil || node.Type != NodeTypeCommand {
		return nil, app.MenuItem{}, false
	}
	item, ok := menuItemOf(node)
	return node, item, ok
}

// setMenu replaces the tree, keeping the selection when the node still exists.
func (m *model) setMenu(root *app.MenuItem) {
	prev := ""
	if m.tree != nil {
		if n := m.tree.SelectedNode(); n != nil {
			prev = n.ID
		}
	}
	m.tree = NewTreeState(MenuTree(root))
	if prev != "" {
		m.tree.ExpandToNode(prev)
		m.tree.SelectByID(prev)
	}
}

func (m *model) anyRunning() bool {
	for _, rs := range m.runState {
		if rs.status == app.RunStatusRunning {
			return true
		}
	}
	return false
}
