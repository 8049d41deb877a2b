package tui

import "strings"

// TreeNode is one menu entry in the browser. Data carries the app.MenuItem
// it was built from.
type TreeNode struct {
	ID         string // label path, unique within the tree
	Label      string
	Badge      string // e.g. "[Crop]"
	Type       string // NodeTypeMenu, NodeTypeCommand or NodeTypeEmpty
	Data       any
	Children   []*TreeNode
	Expanded   bool
	Depth      int  // set while collecting visible nodes
	Actionable bool // commands can be run

	parent *TreeNode
}

// IsLeaf reports whether the node has no children.
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsSelectable reports whether the cursor may stop on the node: commands
// and menus, but not empty leaves.
func (n *TreeNode) IsSelectable() bool {
	return n.Actionable || !n.IsLeaf()
}

// TreeState is the browser's view of the menu: expansion, selection and an
// optional label filter.
type TreeState struct {
	Root     *TreeNode
	selected *TreeNode
	filter   string
}

// NewTreeState links parents and selects the first selectable node.
func NewTreeState(root *TreeNode) *TreeState {
	ts := &TreeState{Root: root}
	if root != nil {
		link(root)
	}
	ts.MoveToFirst()
	return ts
}

func link(n *TreeNode) {
	for _, c := range n.Children {
		c.parent = n
		link(c)
	}
}

// SelectedNode returns the selection, or nil.
func (ts *TreeState) SelectedNode() *TreeNode {
	return ts.selected
}

// Filter returns the active label filter.
func (ts *TreeState) Filter() string {
	return ts.filter
}

// SetFilter shows only commands and menus whose label contains query
// (case-insensitive), with their ancestors. Matching subtrees are shown
// expanded. An empty query restores the normal view with the selection's
// menus opened. A selection the filter hides moves to the first match.
func (ts *TreeState) SetFilter(query string) {
	ts.filter = strings.ToLower(strings.TrimSpace(query))
	if ts.selected != nil {
		if ts.filter == "" {
			ts.ExpandToNode(ts.selected.ID)
			return
		}
		if ts.indexOf(ts.selected) >= 0 {
			return
		}
	}
	ts.selected = nil
	ts.MoveToFirst()
}

func (ts *TreeState) matches(n *TreeNode) bool {
	if strings.Contains(strings.ToLower(n.Label), ts.filter) {
		return true
	}
	for _, c := range n.Children {
		if ts.matches(c) {
			return true
		}
	}
	return false
}

// VisibleNodes returns the shown nodes in display order with Depth set.
func (ts *TreeState) VisibleNodes() []*TreeNode {
	if ts.Root == nil {
		return nil
	}
	var out []*TreeNode
	var walk func(nodes []*TreeNode, depth int)
	walk = func(nodes []*TreeNode, depth int) {
		for _, n := range nodes {
			if ts.filter != "" && !ts.matches(n) {
				continue
			}
			n.Depth = depth
			out = append(out, n)
			if n.Expanded || (ts.filter != "" && !n.IsLeaf()) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(ts.Root.Children, 0)
	return out
}

func (ts *TreeState) indexOf(target *TreeNode) int {
	for i, n := range ts.VisibleNodes() {
		if n == target {
			return i
		}
	}
	return -1
}

// SelectedIndex is the selection's position among the visible nodes, or -1.
func (ts *TreeState) SelectedIndex() int {
	if ts.selected == nil {
		return -1
	}
	return ts.indexOf(ts.selected)
}

// step moves from the selection in direction dir (+1/-1) to the first
// visible node accepted by ok.
func (ts *TreeState) step(dir int, ok func(from, to *TreeNode) bool) bool {
	visible := ts.VisibleNodes()
	idx := ts.SelectedIndex()
	if idx < 0 {
		return false
	}
	from := visible[idx]
	for i := idx + dir; i >= 0 && i < len(visible); i += dir {
		if visible[i].IsSelectable() && ok(from, visible[i]) {
			ts.selected = visible[i]
			return true
		}
	}
	return false
}

func anyNode(_, _ *TreeNode) bool { return true }

// MoveDown selects the next selectable node.
func (ts *TreeState) MoveDown() bool { return ts.step(1, anyNode) }

// MoveUp selects the previous selectable node.
func (ts *TreeState) MoveUp() bool { return ts.step(-1, anyNode) }

// MoveToNextSibling selects the next node at the same depth, or the next
// node of a shallower level when the current menu ends.
func (ts *TreeState) MoveToNextSibling() bool {
	return ts.step(1, func(from, to *TreeNode) bool { return to.Depth <= from.Depth })
}

// MoveToPrevSibling selects the previous node at the same depth, or the
// parent when there is none.
func (ts *TreeState) MoveToPrevSibling() bool {
	return ts.step(-1, func(from, to *TreeNode) bool { return to.Depth <= from.Depth })
}

// MoveToFirst selects the first selectable visible node.
func (ts *TreeState) MoveToFirst() bool {
	for _, n := range ts.VisibleNodes() {
		if n.IsSelectable() {
			ts.selected = n
			return true
		}
	}
	return false
}

// MoveToLast selects the last selectable visible node.
func (ts *TreeState) MoveToLast() bool {
	visible := ts.VisibleNodes()
	for i := len(visible) - 1; i >= 0; i-- {
		if visible[i].IsSelectable() {
			ts.selected = visible[i]
			return true
		}
	}
	return false
}

// Expand opens the selected menu.
func (ts *TreeState) Expand() bool {
	n := ts.selected
	if n == nil || n.IsLeaf() || n.Expanded {
		return false
	}
	n.Expanded = true
	return true
}

// Collapse closes the selected menu, or moves to the parent menu when the
// selection is a leaf or already closed.
func (ts *TreeState) Collapse() bool {
	n := ts.selected
	if n == nil {
		return false
	}
	if n.Expanded && !n.IsLeaf() {
		n.Expanded = false
		return true
	}
	if n.parent != nil && n.parent != ts.Root {
		ts.selected = n.parent
		return true
	}
	return false
}

// Toggle opens or closes the selected menu.
func (ts *TreeState) Toggle() bool {
	n := ts.selected
	if n == nil || n.IsLeaf() {
		return false
	}
	n.Expanded = !n.Expanded
	return true
}

// ExpandAll opens every menu.
func (ts *TreeState) ExpandAll() { setExpanded(ts.Root, true) }

// CollapseAll closes every menu.
func (ts *TreeState) CollapseAll() { setExpanded(ts.Root, false) }

func setExpanded(n *TreeNode, expanded bool) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		if !c.IsLeaf() {
			c.Expanded = expanded
		}
		setExpanded(c, expanded)
	}
}

func (ts *TreeState) find(id string) *TreeNode {
	var search func(nodes []*TreeNode) *TreeNode
	search = func(nodes []*TreeNode) *TreeNode {
		for _, n := range nodes {
			if n.ID == id {
				return n
			}
			if found := search(n.Children); found != nil {
				return found
			}
		}
		return nil
	}
	if ts.Root == nil {
		return nil
	}
	return search(ts.Root.Children)
}

// SelectByID selects the node with id.
func (ts *TreeState) SelectByID(id string) bool {
	n := ts.find(id)
	if n == nil {
		return false
	}
	ts.selected = n
	return true
}

// ExpandToNode opens every ancestor of the node with id, so a selection
// restored after a menu reload is visible.
func (ts *TreeState) ExpandToNode(id string) {
	n := ts.find(id)
	if n == nil {
		return
	}
	for p := n.parent; p != nil && p != ts.Root; p = p.parent {
		p.Expanded = true
	}
}
