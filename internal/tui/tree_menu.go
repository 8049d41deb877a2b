package tui

import (
	"strconv"
	"strings"

	"github.com/imagej/ijc/internal/app"
)

// MenuTree converts a menu into a tree rooted at an unlabeled node whose
// children are the top-level menus. Node IDs are label paths joined by
// " > ", disambiguated by position when siblings share a label.
func MenuTree(root *app.MenuItem) *TreeNode {
	tree := &TreeNode{ID: "", Type: NodeTypeMenu}
	if root == nil {
		return tree
	}
	tree.Children = menuChildren(root.Children, "")
	return tree
}

func menuChildren(items []app.MenuItem, parentID string) []*TreeNode {
	nodes := make([]*TreeNode, 0, len(items))
	seen := make(map[string]int, len(items))
	for i := range items {
		item := items[i]
		id := item.Label
		if parentID != "" {
			id = parentID + " > " + item.Label
		}
		if n := seen[item.Label]; n > 0 {
			id += "#" + strconv.Itoa(n)
		}
		seen[item.Label]++

		node := &TreeNode{
			ID:    id,
			Label: item.Label,
			Data:  item,
		}
		switch {
		case !item.IsLeaf():
			node.Type = NodeTypeMenu
			node.Children = menuChildren(item.Children, id)
		case item.Command != "":
			node.Type = NodeTypeCommand
			node.Actionable = true
			node.Badge = "[" + shortCommand(item.Command) + "]"
		default:
			node.Type = NodeTypeEmpty
		}
		if node.Label == "" {
			node.Label = "(unnamed)"
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// shortCommand trims a command class to its simple name.
func shortCommand(command string) string {
	if i := strings.LastIndex(command, "."); i >= 0 && i < len(command)-1 {
		return command[i+1:]
	}
	return command
}

// menuItemOf returns the menu item a node was built from.
func menuItemOf(n *TreeNode) (app.MenuItem, bool) {
	if n == nil {
		return app.MenuItem{}, false
	}
	item, ok := n.Data.(app.MenuItem)
	return item, ok
}
