package tui

// Tree node type constants for the menu browser.
const (
	// NodeTypeMenu is a menu entry with children.
	NodeTypeMenu = "menu"

	// NodeTypeCommand is a leaf that runs a module.
	NodeTypeCommand = "command"

	// NodeTypeEmpty is a leaf with no command; it cannot be run.
	NodeTypeEmpty = "empty"
)
