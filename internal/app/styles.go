package app

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Styles colors text output. Every style is plain when NO_COLOR is set.
var Styles = newStyles(os.Getenv("NO_COLOR") == "")

type styles struct {
	Header lipgloss.Style // headings, module names
	Key    lipgloss.Style // class names, parameter and output names
	Dim    lipgloss.Style // types, sources, secondary text
	Bullet lipgloss.Style // list markers and tree branches
	Active lipgloss.Style // the active-object marker
	Object lipgloss.Style // object references
	Link   lipgloss.Style // object URLs
}

func newStyles(color bool) styles {
	plain := lipgloss.NewStyle()
	if !color {
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	fg := func(c string) lipgloss.Style { return plain.Foreground(lipgloss.Color(c)) }
	return styles{
		Header: plain.Bold(true),
		Key:    fg("6"),
		Dim:    fg("8"),
		Bullet: fg("8"),
		Active: fg("2").Bold(true),
		Object: fg("5"),
		Link:   fg("4").Underline(true),
	}
}
