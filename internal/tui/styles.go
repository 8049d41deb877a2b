package tui

import (
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Browser palette, ANSI colors.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	plainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle  = successStyle.Bold(true)

	outputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1).
			MarginTop(1)
)

var (
	jsonLexer     = chroma.Coalesce(lexers.Get("json"))
	jsonTheme     = styleOr("dracula")
	jsonFormatter = formatterOr("terminal256")
)

func styleOr(name string) *chroma.Style {
	if s := styles.Get(name); s != nil {
		return s
	}
	return styles.Fallback
}

func formatterOr(name string) chroma.Formatter {
	if f := formatters.Get(name); f != nil {
		return f
	}
	return formatters.Fallback
}

// Highlight colors a module output value for a terminal. JSON documents
// and scalars are syntax highlighted; any other text is shown plain.
func Highlight(s string) string {
	if s == "" {
		return s
	}
	if !json.Valid([]byte(strings.TrimSpace(s))) {
		return plainStyle.Render(s)
	}
	it, err := jsonLexer.Tokenise(nil, s)
	if err != nil {
		return plainStyle.Render(s)
	}
	var sb strings.Builder
	if err := jsonFormatter.Format(&sb, jsonTheme, it); err != nil {
		return plainStyle.Render(s)
	}
	return sb.String()
}
