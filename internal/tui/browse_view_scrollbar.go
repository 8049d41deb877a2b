package tui

import "strings"

// viewScrollbar draws a track beside the viewport when the menu overflows
// it. The thumb follows the scroll position and a marker shows where the
// selection sits in the whole menu.
func (m *model) viewScrollbar() string {
	h := m.viewport.Height
	total := m.viewport.TotalLineCount()
	if h <= 0 || total <= h {
		return ""
	}

	thumb := max(1, h*h/total)
	thumbTop := int(m.viewport.ScrollPercent() * float64(h-thumb))
	marker := -1
	if sel := m.selectedMenuLine(); sel >= 0 && total > 1 {
		marker = sel * (h - 1) / (total - 1)
	}

	track := dimStyle.Render("░")
	rows := make([]string, h)
	for i := range rows {
		switch {
		case i == marker:
			rows[i] = titleStyle.Render("█")
		case i >= thumbTop && i < thumbTop+thumb:
			rows[i] = "▒"
		default:
			rows[i] = track
		}
	}
	return strings.Join(rows, "\n")
}
