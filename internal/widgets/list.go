package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// List draws items with a cursor marker. Rows beyond height scroll so the
// cursor stays visible.
type List struct {
	Items  []string
	Cursor int
}

func (l List) Render(width, height int) string {
	if width <= 0 || height <= 0 || len(l.Items) == 0 {
		return ""
	}
	start := 0
	if l.Cursor >= height {
		start = l.Cursor - height + 1
	}
	end := min(len(l.Items), start+height)

	cursorStyle := lipgloss.NewStyle().Background(ColorCursor).Foreground(ColorAccent).Bold(true)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i == l.Cursor {
			rows = append(rows, cursorStyle.Render(padRight("▶ "+l.Items[i], width)))
			continue
		}
		rows = append(rows, padRight("  "+l.Items[i], width))
	}
	return strings.Join(rows, "\n")
}
