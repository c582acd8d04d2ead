package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lms-admin/internal/curriculum"
	"lms-admin/internal/model"
)

// rowState is the per-row decoration the tree pane needs beyond curriculum.Row.
type rowState struct {
	cursor   bool
	selected bool // bound to the edit form
	dragging bool // the row being moved
	dropOver bool // current drop target
}

var chapterTypeGlyph = map[model.ChapterType]string{
	model.ChapterTypeVideo:      "▶",
	model.ChapterTypeLiveClass:  "◉",
	model.ChapterTypeAssignment: "✎",
	model.ChapterTypeArticle:    "≡",
}

func renderRow(r curriculum.Row, st rowState, width int) string {
	var line string
	switch r.Kind {
	case curriculum.RowSection:
		twisty := "▸"
		if r.Expanded {
			twisty = "▾"
		}
		count := styleMuted().Render(fmt.Sprintf("(%d)", r.ChapterCount))
		line = fmt.Sprintf("%s %d. %s %s", twisty, r.Order, r.Title, count)
	default:
		glyph := chapterTypeGlyph[r.Type]
		if glyph == "" {
			glyph = "·"
		}
		mark := " "
		if st.selected {
			mark = styleAccent().Render("●")
		}
		line = fmt.Sprintf("   %s %s %d. %s", mark, glyph, r.Order, r.Title)
	}

	prefix := "  "
	switch {
	case st.dragging:
		prefix = styleAccent().Render("⇅ ")
	case st.dropOver:
		prefix = lipgloss.NewStyle().Foreground(colorDropTarget).Bold(true).Render("→ ")
	}
	line = truncate(prefix+line, width)

	if st.cursor {
		pad := width - lipgloss.Width(line)
		if pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return styleSelected().Render(line)
	}
	return line
}

// visibleWindow returns the [start, end) slice of n rows to show in height
// lines, keeping cursor on screen.
func visibleWindow(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
