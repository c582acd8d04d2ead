package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines,
// so lipgloss.JoinHorizontal lines the panes up.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		ln = truncate(ln, width)
		if w := xansi.StringWidth(ln); w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to width columns with a trailing ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderModalBox(width int, title, body string) string {
	bodyW := modalBodyWidth(width)
	header := lipgloss.NewStyle().
		Width(bodyW).
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Padding(0, 1).
		Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Render(header + "\n\n" + body)
	return box
}

func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	// Inputs always render as one visual line.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	line := " " + inputView + " "
	if xansi.StringWidth(line) > bodyW {
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
