package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lms-admin/internal/model"
)

func (m editorModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.screen == screenLogin {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.viewLogin())
	}
	if m.modal != modalNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.viewModal())
	}

	header := m.viewHeader()
	footer := m.viewFooter()
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 1 {
		bodyH = 1
	}

	treeW := m.width * 2 / 5
	if treeW < 24 {
		treeW = m.width
	}
	formW := m.width - treeW - 1

	left := normalizePane(m.viewTree(treeW, bodyH), treeW, bodyH)
	body := left
	if formW > 0 {
		sep := styleMuted().Render(strings.TrimRight(strings.Repeat("│\n", bodyH), "\n"))
		right := normalizePane(m.viewFormPane(formW-1), formW-1, bodyH)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, sep, " "+strings.ReplaceAll(right, "\n", "\n "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m editorModel) viewHeader() string {
	title := styleAccent().Render("Curriculum")
	info := styleMuted().Render(fmt.Sprintf(" course %s · %d sections", m.courseID, m.tree.Len()))
	if m.loading {
		info += styleMuted().Render(" · loading…")
	}
	if p, ok := m.drag.Active(); ok {
		info += "  " + styleAccent().Render(fmt.Sprintf("moving %s: ↑/↓ to choose, enter to drop, esc to cancel", strings.ToLower(string(p.Kind))))
	}
	return truncate(title+info, m.width) + "\n"
}

func (m editorModel) viewTree(width, height int) string {
	if m.loadErr != "" && !m.loaded {
		return styleError().Render("Failed to load curriculum: "+m.loadErr) + "\n\n" + styleMuted().Render("R: retry   q: quit")
	}
	if !m.loaded {
		return styleMuted().Render("Loading…")
	}
	rows := m.rows()
	if len(rows) == 0 {
		return styleMuted().Render("No sections yet. Press a to add one.")
	}

	active, dragging := m.drag.Active()
	overID := m.drag.OverID()
	start, end := visibleWindow(len(rows), m.cursor, height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := rows[i]
		st := rowState{
			cursor:   i == m.cursor,
			selected: r.ChapterID != "" && m.sel.IsSelected(r.ChapterID),
		}
		if dragging {
			st.dragging = r.ID() == active.ID
			st.dropOver = !st.dragging && r.ID() == overID
		}
		lines = append(lines, renderRow(r, st, width))
	}
	return strings.Join(lines, "\n")
}

func (m editorModel) viewFormPane(width int) string {
	if m.form == nil {
		return styleMuted().Render("Select a chapter (enter) to edit it.")
	}
	return m.form.View(width, m.pane == paneForm)
}

func (m editorModel) viewFooter() string {
	var line string
	if m.toast != nil {
		st := lipgloss.NewStyle().Foreground(colorSuccess)
		if m.toast.kind == toastError {
			st = styleError()
		}
		line = st.Render(m.toast.text)
	} else if m.pane == paneForm && m.form != nil {
		line = m.help.View(formKeys{})
	} else {
		line = m.help.View(keys)
	}
	return "\n" + truncate(line, m.width)
}

func (m editorModel) viewModal() string {
	if m.modal == modalConfirmDelete {
		body := fmt.Sprintf("Delete %s %q?", m.pending.kind, m.pending.title)
		if m.pending.kind == "section" {
			body += "\nAll of its chapters are deleted too."
		}
		return renderConfirmModal(m.width, "Delete "+m.pending.kind, body, "Delete", "Cancel", m.confirmFocus)
	}

	bodyW := modalBodyWidth(m.width)
	in := m.modalInput
	in.Width = bodyW - 4
	var b strings.Builder
	b.WriteString(styleMuted().Render("Title") + "\n")
	b.WriteString(lipgloss.NewStyle().Background(colorSurfaceBg).Render(renderInputLine(bodyW, in.View())) + "\n")
	if m.modal == modalNewChapter {
		var opts []string
		for i, t := range model.ChapterTypes {
			if i == m.modalTypeIx {
				opts = append(opts, styleSelected().Render(string(t)))
			} else {
				opts = append(opts, styleMuted().Render(string(t)))
			}
		}
		b.WriteString("\n" + styleMuted().Render("Type (tab)") + "  " + strings.Join(opts, " ") + "\n")
	}
	if m.modalErr != "" {
		b.WriteString("\n" + styleError().Render(m.modalErr) + "\n")
	}
	b.WriteString("\n" + styleMuted().Render("enter: save   esc: cancel"))
	return renderModalBox(m.width, modalTitle(m.modal), b.String())
}
