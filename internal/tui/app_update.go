package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lms-admin/internal/curriculum"
	"lms-admin/internal/form"
	"lms-admin/internal/model"
	"lms-admin/internal/remote"
)

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case toastMsg:
		cmd := m.showToast(msg.kind, msg.text)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case toastDoneMsg:
		if m.toast != nil && m.toast.seq == msg.seq {
			m.toast = nil
		}
		return m, nil

	case navigateMsg:
		if msg.route == remote.RouteLogin && m.screen != screenLogin {
			m.screen = screenLogin
			m.login = newLoginForm()
			m.drag.DragCancel()
			m.modal = modalNone
		}
		return m, waitForEvent(m.events)

	case loginDoneMsg:
		m.login.busy = false
		if msg.err != nil {
			m.login.err = msg.err.Error()
			m.login.password.SetValue("")
			return m, nil
		}
		m.screen = screenEditor
		m.loading = true
		return m, m.fetchCurriculum()

	case curriculumLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			return m, nil
		}
		m.loadErr = ""
		m.applyFetch(msg.cur)
		return m, nil

	case sectionCreatedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.tree.AppendSection(msg.section)
		m.moveCursorTo(msg.section.ID)
		return m, m.fetchCurriculum()

	case chapterCreatedMsg:
		if msg.err != nil {
			return m, nil
		}
		if err := m.tree.AppendChapter(msg.chapter); err != nil {
			m.log.Warn("created chapter has no local section", zap.Error(err))
			return m, m.fetchCurriculum()
		}
		m.tree.SetExpanded(msg.chapter.SectionID, true)
		m.moveCursorTo(msg.chapter.ID)
		m.selectChapter(msg.chapter.ID)
		return m, m.fetchCurriculum()

	case chapterSavedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.tree.ReplaceChapter(msg.chapter)
		if m.form != nil && m.form.chapterID() == msg.chapter.ID {
			if ch, ok := m.tree.Chapter(msg.chapter.ID); ok {
				focus := m.form.focus
				m.form = newChapterPane(*ch)
				m.form.focus = focus
				if m.pane == paneForm {
					return m, tea.Batch(m.form.focusFirst(), m.fetchCurriculum())
				}
			}
		}
		return m, m.fetchCurriculum()

	case deletedMsg:
		if msg.err != nil {
			return m, nil
		}
		if msg.kind == "section" {
			m.tree.RemoveSection(msg.id)
			if m.sel.Reconcile(m.tree) {
				m.clearSelection()
			}
		} else {
			m.tree.RemoveChapter(msg.id)
			if m.sel.OnDeleted(msg.id) {
				m.clearSelection()
			}
		}
		m.clampCursor()
		return m, m.fetchCurriculum()

	case mutationDoneMsg:
		if msg.err != nil {
			return m, nil
		}
		return m, m.fetchCurriculum()

	case reorderDoneMsg:
		// A failed reorder keeps the local order; the next fetch reconciles.
		if msg.err != nil {
			return m, nil
		}
		return m, m.fetchCurriculum()

	case tea.KeyMsg:
		if m.screen == screenLogin {
			return m.updateLogin(msg)
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		if m.pane == paneForm && m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateTree(msg)
	}
	return m, nil
}

// applyFetch rebuilds the tree from server data and reconciles the selection.
func (m *editorModel) applyFetch(cur remote.Curriculum) {
	var keepID string
	if r, ok := m.currentRow(); ok {
		keepID = r.ID()
	}
	m.tree.ReplaceOnFetch(cur.Sections, cur.Contents)
	m.loaded = true

	if m.sel.Reconcile(m.tree) {
		m.clearSelection()
	} else if m.form != nil && m.form.dirty {
		// Keep the unsaved title previewed in the tree.
		m.tree.UpdateChapterTitle(m.form.chapterID(), m.form.title())
	}
	if keepID != "" {
		m.moveCursorTo(keepID)
	}
	m.clampCursor()
}

func (m editorModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	_, dragging := m.drag.Active()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		if dragging {
			if r, ok := m.currentRow(); ok {
				m.drag.DragOver(r.ID())
			}
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		if dragging {
			if r, ok := m.currentRow(); ok {
				m.drag.DragOver(r.ID())
			}
		}
		return m, nil

	case key.Matches(msg, keys.Cancel):
		if dragging {
			p, _ := m.drag.Active()
			m.drag.DragCancel()
			m.moveCursorTo(p.ID)
		}
		return m, nil

	case key.Matches(msg, keys.Toggle):
		if dragging {
			return m.endDrag()
		}
		r, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		if r.Kind == curriculum.RowSection {
			m.tree.ToggleExpand(r.SectionID)
			m.clampCursor()
			return m, nil
		}
		m.selectChapter(r.ChapterID)
		m.pane = paneForm
		return m, m.form.focusFirst()
	}

	if dragging {
		// Other keys are ignored mid-drag.
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Grab):
		r, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		p := curriculum.DragPayload{Kind: curriculum.DragSection, ID: r.SectionID}
		if r.Kind == curriculum.RowChapter {
			p = curriculum.DragPayload{Kind: curriculum.DragChapter, ID: r.ChapterID}
		}
		if err := m.drag.DragStart(p); err != nil {
			cmd := m.showToast(toastError, err.Error())
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, keys.ExpandAll):
		m.tree.ExpandAll()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, m.fetchCurriculum()

	case key.Matches(msg, keys.SwitchPane):
		if m.form != nil {
			m.pane = paneForm
			return m, m.form.focusFirst()
		}
		return m, nil

	case key.Matches(msg, keys.NewSection):
		return m.openModal(modalNewSection, "", "")

	case key.Matches(msg, keys.NewChapter):
		sectionID, ok := m.sectionForRow()
		if !ok {
			return m, nil
		}
		return m.openModal(modalNewChapter, sectionID, "")

	case key.Matches(msg, keys.Rename):
		r, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		if r.Kind == curriculum.RowChapter {
			m.selectChapter(r.ChapterID)
			m.pane = paneForm
			return m, m.form.setFocus(0)
		}
		return m.openModal(modalRenameSection, r.SectionID, r.Title)

	case key.Matches(msg, keys.Delete):
		r, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		t := deleteTarget{kind: "section", id: r.SectionID, title: r.Title}
		if r.Kind == curriculum.RowChapter {
			t = deleteTarget{kind: "chapter", id: r.ChapterID, sectionID: r.SectionID, title: r.Title}
		}
		m.pending = t
		m.modal = modalConfirmDelete
		m.confirmFocus = confirmFocusCancel
		return m, nil
	}
	return m, nil
}

// endDrag drops the active drag on the row under the cursor.
func (m editorModel) endDrag() (tea.Model, tea.Cmd) {
	p, _ := m.drag.Active()
	target := ""
	if r, ok := m.currentRow(); ok {
		target = r.ID()
	}
	d, err := m.drag.DragEnd(target)
	m.moveCursorTo(p.ID)
	if errors.Is(err, curriculum.ErrCrossSection) {
		cmd := m.showToast(toastError, "Chapters can only be moved within their section")
		return m, cmd
	}
	if err != nil {
		cmd := m.showToast(toastError, err.Error())
		return m, cmd
	}
	if !d.Moved {
		return m, nil
	}
	return m, m.applyDropCmd(d)
}

func (m editorModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.form.blur()
		m.pane = paneTree
		return m, nil
	case "ctrl+s":
		patch, err := m.form.submit()
		if err != nil {
			var ve *form.ValidationError
			if !errors.As(err, &ve) {
				cmd := m.showToast(toastError, err.Error())
				return m, cmd
			}
			return m, nil
		}
		return m, m.saveChapterCmd(m.form.sectionID(), m.form.chapterID(), patch)
	case "ctrl+d":
		intent := m.form.deleteIntent()
		m.pending = deleteTarget{kind: "chapter", id: intent.ChapterID, sectionID: intent.SectionID, title: m.form.title()}
		m.modal = modalConfirmDelete
		m.confirmFocus = confirmFocusCancel
		return m, nil
	}

	cmd, titleChanged := m.form.Update(msg)
	if titleChanged {
		m.tree.UpdateChapterTitle(m.form.chapterID(), m.form.title())
	}
	return m, cmd
}

func (m editorModel) openModal(kind modalKind, sectionID, value string) (tea.Model, tea.Cmd) {
	m.modal = kind
	m.modalSection = sectionID
	m.modalErr = ""
	m.modalInput.SetValue(value)
	m.modalInput.CursorEnd()
	m.modalTypeIx = len(model.ChapterTypes) - 1
	cmd := m.modalInput.Focus()
	return m, cmd
}

func (m *editorModel) closeModal() {
	m.modal = modalNone
	m.modalErr = ""
	m.modalInput.Blur()
	m.modalInput.SetValue("")
}

func (m editorModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal == modalConfirmDelete {
		switch msg.String() {
		case "esc", "ctrl+g", "n":
			m.modal = modalNone
			return m, nil
		case "tab", "shift+tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
			return m, nil
		case "y":
			m.confirmFocus = confirmFocusConfirm
			fallthrough
		case "enter":
			m.modal = modalNone
			if m.confirmFocus != confirmFocusConfirm {
				return m, nil
			}
			return m, m.deleteCmd(m.pending)
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeModal()
		return m, nil
	case "tab":
		if m.modal == modalNewChapter {
			m.modalTypeIx = (m.modalTypeIx + 1) % len(model.ChapterTypes)
		}
		return m, nil
	case "shift+tab":
		if m.modal == modalNewChapter {
			m.modalTypeIx = (m.modalTypeIx + len(model.ChapterTypes) - 1) % len(model.ChapterTypes)
		}
		return m, nil
	case "enter":
		return m.submitModal()
	}

	var cmd tea.Cmd
	m.modalInput, cmd = m.modalInput.Update(msg)
	return m, cmd
}

func (m editorModel) submitModal() (tea.Model, tea.Cmd) {
	value := m.modalInput.Value()
	switch m.modal {
	case modalNewSection:
		title, err := form.SectionInput{Title: value}.Validate()
		if err != nil {
			m.modalErr = err.Error()
			return m, nil
		}
		m.closeModal()
		return m, m.createSectionCmd(title, m.tree.NextSectionOrder())

	case modalRenameSection:
		title, err := form.SectionInput{Title: value}.Validate()
		if err != nil {
			m.modalErr = err.Error()
			return m, nil
		}
		sectionID := m.modalSection
		m.closeModal()
		m.tree.UpdateSectionTitle(sectionID, title)
		return m, m.renameSectionCmd(sectionID, title)

	case modalNewChapter:
		in, err := form.NewChapterInput{Title: value, Type: string(model.ChapterTypes[m.modalTypeIx])}.Validate()
		if err != nil {
			m.modalErr = err.Error()
			return m, nil
		}
		sectionID := m.modalSection
		m.closeModal()
		return m, m.createChapterCmd(sectionID, model.NewChapter{
			Title: in.Title,
			Type:  model.ChapterType(in.Type),
			Order: m.tree.NextChapterOrder(sectionID),
		})
	}
	m.closeModal()
	return m, nil
}

func modalTitle(k modalKind) string {
	switch k {
	case modalNewSection:
		return "New section"
	case modalNewChapter:
		return "New chapter"
	case modalRenameSection:
		return "Rename section"
	}
	return ""
}
