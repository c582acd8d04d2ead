package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lms-admin/internal/curriculum"
	"lms-admin/internal/logging"
	"lms-admin/internal/model"
	"lms-admin/internal/remote"
)

const toastTTL = 3 * time.Second

type editorDeps struct {
	courseID string
	sync     *remote.Sync
	events   <-chan tea.Msg
	auth     authenticator
	sessions sessionSaver
	log      *zap.Logger
}

type toast struct {
	kind toastKind
	text string
	seq  int
}

type editorModel struct {
	courseID string
	sync     *remote.Sync
	events   <-chan tea.Msg
	auth     authenticator
	sessions sessionSaver
	log      *zap.Logger

	width  int
	height int

	screen screen
	pane   pane

	tree    *curriculum.Tree
	drag    *curriculum.Controller
	sel     curriculum.Selection
	cursor  int
	loaded  bool
	loading bool
	loadErr string

	form *chapterPane

	modal        modalKind
	modalInput   textinput.Model
	modalTypeIx  int
	modalErr     string
	modalSection string // section the modal acts on
	confirmFocus confirmModalFocus
	pending      deleteTarget

	toast    *toast
	toastSeq int

	login loginForm
	help  help.Model
}

func newEditorModel(d editorDeps) editorModel {
	log := d.log
	if log == nil {
		log = logging.Nop()
	}
	t := curriculum.NewTree(d.courseID)
	m := editorModel{
		courseID: t.CourseID,
		sync:     d.sync,
		events:   d.events,
		auth:     d.auth,
		sessions: d.sessions,
		log:      log,
		tree:     t,
		drag:     curriculum.NewController(t),
		help:     help.New(),
		width:    100,
		height:   30,
	}
	m.modalInput = textinput.New()
	m.modalInput.Prompt = ""
	m.modalInput.CharLimit = 200
	m.modalTypeIx = len(model.ChapterTypes) - 1 // article
	return m
}

func (m editorModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCurriculum(), waitForEvent(m.events))
}

func (m editorModel) fetchCurriculum() tea.Cmd {
	rs, courseID := m.sync, m.courseID
	return func() tea.Msg {
		cur, err := rs.FetchCurriculum(context.Background(), courseID)
		return curriculumLoadedMsg{cur: cur, err: err}
	}
}

func (m editorModel) createSectionCmd(title string, order int) tea.Cmd {
	rs, courseID := m.sync, m.courseID
	return func() tea.Msg {
		s, err := rs.CreateSection(context.Background(), courseID, model.NewSection{Title: title, Order: order})
		return sectionCreatedMsg{section: s, err: err}
	}
}

func (m editorModel) renameSectionCmd(sectionID, title string) tea.Cmd {
	rs, courseID := m.sync, m.courseID
	return func() tea.Msg {
		_, err := rs.UpdateSection(context.Background(), courseID, sectionID, model.SectionPatch{Title: title})
		return mutationDoneMsg{op: "rename section", err: err}
	}
}

func (m editorModel) createChapterCmd(sectionID string, in model.NewChapter) tea.Cmd {
	rs := m.sync
	return func() tea.Msg {
		ch, err := rs.CreateChapter(context.Background(), sectionID, in)
		return chapterCreatedMsg{chapter: ch, err: err}
	}
}

func (m editorModel) saveChapterCmd(sectionID, chapterID string, p model.ChapterPatch) tea.Cmd {
	rs := m.sync
	return func() tea.Msg {
		ch, err := rs.UpdateChapter(context.Background(), sectionID, chapterID, p)
		return chapterSavedMsg{chapter: ch, err: err}
	}
}

func (m editorModel) deleteCmd(t deleteTarget) tea.Cmd {
	rs, courseID := m.sync, m.courseID
	return func() tea.Msg {
		var err error
		if t.kind == "section" {
			err = rs.DeleteSection(context.Background(), courseID, t.id)
		} else {
			err = rs.DeleteChapter(context.Background(), t.sectionID, t.id)
		}
		return deletedMsg{kind: t.kind, id: t.id, sectionID: t.sectionID, err: err}
	}
}

func (m editorModel) applyDropCmd(d curriculum.Drop) tea.Cmd {
	rs, courseID := m.sync, m.courseID
	return func() tea.Msg {
		return reorderDoneMsg{err: rs.ApplyDrop(context.Background(), courseID, d)}
	}
}

func (m *editorModel) showToast(kind toastKind, text string) tea.Cmd {
	m.toastSeq++
	seq := m.toastSeq
	m.toast = &toast{kind: kind, text: text, seq: seq}
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastDoneMsg{seq: seq} })
}

func (m editorModel) rows() []curriculum.Row { return m.tree.Rows() }

func (m editorModel) currentRow() (curriculum.Row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return curriculum.Row{}, false
	}
	return rows[m.cursor], true
}

func (m *editorModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// moveCursorTo puts the cursor on the row for id, when visible.
func (m *editorModel) moveCursorTo(id string) {
	for i, r := range m.rows() {
		if r.ID() == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

// selectChapter binds the edit form to chapterID, rebuilding it from the chapter.
func (m *editorModel) selectChapter(chapterID string) {
	ch, ok := m.tree.Chapter(chapterID)
	if !ok {
		return
	}
	m.sel.Select(chapterID)
	m.form = newChapterPane(*ch)
}

func (m *editorModel) clearSelection() {
	m.sel.Clear()
	m.form = nil
	m.pane = paneTree
}

// sectionForRow is the section a new chapter goes into for the current row.
func (m editorModel) sectionForRow() (string, bool) {
	r, ok := m.currentRow()
	if !ok {
		return "", false
	}
	return r.SectionID, true
}
