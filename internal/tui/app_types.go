package tui

import (
	"lms-admin/internal/model"
	"lms-admin/internal/remote"
)

type screen int

const (
	screenEditor screen = iota
	screenLogin
)

type pane int

const (
	paneTree pane = iota
	paneForm
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewSection
	modalNewChapter
	modalRenameSection
	modalConfirmDelete
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

type toastDoneMsg struct{ seq int }

type curriculumLoadedMsg struct {
	cur remote.Curriculum
	err error
}

type sectionCreatedMsg struct {
	section model.Section
	err     error
}

type chapterCreatedMsg struct {
	chapter model.Chapter
	err     error
}

type chapterSavedMsg struct {
	chapter model.Chapter
	err     error
}

type deletedMsg struct {
	kind      string // "section" | "chapter"
	id        string
	sectionID string
	err       error
}

// mutationDoneMsg reports a mutation whose only follow-up is a refetch.
type mutationDoneMsg struct {
	op  string
	err error
}

type reorderDoneMsg struct{ err error }

type loginDoneMsg struct{ err error }

// deleteTarget is what the confirm modal will delete.
type deleteTarget struct {
	kind      string
	id        string
	sectionID string
	title     string
}
