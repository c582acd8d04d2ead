package curriculum

import "strings"

// Selection tracks which chapter the edit form is bound to.
// The zero value is "no selection".
type Selection struct {
	chapterID string
}

func (s Selection) ChapterID() (string, bool) {
	return s.chapterID, s.chapterID != ""
}

func (s Selection) IsSelected(chapterID string) bool {
	return s.chapterID != "" && s.chapterID == strings.TrimSpace(chapterID)
}

// Select binds the selection to chapterID, replacing any previous selection.
func (s *Selection) Select(chapterID string) {
	s.chapterID = strings.TrimSpace(chapterID)
}

func (s *Selection) Clear() { s.chapterID = "" }

// OnDeleted clears the selection when the deleted chapter was the selected one.
// It reports whether the selection changed.
func (s *Selection) OnDeleted(chapterID string) bool {
	if !s.IsSelected(chapterID) {
		return false
	}
	s.Clear()
	return true
}

// Reconcile clears the selection when the tree no longer contains the chapter.
func (s *Selection) Reconcile(t *Tree) bool {
	if s.chapterID == "" {
		return false
	}
	if _, ok := t.Chapter(s.chapterID); ok {
		return false
	}
	s.Clear()
	return true
}
