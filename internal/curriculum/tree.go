package curriculum

import (
	"fmt"
	"strings"

	"lms-admin/internal/model"
)

// SectionNode is a section plus the UI-only state the editor keeps for it.
type SectionNode struct {
	Section  model.Section
	Chapters []model.Chapter
	Expanded bool
}

// Tree is the client-side nested list of sections and chapters for one course.
//
// Tree is not safe for concurrent use; the editor mutates it from its event loop only.
type Tree struct {
	CourseID string
	sections []*SectionNode
}

func NewTree(courseID string) *Tree {
	return &Tree{CourseID: strings.TrimSpace(courseID)}
}

// Sections returns the sections in display order. Callers must not reorder the slice.
func (t *Tree) Sections() []*SectionNode {
	if t == nil {
		return nil
	}
	return t.sections
}

func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.sections)
}

func (t *Tree) Section(id string) (*SectionNode, bool) {
	if t == nil {
		return nil, false
	}
	id = strings.TrimSpace(id)
	for _, s := range t.sections {
		if s.Section.ID == id {
			return s, true
		}
	}
	return nil, false
}

func (t *Tree) Chapter(id string) (*model.Chapter, bool) {
	if t == nil {
		return nil, false
	}
	id = strings.TrimSpace(id)
	for _, s := range t.sections {
		for i := range s.Chapters {
			if s.Chapters[i].ID == id {
				return &s.Chapters[i], true
			}
		}
	}
	return nil, false
}

// SectionOfChapter resolves the section that currently owns chapterID.
func (t *Tree) SectionOfChapter(chapterID string) (string, bool) {
	if t == nil {
		return "", false
	}
	chapterID = strings.TrimSpace(chapterID)
	for _, s := range t.sections {
		for _, ch := range s.Chapters {
			if ch.ID == chapterID {
				return s.Section.ID, true
			}
		}
	}
	return "", false
}

func (t *Tree) SectionIDs() []string {
	out := make([]string, 0, t.Len())
	for _, s := range t.Sections() {
		out = append(out, s.Section.ID)
	}
	return out
}

func (t *Tree) ChapterIDs(sectionID string) []string {
	s, ok := t.Section(sectionID)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(s.Chapters))
	for _, ch := range s.Chapters {
		out = append(out, ch.ID)
	}
	return out
}

// ToggleExpand flips a section's expand flag and returns the new value.
func (t *Tree) ToggleExpand(sectionID string) bool {
	s, ok := t.Section(sectionID)
	if !ok {
		return false
	}
	s.Expanded = !s.Expanded
	return s.Expanded
}

func (t *Tree) SetExpanded(sectionID string, expanded bool) {
	if s, ok := t.Section(sectionID); ok {
		s.Expanded = expanded
	}
}

// ExpandAll expands every section when any is collapsed, otherwise collapses all.
func (t *Tree) ExpandAll() {
	anyCollapsed := false
	for _, s := range t.Sections() {
		if !s.Expanded {
			anyCollapsed = true
			break
		}
	}
	for _, s := range t.Sections() {
		s.Expanded = anyCollapsed
	}
}

// UpdateSectionTitle applies a title change locally ahead of the server round-trip.
func (t *Tree) UpdateSectionTitle(sectionID, title string) bool {
	s, ok := t.Section(sectionID)
	if !ok {
		return false
	}
	s.Section.Title = title
	return true
}

// UpdateChapterTitle applies a title change locally. The editor calls it on every
// keystroke so the sidebar previews the title before the form is saved.
func (t *Tree) UpdateChapterTitle(chapterID, title string) bool {
	ch, ok := t.Chapter(chapterID)
	if !ok {
		return false
	}
	ch.Title = title
	return true
}

// ReplaceOnFetch rebuilds the tree from server data. Expand flags are carried over
// by section id; sections missing from the response lose their UI state.
// A section with no entry in contentsBySection ends up with no chapters.
func (t *Tree) ReplaceOnFetch(serverSections []model.Section, contentsBySection map[string][]model.Chapter) {
	expanded := map[string]bool{}
	for _, s := range t.sections {
		expanded[s.Section.ID] = s.Expanded
	}

	secs := append([]model.Section(nil), serverSections...)
	SortSections(secs)

	next := make([]*SectionNode, 0, len(secs))
	for _, s := range secs {
		chs := append([]model.Chapter(nil), contentsBySection[s.ID]...)
		SortChapters(chs)
		next = append(next, &SectionNode{
			Section:  s,
			Chapters: chs,
			Expanded: expanded[s.ID],
		})
	}
	t.sections = next
}

// NextSectionOrder is the order a newly created section gets (appended at the end).
func (t *Tree) NextSectionOrder() int {
	max := 0
	for _, s := range t.Sections() {
		if s.Section.Order > max {
			max = s.Section.Order
		}
	}
	return max + 1
}

// NextChapterOrder is the order a newly created chapter gets within sectionID.
func (t *Tree) NextChapterOrder(sectionID string) int {
	s, ok := t.Section(sectionID)
	if !ok {
		return 1
	}
	max := 0
	for _, ch := range s.Chapters {
		if ch.Order > max {
			max = ch.Order
		}
	}
	return max + 1
}

// AppendSection adds a section returned by the server to the end of the list, expanded.
func (t *Tree) AppendSection(s model.Section) {
	if _, ok := t.Section(s.ID); ok {
		return
	}
	t.sections = append(t.sections, &SectionNode{Section: s, Expanded: true})
}

// AppendChapter adds a chapter returned by the server to the end of its section.
func (t *Tree) AppendChapter(ch model.Chapter) error {
	s, ok := t.Section(ch.SectionID)
	if !ok {
		return fmt.Errorf("section not found: %s", ch.SectionID)
	}
	for _, x := range s.Chapters {
		if x.ID == ch.ID {
			return nil
		}
	}
	s.Chapters = append(s.Chapters, ch)
	return nil
}

// ReplaceChapter swaps in the server's copy of a chapter after a save. The chapter
// stays in its section; a server-side sectionId change is ignored here and picked
// up by the next fetch.
func (t *Tree) ReplaceChapter(ch model.Chapter) bool {
	cur, ok := t.Chapter(ch.ID)
	if !ok {
		return false
	}
	sectionID := cur.SectionID
	order := cur.Order
	*cur = ch
	cur.SectionID = sectionID
	cur.Order = order
	return true
}

func (t *Tree) RemoveSection(sectionID string) bool {
	for i, s := range t.Sections() {
		if s.Section.ID == sectionID {
			t.sections = append(t.sections[:i], t.sections[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Tree) RemoveChapter(chapterID string) bool {
	for _, s := range t.Sections() {
		for i := range s.Chapters {
			if s.Chapters[i].ID == chapterID {
				s.Chapters = append(s.Chapters[:i], s.Chapters[i+1:]...)
				return true
			}
		}
	}
	return false
}

// applySectionOrder reorders sections to match entries and writes their orders.
func (t *Tree) applySectionOrder(entries []model.OrderEntry) {
	byID := map[string]*SectionNode{}
	for _, s := range t.sections {
		byID[s.Section.ID] = s
	}
	next := make([]*SectionNode, 0, len(t.sections))
	for _, e := range entries {
		s, ok := byID[e.ID]
		if !ok {
			continue
		}
		s.Section.Order = e.Order
		next = append(next, s)
		delete(byID, e.ID)
	}
	// Anything not covered by entries keeps its relative position at the end.
	for _, s := range t.sections {
		if _, left := byID[s.Section.ID]; left {
			next = append(next, s)
		}
	}
	t.sections = next
}

// applyChapterOrder reorders one section's chapters to match entries.
func (t *Tree) applyChapterOrder(sectionID string, entries []model.OrderEntry) {
	s, ok := t.Section(sectionID)
	if !ok {
		return
	}
	byID := map[string]model.Chapter{}
	for _, ch := range s.Chapters {
		byID[ch.ID] = ch
	}
	next := make([]model.Chapter, 0, len(s.Chapters))
	for _, e := range entries {
		ch, ok := byID[e.ID]
		if !ok {
			continue
		}
		ch.Order = e.Order
		next = append(next, ch)
		delete(byID, e.ID)
	}
	for _, ch := range s.Chapters {
		if _, left := byID[ch.ID]; left {
			next = append(next, ch)
		}
	}
	s.Chapters = next
}
