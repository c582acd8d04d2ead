package curriculum

import "lms-admin/internal/model"

type RowKind int

const (
	RowSection RowKind = iota
	RowChapter
)

// Row is one visible line of the flattened curriculum.
type Row struct {
	Kind      RowKind
	SectionID string
	ChapterID string // empty for section rows
	Title     string
	Order     int
	Depth     int

	// Section rows only.
	Expanded     bool
	ChapterCount int

	// Chapter rows only.
	Type model.ChapterType
}

// ID returns the entity id the row stands for.
func (r Row) ID() string {
	if r.Kind == RowChapter {
		return r.ChapterID
	}
	return r.SectionID
}

// Rows flattens the tree into visible rows; chapters of collapsed sections are skipped.
func (t *Tree) Rows() []Row {
	var out []Row
	for _, s := range t.Sections() {
		out = append(out, Row{
			Kind:         RowSection,
			SectionID:    s.Section.ID,
			Title:        s.Section.Title,
			Order:        s.Section.Order,
			Expanded:     s.Expanded,
			ChapterCount: len(s.Chapters),
		})
		if !s.Expanded {
			continue
		}
		for _, ch := range s.Chapters {
			out = append(out, Row{
				Kind:      RowChapter,
				SectionID: s.Section.ID,
				ChapterID: ch.ID,
				Title:     ch.Title,
				Order:     ch.Order,
				Depth:     1,
				Type:      ch.Type,
			})
		}
	}
	return out
}
