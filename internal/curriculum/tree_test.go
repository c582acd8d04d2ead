package curriculum

import (
	"reflect"
	"testing"
	"time"

	"lms-admin/internal/model"
)

func TestReplaceOnFetch_SortsAndCarriesExpandFlags(t *testing.T) {
	tree := NewTree("course-1")
	tree.ReplaceOnFetch(
		[]model.Section{{ID: "s2", Order: 2}, {ID: "s1", Order: 1}, {ID: "s3", Order: 3}},
		map[string][]model.Chapter{
			"s1": {{ID: "c2", SectionID: "s1", Order: 2}, {ID: "c1", SectionID: "s1", Order: 1}},
		},
	)
	if got := tree.SectionIDs(); !reflect.DeepEqual(got, []string{"s1", "s2", "s3"}) {
		t.Fatalf("section order: %v", got)
	}
	if got := tree.ChapterIDs("s1"); !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Fatalf("chapter order: %v", got)
	}

	tree.ToggleExpand("s1")
	tree.ToggleExpand("s3")

	// s3 disappeared server-side, s4 is new.
	tree.ReplaceOnFetch(
		[]model.Section{{ID: "s1", Order: 1, Title: "Renamed"}, {ID: "s2", Order: 2}, {ID: "s4", Order: 3}},
		nil,
	)
	s1, _ := tree.Section("s1")
	if !s1.Expanded || s1.Section.Title != "Renamed" {
		t.Fatalf("s1 should keep expanded and take server title; got %+v", s1)
	}
	if len(s1.Chapters) != 0 {
		t.Fatalf("s1 chapters should come from the response only; got %d", len(s1.Chapters))
	}
	if _, ok := tree.Section("s3"); ok {
		t.Fatalf("s3 should be gone")
	}
	s4, _ := tree.Section("s4")
	if s4.Expanded {
		t.Fatalf("new section should start collapsed")
	}

	// s3 reappearing does not resurrect its old flag.
	tree.ReplaceOnFetch([]model.Section{{ID: "s3", Order: 1}}, nil)
	s3, _ := tree.Section("s3")
	if s3.Expanded {
		t.Fatalf("dropped UI state must not come back")
	}
}

func TestReplaceOnFetch_TieBreaksEqualOrders(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tree := NewTree("course-1")
	tree.ReplaceOnFetch([]model.Section{
		{ID: "b", Order: 1, CreatedAt: now},
		{ID: "a", Order: 1, CreatedAt: now},
		{ID: "c", Order: 1, CreatedAt: now.Add(-time.Minute)},
	}, nil)
	if got := tree.SectionIDs(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("tie-break order: %v", got)
	}
}

func TestOptimisticTitleUpdates(t *testing.T) {
	tree := newTestTree()
	if !tree.UpdateSectionTitle("s1", "Getting started") {
		t.Fatalf("UpdateSectionTitle returned false")
	}
	if !tree.UpdateChapterTitle("c2", "Install tools") {
		t.Fatalf("UpdateChapterTitle returned false")
	}
	s1, _ := tree.Section("s1")
	c2, _ := tree.Chapter("c2")
	if s1.Section.Title != "Getting started" || c2.Title != "Install tools" {
		t.Fatalf("titles not applied: %q %q", s1.Section.Title, c2.Title)
	}
	if tree.UpdateChapterTitle("missing", "x") {
		t.Fatalf("expected false for unknown chapter")
	}
}

func TestRows_HidesCollapsedChapters(t *testing.T) {
	tree := newTestTree()
	rows := tree.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected only section rows while collapsed, got %d", len(rows))
	}
	tree.ToggleExpand("s1")
	rows = tree.Rows()
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID())
	}
	if want := []string{"s1", "c1", "c2", "c3", "s2"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("rows: got %v want %v", ids, want)
	}
	if rows[0].ChapterCount != 3 || !rows[0].Expanded {
		t.Fatalf("unexpected section row: %+v", rows[0])
	}
	if rows[1].Kind != RowChapter || rows[1].Depth != 1 || rows[1].SectionID != "s1" {
		t.Fatalf("unexpected chapter row: %+v", rows[1])
	}
}

func TestAppendAndNextOrder(t *testing.T) {
	tree := newTestTree()
	if got := tree.NextSectionOrder(); got != 3 {
		t.Fatalf("NextSectionOrder: got %d", got)
	}
	if got := tree.NextChapterOrder("s1"); got != 4 {
		t.Fatalf("NextChapterOrder: got %d", got)
	}
	if got := tree.NextChapterOrder("missing"); got != 1 {
		t.Fatalf("NextChapterOrder(missing): got %d", got)
	}

	tree.AppendSection(model.Section{ID: "s3", Order: 3})
	if err := tree.AppendChapter(model.Chapter{ID: "c9", SectionID: "s3", Order: 1}); err != nil {
		t.Fatalf("AppendChapter: %v", err)
	}
	if err := tree.AppendChapter(model.Chapter{ID: "c10", SectionID: "nope"}); err == nil {
		t.Fatalf("expected error for unknown section")
	}
	if got := tree.SectionIDs(); !reflect.DeepEqual(got, []string{"s1", "s2", "s3"}) {
		t.Fatalf("sections: %v", got)
	}

	if !tree.RemoveChapter("c2") || tree.RemoveChapter("c2") {
		t.Fatalf("RemoveChapter should succeed once")
	}
	if !tree.RemoveSection("s2") {
		t.Fatalf("RemoveSection failed")
	}
	if got := tree.SectionIDs(); !reflect.DeepEqual(got, []string{"s1", "s3"}) {
		t.Fatalf("sections after remove: %v", got)
	}
}

func TestReplaceChapter_KeepsPlacement(t *testing.T) {
	tree := newTestTree()
	ok := tree.ReplaceChapter(model.Chapter{ID: "c2", SectionID: "s2", Title: "Saved", Order: 9})
	if !ok {
		t.Fatalf("ReplaceChapter returned false")
	}
	c2, _ := tree.Chapter("c2")
	if c2.Title != "Saved" || c2.SectionID != "s1" || c2.Order != 2 {
		t.Fatalf("unexpected chapter: %+v", c2)
	}
}

func TestMoveID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ids    []string
		moved  string
		target string
		want   []string
		ok     bool
	}{
		{name: "down", ids: []string{"a", "b", "c", "d"}, moved: "a", target: "c", want: []string{"b", "c", "a", "d"}, ok: true},
		{name: "up", ids: []string{"a", "b", "c", "d"}, moved: "d", target: "b", want: []string{"a", "d", "b", "c"}, ok: true},
		{name: "to end", ids: []string{"a", "b", "c"}, moved: "a", target: "c", want: []string{"b", "c", "a"}, ok: true},
		{name: "same", ids: []string{"a", "b"}, moved: "a", target: "a"},
		{name: "missing", ids: []string{"a", "b"}, moved: "x", target: "a"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := MoveID(tt.ids, tt.moved, tt.target)
			if ok != tt.ok || (ok && !reflect.DeepEqual(got, tt.want)) {
				t.Fatalf("MoveID(%v, %s, %s) = %v,%v; want %v,%v", tt.ids, tt.moved, tt.target, got, ok, tt.want, tt.ok)
			}
		})
	}
}
