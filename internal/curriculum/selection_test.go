package curriculum

import "testing"

func TestSelection_DeleteSelectedAfterSwitchClears(t *testing.T) {
	var sel Selection
	sel.Select("c1")
	sel.Select("c2")
	if !sel.OnDeleted("c2") {
		t.Fatalf("expected deleting the selected chapter to clear selection")
	}
	if id, ok := sel.ChapterID(); ok {
		t.Fatalf("expected no selection, got %q", id)
	}
}

func TestSelection_DeleteOtherKeepsSelection(t *testing.T) {
	var sel Selection
	sel.Select("c1")
	if sel.OnDeleted("c2") {
		t.Fatalf("deleting an unselected chapter must not change selection")
	}
	if id, _ := sel.ChapterID(); id != "c1" {
		t.Fatalf("selection: got %q", id)
	}
}

func TestSelection_ReconcileAgainstFetch(t *testing.T) {
	tree := newTestTree()
	var sel Selection
	sel.Select("c3")
	if sel.Reconcile(tree) {
		t.Fatalf("c3 still exists; selection should stay")
	}
	tree.RemoveChapter("c3")
	if !sel.Reconcile(tree) {
		t.Fatalf("expected selection cleared once c3 is gone")
	}
	if _, ok := sel.ChapterID(); ok {
		t.Fatalf("expected no selection")
	}
}
