package curriculum

import (
	"errors"
	"fmt"
	"strings"

	"lms-admin/internal/model"
)

type DragKind string

const (
	DragSection DragKind = "SECTION"
	DragChapter DragKind = "CHAPTER"
)

// DragPayload is what a drag gesture carries: the kind tag plus the dragged entity id.
type DragPayload struct {
	Kind DragKind
	ID   string
}

var (
	// ErrCrossSection is returned when a chapter is dropped onto another section's
	// list. Chapters only move within their own section.
	ErrCrossSection = errors.New("chapters can only be reordered within their section")
	ErrNoActiveDrag = errors.New("no drag in progress")
)

type unknownEntityError struct {
	kind DragKind
	id   string
}

func (e unknownEntityError) Error() string {
	return fmt.Sprintf("%s not found: %s", strings.ToLower(string(e.kind)), e.id)
}

// Drop is the outcome of a completed drag.
type Drop struct {
	// Moved is false for no-op drops (same source and target).
	Moved bool
	// SectionID scopes a chapter reorder; empty for section reorders.
	SectionID string
	Request   model.ReorderRequest
}

// Controller turns drag gestures into local reorders of a Tree and the matching
// batch reorder request. It does not talk to the server; the caller sends Drop.Request.
type Controller struct {
	tree   *Tree
	active *DragPayload
	overID string
}

func NewController(t *Tree) *Controller {
	return &Controller{tree: t}
}

func (c *Controller) DragStart(p DragPayload) error {
	p.ID = strings.TrimSpace(p.ID)
	switch p.Kind {
	case DragSection:
		if _, ok := c.tree.Section(p.ID); !ok {
			return unknownEntityError{kind: p.Kind, id: p.ID}
		}
	case DragChapter:
		if _, ok := c.tree.Chapter(p.ID); !ok {
			return unknownEntityError{kind: p.Kind, id: p.ID}
		}
	default:
		return fmt.Errorf("unknown drag kind: %q", p.Kind)
	}
	c.active = &p
	c.overID = p.ID
	return nil
}

// DragOver records the current drop target. It only affects rendering.
func (c *Controller) DragOver(targetID string) {
	if c.active == nil {
		return
	}
	c.overID = strings.TrimSpace(targetID)
}

func (c *Controller) Active() (DragPayload, bool) {
	if c.active == nil {
		return DragPayload{}, false
	}
	return *c.active, true
}

func (c *Controller) OverID() string { return c.overID }

func (c *Controller) DragCancel() {
	c.active = nil
	c.overID = ""
}

// DragEnd completes the active drag onto targetID. The tree is updated in place
// when the drop moves something. A chapter dropped into a different section
// returns ErrCrossSection and leaves the tree untouched.
func (c *Controller) DragEnd(targetID string) (Drop, error) {
	if c.active == nil {
		return Drop{}, ErrNoActiveDrag
	}
	p := *c.active
	c.DragCancel()
	return c.drop(p, strings.TrimSpace(targetID))
}

// Move is a one-shot drag: start on p and drop on targetID.
func (c *Controller) Move(p DragPayload, targetID string) (Drop, error) {
	if err := c.DragStart(p); err != nil {
		return Drop{}, err
	}
	return c.DragEnd(targetID)
}

func (c *Controller) drop(p DragPayload, targetID string) (Drop, error) {
	if targetID == "" || targetID == p.ID {
		return Drop{}, nil
	}
	switch p.Kind {
	case DragSection:
		return c.dropSection(p.ID, targetID)
	case DragChapter:
		return c.dropChapter(p.ID, targetID)
	}
	return Drop{}, fmt.Errorf("unknown drag kind: %q", p.Kind)
}

func (c *Controller) dropSection(sectionID, targetID string) (Drop, error) {
	// Dropping a section onto one of its chapters targets the owning section.
	if owner, ok := c.tree.SectionOfChapter(targetID); ok {
		targetID = owner
	}
	if targetID == sectionID {
		return Drop{}, nil
	}
	if _, ok := c.tree.Section(targetID); !ok {
		return Drop{}, unknownEntityError{kind: DragSection, id: targetID}
	}
	ids, ok := MoveID(c.tree.SectionIDs(), sectionID, targetID)
	if !ok {
		return Drop{}, nil
	}
	entries := Renumber(ids)
	c.tree.applySectionOrder(entries)
	return Drop{
		Moved:   true,
		Request: model.ReorderRequest{Type: model.ReorderSection, SortedOrder: entries},
	}, nil
}

func (c *Controller) dropChapter(chapterID, targetID string) (Drop, error) {
	origin, ok := c.tree.SectionOfChapter(chapterID)
	if !ok {
		return Drop{}, unknownEntityError{kind: DragChapter, id: chapterID}
	}

	// The drop target is either a chapter (its section contains it) or a section row.
	targetSection, isChapter := c.tree.SectionOfChapter(targetID)
	if !isChapter {
		if _, ok := c.tree.Section(targetID); !ok {
			return Drop{}, unknownEntityError{kind: DragChapter, id: targetID}
		}
		targetSection = targetID
	}
	if targetSection != origin {
		return Drop{}, ErrCrossSection
	}
	if !isChapter {
		// Own section header: nothing to reorder against.
		return Drop{}, nil
	}

	ids, ok := MoveID(c.tree.ChapterIDs(origin), chapterID, targetID)
	if !ok {
		return Drop{}, nil
	}
	entries := Renumber(ids)
	c.tree.applyChapterOrder(origin, entries)
	return Drop{
		Moved:     true,
		SectionID: origin,
		Request:   model.ReorderRequest{Type: model.ReorderContent, SortedOrder: entries},
	}, nil
}
