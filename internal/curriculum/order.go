package curriculum

import (
	"sort"
	"strings"

	"lms-admin/internal/model"
)

// SortSections sorts sections in place the way the editor displays them:
// order, then CreatedAt, then ID.
func SortSections(xs []model.Section) {
	sort.SliceStable(xs, func(i, j int) bool {
		return compareByOrder(xs[i].Order, xs[j].Order, xs[i].CreatedAt.UnixNano(), xs[j].CreatedAt.UnixNano(), xs[i].ID, xs[j].ID) < 0
	})
}

// SortChapters sorts chapters in place using the same ordering as SortSections.
func SortChapters(xs []model.Chapter) {
	sort.SliceStable(xs, func(i, j int) bool {
		return compareByOrder(xs[i].Order, xs[j].Order, xs[i].CreatedAt.UnixNano(), xs[j].CreatedAt.UnixNano(), xs[i].ID, xs[j].ID) < 0
	})
}

func compareByOrder(oa, ob int, ca, cb int64, ida, idb string) int {
	// Equal orders still need a deterministic tie-break, otherwise rows can swap
	// between fetches.
	switch {
	case oa < ob:
		return -1
	case oa > ob:
		return 1
	case ca < cb:
		return -1
	case ca > cb:
		return 1
	case ida < idb:
		return -1
	case ida > idb:
		return 1
	}
	return 0
}

// MoveID moves movedID to the index currently held by targetID and returns the new list.
// The input slice is not modified. ok is false when either id is missing or they are equal.
func MoveID(ids []string, movedID, targetID string) (out []string, ok bool) {
	movedID = strings.TrimSpace(movedID)
	targetID = strings.TrimSpace(targetID)
	if movedID == "" || targetID == "" || movedID == targetID {
		return nil, false
	}
	from := indexOf(ids, movedID)
	to := indexOf(ids, targetID)
	if from < 0 || to < 0 {
		return nil, false
	}

	out = make([]string, 0, len(ids))
	for i, id := range ids {
		if i == from {
			continue
		}
		out = append(out, id)
	}
	// After removal, inserting at `to` lands the moved id exactly where the target was:
	// moving down pushes the target up by one, moving up pushes it down by one.
	out = append(out, "")
	copy(out[to+1:], out[to:])
	out[to] = movedID
	return out, true
}

// Renumber assigns contiguous 1-based orders in list order.
func Renumber(ids []string) []model.OrderEntry {
	out := make([]model.OrderEntry, 0, len(ids))
	for i, id := range ids {
		out = append(out, model.OrderEntry{ID: id, Order: i + 1})
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i := range ids {
		if ids[i] == id {
			return i
		}
	}
	return -1
}
