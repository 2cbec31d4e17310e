package vscroll

// NavAction is a keyboard navigation step over a list selection.
type NavAction uint8

const (
	NavNone NavAction = iota
	// NavNext moves one item down (ArrowDown).
	NavNext
	// NavPrev moves one item up (ArrowUp).
	NavPrev
	// NavPageDown moves one viewport down.
	NavPageDown
	// NavPageUp moves one viewport up.
	NavPageUp
	// NavFirst selects the first item (Home).
	NavFirst
	// NavLast selects the last item (End).
	NavLast
)

func (a NavAction) String() string {
	switch a {
	case NavNext:
		return "next"
	case NavPrev:
		return "prev"
	case NavPageDown:
		return "page-down"
	case NavPageUp:
		return "page-up"
	case NavFirst:
		return "first"
	case NavLast:
		return "last"
	default:
		return "none"
	}
}

// NextIndex returns the selection that follows current after action. The
// result is clamped to [0, itemCount-1]; current may be -1 for no selection.
// ok is false when the list is empty or the action is unknown.
func NextIndex(action NavAction, current, itemCount, visibleCount int) (next int, ok bool) {
	if itemCount <= 0 {
		return -1, false
	}
	page := max(visibleCount, 1)

	switch action {
	case NavNext:
		next = current + 1
	case NavPrev:
		next = current - 1
	case NavPageDown:
		next = current + page
	case NavPageUp:
		next = current - page
	case NavFirst:
		next = 0
	case NavLast:
		next = itemCount - 1
	default:
		return current, false
	}
	return min(max(next, 0), itemCount-1), true
}
