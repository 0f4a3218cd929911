package status

const noSelection = -1

// List is an ordered, selectable collection of entries.
// The cursor is either a valid index or absent; it is always absent when the list is empty.
type List[E any] struct {
	items  []E
	cursor int
}

// UnstagedList holds working-tree changes.
type UnstagedList = List[UnstagedEntry]

// StagedList holds index changes.
type StagedList = List[StagedEntry]

// NewList returns a list selecting its first item, or nothing when empty.
func NewList[E any](items []E) *List[E] {
	l := &List[E]{items: items, cursor: noSelection}
	if len(items) > 0 {
		l.cursor = 0
	}
	return l
}

// Refresh replaces the items, clamping the cursor to the new length.
// An absent cursor stays absent.
func (l *List[E]) Refresh(items []E) {
	l.items = items
	switch {
	case len(l.items) == 0:
		l.cursor = noSelection
	case l.cursor == noSelection:
	case l.cursor > len(l.items)-1:
		l.cursor = len(l.items) - 1
	}
}

// Items returns the entries in repository order.
func (l *List[E]) Items() []E {
	return l.items
}

// Len returns the number of entries.
func (l *List[E]) Len() int {
	return len(l.items)
}

// Cursor returns the selected index, if any.
func (l *List[E]) Cursor() (int, bool) {
	if l.cursor == noSelection {
		return 0, false
	}
	return l.cursor, true
}

// Current returns the selected entry, if any.
func (l *List[E]) Current() (E, bool) {
	var zero E
	if l.cursor == noSelection || l.cursor >= len(l.items) {
		return zero, false
	}
	return l.items[l.cursor], true
}

// Next selects the following entry, wrapping to the first.
func (l *List[E]) Next() {
	if len(l.items) == 0 {
		return
	}
	if l.cursor == noSelection || l.cursor >= len(l.items)-1 {
		l.cursor = 0
		return
	}
	l.cursor++
}

// Previous selects the preceding entry, wrapping to the last.
func (l *List[E]) Previous() {
	if len(l.items) == 0 {
		return
	}
	switch {
	case l.cursor == noSelection:
		l.cursor = 0
	case l.cursor == 0:
		l.cursor = len(l.items) - 1
	default:
		l.cursor--
	}
}

// Select moves the cursor to index i. Out-of-range indexes are ignored.
func (l *List[E]) Select(i int) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.cursor = i
}

// ClearSelection removes the cursor but keeps the entries.
func (l *List[E]) ClearSelection() {
	l.cursor = noSelection
}
