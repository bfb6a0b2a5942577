package cursor

import (
	"sort"

	"github.com/calvinalkan/mag/pkg/edit"
)

// Set is the sequence of cursors attached to one Window: kept sorted by
// Point, with Selected designating the primary cursor.
type Set struct {
	cursors  []Cursor
	selected int
}

// NewSet returns a Set with a single cursor at position 0.
func NewSet() *Set {
	return &Set{cursors: []Cursor{{}}}
}

// Len returns the number of cursors.
func (s *Set) Len() int {
	return len(s.cursors)
}

// At returns the cursor at sorted index i.
func (s *Set) At(i int) Cursor {
	return s.cursors[i]
}

// All returns a copy of every cursor, sorted by Point.
func (s *Set) All() []Cursor {
	out := make([]Cursor, len(s.cursors))
	copy(out, s.cursors)

	return out
}

// Selected returns the primary cursor and its index.
func (s *Set) Selected() (Cursor, int) {
	return s.cursors[s.selected], s.selected
}

// SetSelected changes which cursor index is primary.
func (s *Set) SetSelected(i int) {
	if i >= 0 && i < len(s.cursors) {
		s.selected = i
	}
}

// Add inserts a cursor, keeping the set sorted by Point. It returns the
// cursor's resulting index.
func (s *Set) Add(c Cursor) int {
	s.cursors = append(s.cursors, c)
	s.resort()

	for i, cur := range s.cursors {
		if cur.Point == c.Point && cur.Mark == c.Mark {
			return i
		}
	}

	return len(s.cursors) - 1
}

// RemoveAll replaces every cursor with the given set (used by commands
// that materialise cursors fresh, e.g. create-cursors-from-last-change).
// At least one cursor must be supplied; the first becomes selected.
func (s *Set) RemoveAll(cursors []Cursor) {
	s.cursors = append([]Cursor(nil), cursors...)
	s.selected = 0
	s.resort()
}

// Rebase applies commit's Edits to every cursor in the set and
// re-establishes sort order, per spec.md §4.3 ("rebasing is done per
// Window... so concurrent Windows stay consistent").
func (s *Set) Rebase(commit edit.Commit) {
	selectedPoint := s.cursors[s.selected].Rebase(commit).Point

	for i := range s.cursors {
		s.cursors[i] = s.cursors[i].Rebase(commit)
	}

	s.resort()

	for i, c := range s.cursors {
		if c.Point == selectedPoint {
			s.selected = i

			break
		}
	}
}

func (s *Set) resort() {
	sort.SliceStable(s.cursors, func(i, j int) bool {
		return s.cursors[i].Point < s.cursors[j].Point
	})
}
