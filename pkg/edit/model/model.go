// Package model is a simple in-memory oracle for pkg/edit's Log: a plain
// byte slice plus a stack of applied byte-slice snapshots, used to check
// invariants 1 and 2 of spec.md §8 (full-undo byte equality, redo after
// undo) without re-deriving the real implementation's bucketing or
// inversion logic. Mirrors pkg/slotcache/model's "keep the obviously
// correct version around, compare after every op" style.
package model

// State tracks, alongside the real content, one []byte snapshot per
// commit index so Undo/Redo can be checked by direct comparison.
type State struct {
	snapshots [][]byte
	index     int
}

// New seeds the model with the initial content as snapshot 0.
func New(initial []byte) *State {
	cp := make([]byte, len(initial))
	copy(cp, initial)

	return &State{snapshots: [][]byte{cp}}
}

// Commit records the content after a commit, truncating any redo tail.
func (s *State) Commit(result []byte) {
	s.snapshots = s.snapshots[:s.index+1]

	cp := make([]byte, len(result))
	copy(cp, result)
	s.snapshots = append(s.snapshots, cp)
	s.index++
}

// Undo moves the model back one snapshot. ok is false at the initial
// snapshot.
func (s *State) Undo() (ok bool) {
	if s.index == 0 {
		return false
	}

	s.index--

	return true
}

// Redo moves the model forward one snapshot. ok is false at the newest
// snapshot.
func (s *State) Redo() (ok bool) {
	if s.index == len(s.snapshots)-1 {
		return false
	}

	s.index++

	return true
}

// Current returns the content at the model's current position.
func (s *State) Current() []byte {
	return s.snapshots[s.index]
}
