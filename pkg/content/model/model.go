// Package model provides a deliberately simple in-memory oracle for
// content.Contents: a plain byte slice with the same Insert/Remove/Slice
// surface. Tests run the same operation sequence against both and compare
// results, mirroring pkg/slotcache/model's "simple model, compare after
// every op" style.
package model

import "github.com/calvinalkan/mag/pkg/content"

// State is the oracle: content addressed by plain slice indexing.
type State struct {
	bytes []byte
}

// New returns an empty model state.
func New() *State {
	return &State{}
}

// NewFromBytes seeds the model with initial content.
func NewFromBytes(b []byte) *State {
	cp := make([]byte, len(b))
	copy(cp, b)

	return &State{bytes: cp}
}

// Len returns the current length.
func (s *State) Len() int {
	return len(s.bytes)
}

// Bytes returns the current content. The caller must not mutate it.
func (s *State) Bytes() []byte {
	return s.bytes
}

// Insert mirrors Contents.Insert.
func (s *State) Insert(position int, b []byte) error {
	if position < 0 || position > len(s.bytes) {
		return content.ErrOutOfRange
	}

	out := make([]byte, 0, len(s.bytes)+len(b))
	out = append(out, s.bytes[:position]...)
	out = append(out, b...)
	out = append(out, s.bytes[position:]...)
	s.bytes = out

	return nil
}

// Remove mirrors Contents.Remove.
func (s *State) Remove(position, count int) error {
	if count < 0 || position < 0 || position+count > len(s.bytes) {
		return content.ErrOutOfRange
	}

	out := make([]byte, 0, len(s.bytes)-count)
	out = append(out, s.bytes[:position]...)
	out = append(out, s.bytes[position+count:]...)
	s.bytes = out

	return nil
}

// Slice mirrors Contents.Slice.
func (s *State) Slice(start, end int) ([]byte, error) {
	if start < 0 || end < start || end > len(s.bytes) {
		return nil, content.ErrOutOfRange
	}

	out := make([]byte, end-start)
	copy(out, s.bytes[start:end])

	return out, nil
}
