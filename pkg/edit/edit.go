// Package edit implements the Transaction & Commit log: Edits grouped into
// Commits, committed atomically against a content store, and undone/redone
// by inverting a Commit's Edits.
//
// Grounded on internal/store/tx.go and internal/store/wal.go's
// buffer-then-commit pattern (accumulate operations, apply atomically,
// keep a log that can be replayed) generalised from file writes to byte
// edits.
package edit

import "github.com/calvinalkan/mag/pkg/ssostr"

// Flags encodes an Edit's direction and stickiness.
type Flags uint8

const (
	// DirectionRemove marks an Edit as a removal. Its absence means insert.
	DirectionRemove Flags = 1 << iota
	// InsertAfterPosition decides whether a cursor exactly at an insert's
	// position moves with the insertion (set) or stays put (unset).
	InsertAfterPosition
)

// Edit is a single insert or remove of Value's bytes at Position.
type Edit struct {
	Value    ssostr.SSOStr
	Position int
	Flags    Flags
}

// IsInsert reports whether e is an insertion.
func (e Edit) IsInsert() bool {
	return e.Flags&DirectionRemove == 0
}

// IsRemove reports whether e is a removal.
func (e Edit) IsRemove() bool {
	return e.Flags&DirectionRemove != 0
}

// StickyAfterPosition reports whether a cursor exactly at an insert's
// position should move past it.
func (e Edit) StickyAfterPosition() bool {
	return e.Flags&InsertAfterPosition != 0
}

// End returns the position one past an insert's inserted bytes (its
// "insertion end"), or Position for a removal. Used by
// CursorsFromCommit.
func (e Edit) End() int {
	if e.IsInsert() {
		return e.Position + e.Value.Len()
	}

	return e.Position
}

// Commit is an ordered sequence of Edits produced by one Transaction plus
// an optional tag used to merge adjacent like-tagged commits into one undo
// step.
type Commit struct {
	Edits []Edit
	Tag   string
}

// Change is one entry in a buffer's history log: a forward or reverse
// application of a Commit, referenced by index into Log.Commits so a
// tag-merge that mutates a commit in place is automatically reflected in
// every Change that points at it. Forward is false for an undo (the
// commit's inverse was applied); IsRedo is true only when Forward is true
// and the application came from Redo rather than the original Commit.
type Change struct {
	CommitIndex int
	Forward     bool
	IsRedo      bool
}

// Target is the mutation surface a Log applies Edits against. A
// *content.Contents satisfies this directly.
type Target interface {
	Insert(position int, b []byte) error
	Remove(position, count int) error
}
