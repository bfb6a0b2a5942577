// Package cursor implements the Cursor value and the offset-rebasing
// rules applied to every cursor after a Commit (spec.md §4.3). Grounded
// structurally on pkg/slotcache/model's "plain state, compare after every
// op" style for the accompanying property tests, since the source has no
// direct analogue to a multi-cursor model.
package cursor

import "github.com/calvinalkan/mag/pkg/edit"

// Cursor is a (point, mark) pair plus a small per-cursor copy chain used
// by multi-cursor copy/paste commands.
type Cursor struct {
	Point          int
	Mark           int
	LocalCopyChain []string
}

// Start returns min(point, mark).
func (c Cursor) Start() int {
	return min(c.Point, c.Mark)
}

// End returns max(point, mark).
func (c Cursor) End() int {
	return max(c.Point, c.Mark)
}

// PushCopy pushes a value onto the cursor's local copy chain.
func (c *Cursor) PushCopy(value string) {
	c.LocalCopyChain = append(c.LocalCopyChain, value)
}

// PopCopy pops the most recent value off the cursor's local copy chain.
func (c *Cursor) PopCopy() (string, bool) {
	if len(c.LocalCopyChain) == 0 {
		return "", false
	}

	last := len(c.LocalCopyChain) - 1
	v := c.LocalCopyChain[last]
	c.LocalCopyChain = c.LocalCopyChain[:last]

	return v, true
}

// RebasePosition shifts a single absolute position by one Edit, per the
// rules in spec.md §4.3.
func RebasePosition(position int, e edit.Edit) int {
	if e.IsInsert() {
		p := e.Position
		l := e.Value.Len()

		switch {
		case position < p:
			return position
		case position > p:
			return position + l
		default: // position == p
			if e.StickyAfterPosition() {
				return position + l
			}

			return position
		}
	}

	p := e.Position
	l := e.Value.Len()

	switch {
	case position < p:
		return position
	case position >= p+l:
		return position - l
	default: // p <= position < p+l
		return p
	}
}

// RebaseCommit shifts a position by every Edit in commit, in order.
func RebaseCommit(position int, commit edit.Commit) int {
	for _, e := range commit.Edits {
		position = RebasePosition(position, e)
	}

	return position
}

// Rebase returns c with Point and Mark shifted by commit's Edits.
func (c Cursor) Rebase(commit edit.Commit) Cursor {
	c.Point = RebaseCommit(c.Point, commit)
	c.Mark = RebaseCommit(c.Mark, commit)

	return c
}
