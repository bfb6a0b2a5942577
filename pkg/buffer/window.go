package buffer

import (
	"github.com/calvinalkan/mag/pkg/cursor"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/overlay"
)

// Window is one view onto a Buffer: its own cursor set, scroll
// position, and a weak handle to the buffer it displays so a buffer
// that closes while a window is still open degrades to "nothing to
// show" instead of a dangling pointer.
//
// Grounded on original_source/src/core/window.hpp's Window_Unified
// (per-window cursors + show_marks + scroll state over a shared
// buffer) and on internal/store's weak-handle-over-a-table shape for
// the Buffer reference itself.
type Window struct {
	handle WeakHandle

	cursors *cursor.Set

	ShowMarksFlag bool
	ScrollStart   int
	Rows          int
}

// NewWindow opens a window onto the buffer referenced by handle,
// starting with a single cursor at position 0.
func NewWindow(handle WeakHandle) *Window {
	return &Window{handle: handle, cursors: cursor.NewSet()}
}

// Cursors returns the window's cursor set. Implements
// overlay.WindowView.
func (w *Window) Cursors() *cursor.Set { return w.cursors }

// ShowMarks reports whether the window is currently showing a marked
// region (the "selection" state toggled by set-mark/activate commands).
// Implements overlay.WindowView.
func (w *Window) ShowMarks() bool { return w.ShowMarksFlag }

// Buffer upgrades the window's weak handle, returning false if the
// buffer has since closed.
func (w *Window) Buffer() (*Buffer, bool) {
	return w.handle.Upgrade()
}

// RebaseCursors applies, to this window's cursor set, every Commit
// appended to the buffer's log since the window last observed it
// (tracked by seenChanges), per spec.md §4.3's "rebasing is done per
// Window". Returns the new seenChanges value to store back.
func RebaseCursors(w *Window, buf *Buffer, seenChanges int) int {
	changes := buf.Log().Changes
	for _, ch := range changes[seenChanges:] {
		commit := buf.Log().Commits[ch.CommitIndex]
		if !ch.Forward {
			commit = edit.InvertCommit(commit)
		}

		w.cursors.Rebase(commit)
	}

	return len(changes)
}

var _ overlay.WindowView = (*Window)(nil)
