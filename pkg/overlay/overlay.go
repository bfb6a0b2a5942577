// Package overlay implements the render-time Overlay Pipeline of
// spec.md §4.7: a five-hook contract (start_frame,
// get_face_and_advance, get_face_newline_padding, end_frame, cleanup)
// invoked once per visible frame, plus an ordered Pipeline that
// composes however many overlays are active into one Face per visible
// byte.
//
// Grounded on original_source/src/core/overlay.hpp's VTable (the same
// five hooks, here as a Go interface instead of a function-pointer
// struct) and on the individual original_source/src/overlays/*.cpp
// files for the concrete overlays in this package.
package overlay

import (
	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/cursor"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/token"
	"github.com/calvinalkan/mag/pkg/tokencache"
)

// BufferView is the subset of a buffer an overlay may read. Defined here
// rather than imported from a buffer package so this package stays free
// of a dependency on buffer construction, window management, or mode
// configuration — only the state overlays actually consult.
type BufferView interface {
	Contents() *content.Contents
	TokenCache() *tokencache.Cache
	Log() *edit.Log
	// Unchanged reports whether the buffer's commit history is back at
	// its last-saved point (edit.Log.IsUnchanged against the save
	// marker the buffer itself tracks).
	Unchanged() bool
}

// WindowView is the subset of a window an overlay may read.
type WindowView interface {
	Cursors() *cursor.Set
	ShowMarks() bool
}

// Overlay is one render-time decoration. Implementations are
// stateful across a frame: StartFrame resets per-frame state,
// GetFaceAndAdvance is called once per visible byte in increasing
// position order, GetFaceNewlinePadding is called once per visible line
// for the padding past its last byte, EndFrame runs after the last
// visible byte, and Cleanup runs once the window closes or the overlay
// is removed, releasing any resources it holds.
type Overlay interface {
	StartFrame(buffer BufferView, window WindowView, start content.Iterator) error
	GetFaceAndAdvance(buffer BufferView, window WindowView, it content.Iterator) (token.Face, error)
	GetFaceNewlinePadding(buffer BufferView, window WindowView, eol content.Iterator) (token.Face, error)
	EndFrame() error
	Cleanup()
}

// Pipeline runs an ordered list of Overlays and composes their faces
// for one frame. Overlays later in the list are painted over earlier
// ones, matching the original's back-to-front draw order.
type Pipeline struct {
	overlays []Overlay
}

// NewPipeline builds a Pipeline over overlays in paint order.
func NewPipeline(overlays ...Overlay) *Pipeline {
	return &Pipeline{overlays: overlays}
}

// StartFrame resets every overlay for a new frame.
func (p *Pipeline) StartFrame(buffer BufferView, window WindowView, start content.Iterator) error {
	for _, o := range p.overlays {
		if err := o.StartFrame(buffer, window, start); err != nil {
			return err
		}
	}

	return nil
}

// FaceAt composes every overlay's face for the byte at it, in paint
// order, over base.
func (p *Pipeline) FaceAt(buffer BufferView, window WindowView, it content.Iterator, base token.Face) (token.Face, error) {
	face := base

	for _, o := range p.overlays {
		f, err := o.GetFaceAndAdvance(buffer, window, it)
		if err != nil {
			return token.Face{}, err
		}

		face = Compose(face, f)
	}

	return face, nil
}

// NewlinePaddingFaceAt composes every overlay's end-of-line padding
// face, in paint order, over base.
func (p *Pipeline) NewlinePaddingFaceAt(buffer BufferView, window WindowView, eol content.Iterator, base token.Face) (token.Face, error) {
	face := base

	for _, o := range p.overlays {
		f, err := o.GetFaceNewlinePadding(buffer, window, eol)
		if err != nil {
			return token.Face{}, err
		}

		face = Compose(face, f)
	}

	return face, nil
}

// EndFrame runs every overlay's end-of-frame hook.
func (p *Pipeline) EndFrame() error {
	for _, o := range p.overlays {
		if err := o.EndFrame(); err != nil {
			return err
		}
	}

	return nil
}

// Cleanup runs every overlay's cleanup hook.
func (p *Pipeline) Cleanup() {
	for _, o := range p.overlays {
		o.Cleanup()
	}
}

// Compose paints overlay over base. A Face whose foreground/background
// is the unset default (not a raw color, and themed index zero — the
// convention every concrete overlay in this package follows for "I did
// not touch this channel") leaves the corresponding channel of base
// untouched; flags are OR'd in since they are independent toggles, not
// a channel a later overlay might deliberately want to clear.
func Compose(base, overlay token.Face) token.Face {
	out := base

	if overlay.ForegroundIsColor || overlay.ForegroundThemed != 0 {
		out.ForegroundIsColor = overlay.ForegroundIsColor
		out.ForegroundThemed = overlay.ForegroundThemed
		out.ForegroundRGB = overlay.ForegroundRGB
	}

	if overlay.BackgroundIsColor || overlay.BackgroundThemed != 0 {
		out.BackgroundIsColor = overlay.BackgroundIsColor
		out.BackgroundThemed = overlay.BackgroundThemed
		out.BackgroundRGB = overlay.BackgroundRGB
	}

	out.Flags.Bold = out.Flags.Bold || overlay.Flags.Bold
	out.Flags.Underscore = out.Flags.Underscore || overlay.Flags.Underscore
	out.Flags.Reverse = out.Flags.Reverse || overlay.Flags.Reverse
	out.Flags.Italics = out.Flags.Italics || overlay.Flags.Italics
	out.Flags.Invisible = out.Flags.Invisible || overlay.Flags.Invisible

	return out
}
