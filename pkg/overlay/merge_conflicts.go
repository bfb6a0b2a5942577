package overlay

import (
	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/search"
	"github.com/calvinalkan/mag/pkg/token"
)

type mergeState int

const (
	mergeNothing mergeState = iota
	mergeAtLessers
	mergeInTop
	mergeAtEquals
	mergeInBottom
	mergeAtGreaters
)

// MergeConflicts paints the three zones of a Git-style conflict marker
// block (<<<<<<<, the top side, =======, the bottom side, >>>>>>>) each
// with their own face, walking a six-state machine one newline at a
// time.
//
// Grounded line-for-line on
// original_source/src/overlays/overlay_merge_conflicts.cpp's at_newline
// state transitions (same six states, same fallthrough from
// AT_LESSERS/AT_EQUALS into the immediately following IN_TOP/IN_BOTTOM
// state on the very next line).
type MergeConflicts struct {
	Dividers token.Face
	Top      token.Face
	Bottom   token.Face

	state mergeState
}

// NewMergeConflicts returns a MergeConflicts overlay.
func NewMergeConflicts(dividers, top, bottom token.Face) *MergeConflicts {
	return &MergeConflicts{Dividers: dividers, Top: top, Bottom: bottom}
}

func (m *MergeConflicts) StartFrame(buffer BufferView, window WindowView, start content.Iterator) error {
	m.state = mergeNothing

	return m.atNewline(start)
}

func (m *MergeConflicts) atNewline(it content.Iterator) error {
	switch m.state {
	case mergeNothing:
		ok, err := search.LookingAt(it, []byte("<<<<<<<"))
		if err != nil {
			return err
		}

		if ok {
			m.state = mergeAtLessers
		}

	case mergeAtLessers:
		m.state = mergeInTop

		fallthrough
	case mergeInTop:
		ok, err := search.LookingAt(it, []byte("======="))
		if err != nil {
			return err
		}

		if ok {
			m.state = mergeAtEquals

			return nil
		}

		ok, err = search.LookingAt(it, []byte(">>>>>>>"))
		if err != nil {
			return err
		}

		if ok {
			m.state = mergeAtGreaters
		}

	case mergeAtEquals:
		m.state = mergeInBottom

		fallthrough
	case mergeInBottom:
		ok, err := search.LookingAt(it, []byte(">>>>>>>"))
		if err != nil {
			return err
		}

		if ok {
			m.state = mergeAtGreaters
		}

	case mergeAtGreaters:
		m.state = mergeNothing
	}

	return nil
}

func (m *MergeConflicts) GetFaceAndAdvance(buffer BufferView, window WindowView, it content.Iterator) (token.Face, error) {
	switch m.state {
	case mergeInTop:
		return m.Top, nil
	case mergeInBottom:
		return m.Bottom, nil
	case mergeNothing:
		return token.Face{}, nil
	default:
		return m.Dividers, nil
	}
}

func (m *MergeConflicts) GetFaceNewlinePadding(buffer BufferView, window WindowView, eol content.Iterator) (token.Face, error) {
	var face token.Face

	switch m.state {
	case mergeInTop, mergeInBottom, mergeNothing:
	default:
		face = m.Dividers
	}

	next := eol
	if !next.AtEOB() {
		if err := next.Advance(); err != nil {
			return token.Face{}, err
		}
	}

	if err := m.atNewline(next); err != nil {
		return token.Face{}, err
	}

	return face, nil
}

func (m *MergeConflicts) EndFrame() error { return nil }
func (m *MergeConflicts) Cleanup()        {}
