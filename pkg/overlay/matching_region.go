package overlay

import (
	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/search"
	"github.com/calvinalkan/mag/pkg/token"
)

// MatchingRegion highlights every occurrence of the selected cursor's
// marked region elsewhere in the visible frame, the way an editor
// echoes what the user has just selected.
//
// Grounded on
// original_source/src/overlays/overlay_matching_region.cpp: same
// giant-region disable threshold (more than half the buffer), same
// byte-countdown technique for painting a match's interior once its
// start has been detected (avoids re-comparing every byte of a match
// against the region on every subsequent call).
type MatchingRegion struct {
	Face         token.Face
	CaseHandling search.CaseHandling

	enabled   bool
	region    []byte
	countdown int
}

// NewMatchingRegion returns a MatchingRegion overlay painted with face.
func NewMatchingRegion(face token.Face, caseHandling search.CaseHandling) *MatchingRegion {
	return &MatchingRegion{Face: face, CaseHandling: caseHandling}
}

func (m *MatchingRegion) StartFrame(buffer BufferView, window WindowView, start content.Iterator) error {
	m.enabled = false
	m.countdown = 0

	cur, _ := window.Cursors().Selected()
	if !window.ShowMarks() || cur.Point == cur.Mark {
		return nil
	}

	regionStart, regionEnd := cur.Start(), cur.End()
	if regionEnd-regionStart > buffer.Contents().Len()/2 {
		return nil
	}

	if start.AtEOB() || regionStart < start.Position() {
		return nil
	}

	slice, err := buffer.Contents().Slice(regionStart, regionEnd)
	if err != nil {
		return err
	}

	m.region = []byte(slice.AsString())
	m.enabled = true

	return nil
}

func (m *MatchingRegion) GetFaceAndAdvance(buffer BufferView, window WindowView, it content.Iterator) (token.Face, error) {
	if !m.enabled {
		return token.Face{}, nil
	}

	if m.countdown > 0 {
		m.countdown--
	}

	if m.countdown == 0 {
		ok, err := search.LookingAtCased(it, m.region, m.CaseHandling)
		if err != nil {
			return token.Face{}, err
		}

		if ok {
			m.countdown = len(m.region)
		}
	}

	if m.countdown > 0 {
		return m.Face, nil
	}

	return token.Face{}, nil
}

func (m *MatchingRegion) GetFaceNewlinePadding(BufferView, WindowView, content.Iterator) (token.Face, error) {
	return token.Face{}, nil
}

func (m *MatchingRegion) EndFrame() error { return nil }
func (m *MatchingRegion) Cleanup()        {}
