package overlay

import (
	"github.com/calvinalkan/mag/pkg/completion"
	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/search"
	"github.com/calvinalkan/mag/pkg/token"
)

// NearestMatchingIdentifier previews, while typing an identifier
// prefix, the nearest other occurrence of that prefix the completion
// engine would offer — without opening the completion popup. It
// recomputes only when the cursor has moved or the buffer has changed
// since the last frame, and stays off entirely while the buffer is
// unmodified (a buffer with no unsaved edits is rarely mid-edit, so the
// preview would just be noise).
//
// Grounded on
// original_source/overlays/overlay_nearest_matching_identifier.cpp:
// same is_unchanged/show_marks gate, same cursor-position+change-index
// memoisation to skip recomputation, same backward-then-forward
// identifier-boundary walk before calling the completion search.
type NearestMatchingIdentifier struct {
	Face token.Face

	cacheCursorPos   int
	cacheChangeIndex int
	haveCache        bool

	start, end int
	active     bool

	countdown          int
	countdownHighlight bool
}

// NewNearestMatchingIdentifier returns a NearestMatchingIdentifier
// overlay painted with face.
func NewNearestMatchingIdentifier(face token.Face) *NearestMatchingIdentifier {
	return &NearestMatchingIdentifier{Face: face}
}

func (n *NearestMatchingIdentifier) StartFrame(buffer BufferView, window WindowView, start content.Iterator) error {
	n.countdown = 0
	n.countdownHighlight = false

	if buffer.Unchanged() || window.ShowMarks() {
		n.active = false

		return nil
	}

	cur, _ := window.Cursors().Selected()
	changeIndex := len(buffer.Log().Changes)

	if n.haveCache && cur.Point == n.cacheCursorPos && changeIndex == n.cacheChangeIndex {
		return nil
	}

	n.cacheCursorPos = cur.Point
	n.cacheChangeIndex = changeIndex
	n.haveCache = true
	n.active = false

	contents := buffer.Contents()

	prefixStart, err := backwardThroughIdentifier(contents, cur.Point)
	if err != nil {
		return err
	}

	if prefixStart >= cur.Point {
		return nil
	}

	var ignored []int

	for _, c := range window.Cursors().All() {
		ignored = append(ignored, c.Point)
	}

	it, ok, err := completion.FindNearestMatchingIdentifier(contents, prefixStart, cur.Point-prefixStart, ignored)
	if err != nil {
		return err
	}

	if !ok {
		return nil
	}

	matchEnd, err := forwardThroughIdentifier(contents, it.Position())
	if err != nil {
		return err
	}

	n.start = it.Position()
	n.end = matchEnd
	n.active = true

	return nil
}

func (n *NearestMatchingIdentifier) GetFaceAndAdvance(buffer BufferView, window WindowView, it content.Iterator) (token.Face, error) {
	if !n.active {
		return token.Face{}, nil
	}

	if n.countdown == 0 {
		b, ok, err := it.Get()
		if err != nil {
			return token.Face{}, err
		}

		if !ok || !completion.IsIdentifierByte(b) {
			return token.Face{}, nil
		}

		wordEnd, err := forwardThroughIdentifier(buffer.Contents(), it.Position())
		if err != nil {
			return token.Face{}, err
		}

		n.countdown = wordEnd - it.Position()

		startIt, err := buffer.Contents().IteratorAt(n.start)
		if err != nil {
			return token.Face{}, err
		}

		word, err := buffer.Contents().Slice(it.Position(), wordEnd)
		if err != nil {
			return token.Face{}, err
		}

		n.countdownHighlight, err = search.Matches(startIt, n.end, []byte(word.AsString()))
		if err != nil {
			return token.Face{}, err
		}
	}

	n.countdown--

	if n.countdownHighlight {
		return n.Face, nil
	}

	return token.Face{}, nil
}

func (n *NearestMatchingIdentifier) GetFaceNewlinePadding(BufferView, WindowView, content.Iterator) (token.Face, error) {
	return token.Face{}, nil
}

func (n *NearestMatchingIdentifier) EndFrame() error { return nil }
func (n *NearestMatchingIdentifier) Cleanup()        {}

func backwardThroughIdentifier(contents *content.Contents, pos int) (int, error) {
	for pos > 0 {
		b, err := byteAt(contents, pos-1)
		if err != nil {
			return 0, err
		}

		if !completion.IsIdentifierByte(b) {
			break
		}

		pos--
	}

	return pos, nil
}

func forwardThroughIdentifier(contents *content.Contents, pos int) (int, error) {
	for pos < contents.Len() {
		b, err := byteAt(contents, pos)
		if err != nil {
			return 0, err
		}

		if !completion.IsIdentifierByte(b) {
			break
		}

		pos++
	}

	return pos, nil
}

func byteAt(contents *content.Contents, pos int) (byte, error) {
	s, err := contents.Slice(pos, pos+1)
	if err != nil {
		return 0, err
	}

	str := s.AsString()
	if len(str) == 0 {
		return 0, nil
	}

	return str[0], nil
}
