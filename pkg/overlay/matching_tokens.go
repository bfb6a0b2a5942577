package overlay

import (
	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/token"
)

// MatchingTokens highlights every other token in the frame that has the
// same type and text as the token the cursor currently sits in or just
// left — the classic "highlight other occurrences of this identifier"
// decoration.
//
// Grounded on
// original_source/src/overlays/overlay_matching_tokens.cpp: same
// "use the token before the cursor, or the one right after if the
// cursor sits exactly between two of a matching type" disambiguation in
// StartFrame, same type-then-text equality check in the per-byte hook.
// Looks tokens up through the shared Token_Cache on every call rather
// than an incremental Forward_Token_Iterator (the source's perf-tuned
// approach) — simpler, and still Property 6-correct, at the cost of
// repeating a checkpoint replay per visible byte that changes token.
type MatchingTokens struct {
	Face  token.Face
	Types []token.Type

	enabled    bool
	cursorText []byte
	cursorType token.Type

	curTok     token.Token
	curMatches bool
	haveCurTok bool
}

// NewMatchingTokens returns a MatchingTokens overlay restricted to the
// given token types and painted with face.
func NewMatchingTokens(face token.Face, types []token.Type) *MatchingTokens {
	return &MatchingTokens{Face: face, Types: types}
}

func (m *MatchingTokens) StartFrame(buffer BufferView, window WindowView, start content.Iterator) error {
	m.enabled = false
	m.haveCurTok = false

	if window.ShowMarks() {
		return nil
	}

	contents := buffer.Contents()
	if contents.Len() == 0 {
		return nil
	}

	cur, _ := window.Cursors().Selected()
	point := cur.Point

	lookupPos := point
	if lookupPos > 0 {
		lookupPos--
	}

	tok, ok, err := buffer.TokenCache().GetTokenAt(contents, buffer.Log(), lookupPos)
	if err != nil {
		return err
	}

	if !ok || tok.Start > point {
		return nil
	}

	if point == tok.End {
		next, ok2, err := buffer.TokenCache().GetTokenAfter(contents, buffer.Log(), tok.End)
		if err != nil {
			return err
		}

		if ok2 && next.Start == point && isMatchingType(m.Types, next.Type) {
			tok = next
		}
	}

	if !isMatchingType(m.Types, tok.Type) {
		return nil
	}

	slice, err := contents.Slice(tok.Start, tok.End)
	if err != nil {
		return err
	}

	m.cursorText = []byte(slice.AsString())
	m.cursorType = tok.Type
	m.enabled = true

	return nil
}

func (m *MatchingTokens) GetFaceAndAdvance(buffer BufferView, window WindowView, it content.Iterator) (token.Face, error) {
	if !m.enabled {
		return token.Face{}, nil
	}

	if !m.haveCurTok || it.Position() >= m.curTok.End {
		tok, ok, err := buffer.TokenCache().GetTokenAt(buffer.Contents(), buffer.Log(), it.Position())
		if err != nil {
			return token.Face{}, err
		}

		if !ok {
			m.haveCurTok = false

			return token.Face{}, nil
		}

		m.curTok = tok
		m.haveCurTok = true
		m.curMatches = m.tokenMatches(buffer, tok)
	}

	if m.curMatches && m.curTok.Start <= it.Position() && it.Position() < m.curTok.End {
		return m.Face, nil
	}

	return token.Face{}, nil
}

func (m *MatchingTokens) tokenMatches(buffer BufferView, tok token.Token) bool {
	if tok.Type != m.cursorType {
		return false
	}

	if tok.End-tok.Start != len(m.cursorText) {
		return false
	}

	slice, err := buffer.Contents().Slice(tok.Start, tok.End)
	if err != nil {
		return false
	}

	return slice.AsString() == string(m.cursorText)
}

func (m *MatchingTokens) GetFaceNewlinePadding(BufferView, WindowView, content.Iterator) (token.Face, error) {
	return token.Face{}, nil
}

func (m *MatchingTokens) EndFrame() error { return nil }
func (m *MatchingTokens) Cleanup()        {}

func isMatchingType(types []token.Type, t token.Type) bool {
	for _, want := range types {
		if want == t {
			return true
		}
	}

	return false
}
