package overlay

import (
	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/search"
	"github.com/calvinalkan/mag/pkg/token"
)

// MatchingAlgo picks how HighlightString's optional token-type
// restriction interacts with a match's position inside its token.
type MatchingAlgo int

const (
	// Contains allows a match to start anywhere inside a token of the
	// restricted type.
	Contains MatchingAlgo = iota
	// ExactMatch requires the match to be the token's entire span.
	ExactMatch
	// Prefix requires the match to start at the token's start.
	Prefix
	// Suffix requires the match to end at the token's end.
	Suffix
)

// AnyTokenType disables HighlightString's token-type restriction,
// matching anywhere regardless of token boundaries.
const AnyTokenType = token.Type(^uint64(0))

// HighlightString paints every occurrence of a fixed string, optionally
// restricted to occurrences that sit inside a token of a given type at
// a position consistent with MatchingAlgo — used to light up, say, only
// the Build_Panel lines matching a severity string rather than every
// byte-for-byte occurrence in the buffer.
//
// Grounded on
// original_source/src/overlays/overlay_highlight_string.cpp: same
// token-type gate (Token_Type::length stands in for "no restriction"
// here as AnyTokenType) and the same four Matching_Algo variants.
type HighlightString struct {
	Query        []byte
	Face         token.Face
	CaseHandling search.CaseHandling
	TokenType    token.Type
	Algo         MatchingAlgo

	enabled   bool
	countdown int

	haveTok bool
	curTok  token.Token
}

// NewHighlightString returns a HighlightString overlay.
func NewHighlightString(query string, face token.Face, caseHandling search.CaseHandling, tokenType token.Type, algo MatchingAlgo) *HighlightString {
	return &HighlightString{Query: []byte(query), Face: face, CaseHandling: caseHandling, TokenType: tokenType, Algo: algo}
}

func (h *HighlightString) StartFrame(buffer BufferView, window WindowView, start content.Iterator) error {
	h.enabled = true
	h.countdown = 0
	h.haveTok = false

	if h.TokenType == AnyTokenType {
		return nil
	}

	tok, ok, err := buffer.TokenCache().GetTokenAt(buffer.Contents(), buffer.Log(), start.Position())
	if err != nil {
		return err
	}

	if !ok {
		h.enabled = false

		return nil
	}

	h.curTok = tok
	h.haveTok = true

	return nil
}

func (h *HighlightString) GetFaceAndAdvance(buffer BufferView, window WindowView, it content.Iterator) (token.Face, error) {
	if !h.enabled {
		return token.Face{}, nil
	}

	if h.countdown > 0 {
		h.countdown--
	}

	if h.countdown == 0 {
		if h.TokenType != AnyTokenType {
			if !h.haveTok || it.Position() >= h.curTok.End {
				tok, ok, err := buffer.TokenCache().GetTokenAt(buffer.Contents(), buffer.Log(), it.Position())
				if err != nil {
					return token.Face{}, err
				}

				if !ok {
					h.enabled = false

					return token.Face{}, nil
				}

				h.curTok = tok
				h.haveTok = true
			}

			if h.curTok.Type != h.TokenType {
				return token.Face{}, nil
			}

			if !h.positionSatisfiesAlgo(it.Position()) {
				return token.Face{}, nil
			}
		}

		ok, err := search.LookingAtCased(it, h.Query, h.CaseHandling)
		if err != nil {
			return token.Face{}, err
		}

		if ok {
			h.countdown = len(h.Query)
		}
	}

	if h.countdown > 0 {
		return h.Face, nil
	}

	return token.Face{}, nil
}

func (h *HighlightString) positionSatisfiesAlgo(position int) bool {
	switch h.Algo {
	case Contains:
		return position >= h.curTok.Start
	case ExactMatch:
		return position == h.curTok.Start && h.curTok.End-h.curTok.Start == len(h.Query)
	case Prefix:
		return position == h.curTok.Start
	case Suffix:
		return position+len(h.Query) == h.curTok.End
	default:
		return true
	}
}

func (h *HighlightString) GetFaceNewlinePadding(BufferView, WindowView, content.Iterator) (token.Face, error) {
	return token.Face{}, nil
}

func (h *HighlightString) EndFrame() error { return nil }
func (h *HighlightString) Cleanup()        {}
