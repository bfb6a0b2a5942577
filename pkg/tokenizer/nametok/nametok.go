// Package nametok tokenises buffer names, recognising the three forms
// spec.md §6 names: "/path/to/file", "*temp name*", and
// "*temp name* (/path/to/directory)".
//
// Grounded on original_source/src/syntax/tokenize_buffer_name.cpp.
package nametok

import (
	"github.com/calvinalkan/mag/pkg/token"
	"github.com/calvinalkan/mag/pkg/tokenizer"
)

// State values. 0 is the tokeniser's initial state (spec.md §4.6).
const (
	stateInitial  uint64 = 0
	stateAfterStar       = 1
	stateInPath          = 2
)

// NextToken implements tokenizer.TokenizeFunc for buffer names.
func NextToken(it tokenizer.Iterator, state *uint64) (token.Token, bool, error) {
	if it.AtEOB() {
		return token.Token{}, false, nil
	}

	firstCh, _, err := it.Get()
	if err != nil {
		return token.Token{}, false, err
	}

	start := it.Position()
	if err := it.Advance(); err != nil {
		return token.Token{}, false, err
	}

	var tok token.Token

	switch {
	case *state == stateInitial && firstCh == '*':
		if found, err := findLiteral(it, "* ("); err != nil {
			return token.Token{}, false, err
		} else if found {
			if err := it.Advance(); err != nil {
				return token.Token{}, false, err
			}
		}

		tok.Type = token.BufferTemporaryName
		*state = stateAfterStar

	case *state == stateAfterStar:
		if firstCh == ' ' {
			start++

			if err := skipOneIfNotEOB(it); err != nil {
				return token.Token{}, false, err
			}
		}

		tok.Type = token.OpenPair
		*state = stateInPath

	case firstCh == ')' && it.AtEOB():
		*state = stateInPath
		tok.Type = token.ClosePair

	case isDirSep(firstCh):
		*state = stateInPath
		tok.Type = token.Punctuation

	default:
		*state = stateInPath
		tok.Type = token.Default

		for !it.AtEOB() {
			b, _, err := it.Get()
			if err != nil {
				return token.Token{}, false, err
			}

			if isDirSep(b) {
				break
			}

			if err := it.Advance(); err != nil {
				return token.Token{}, false, err
			}
		}
	}

	tok.Start = start
	tok.End = it.Position()

	return tok, true, nil
}

func isDirSep(b byte) bool {
	return b == '/'
}

func skipOneIfNotEOB(it tokenizer.Iterator) error {
	if it.AtEOB() {
		return nil
	}

	return it.Advance()
}

// findLiteral scans forward from it's current position for lit, leaving
// it at the start of the match (not consumed) on success, or at eob on
// failure.
func findLiteral(it tokenizer.Iterator, lit string) (bool, error) {
	origin := it.Position()

	for !it.AtEOB() {
		pos := it.Position()

		ok, err := matchesAt(it, lit)
		if err != nil {
			return false, err
		}

		if ok {
			if err := it.GoTo(pos); err != nil {
				return false, err
			}

			return true, nil
		}

		if err := it.GoTo(pos); err != nil {
			return false, err
		}

		if err := it.Advance(); err != nil {
			return false, err
		}
	}

	_ = origin

	return false, nil
}

func matchesAt(it tokenizer.Iterator, lit string) (bool, error) {
	pos := it.Position()

	for i := 0; i < len(lit); i++ {
		if it.AtEOB() {
			return false, it.GoTo(pos)
		}

		b, _, err := it.Get()
		if err != nil {
			return false, err
		}

		if b != lit[i] {
			return false, it.GoTo(pos)
		}

		if err := it.Advance(); err != nil {
			return false, err
		}
	}

	return true, it.GoTo(pos)
}
