// Package mdtok tokenises Markdown: headings, list markers, fenced code
// blocks, inline code, and link title/href pairs. State packs a small
// start-of-line/middle-of-line/in-code-block/in-link automaton into the
// tokeniser contract's uint64, per spec.md §4.6's description of the
// comment sub-state ("markdown heading / list prefix detection").
//
// Grounded on original_source/src/syntax/tokenize_markdown.cpp's
// START_OF_LINE / MIDDLE_OF_LINE / TITLE / AFTER_LINK_TITLE /
// BEFORE_LINK_HREF_LINE / BEFORE_LINK_HREF_PAREN states, reduced to the
// constructs most exercised by the rest of the domain.
package mdtok

import (
	"github.com/calvinalkan/mag/pkg/token"
	"github.com/calvinalkan/mag/pkg/tokenizer"
)

const (
	stateStartOfLine uint64 = iota
	stateMiddleOfLine
	stateStartOfLineInCodeBlock
	stateAfterLinkTitle
	stateBeforeLinkHrefParen
	stateBeforeLinkHrefLine
)

// NextToken implements tokenizer.TokenizeFunc for Markdown.
func NextToken(it tokenizer.Iterator, state *uint64) (token.Token, bool, error) {
	if it.AtEOB() {
		return token.Token{}, false, nil
	}

	switch *state {
	case stateAfterLinkTitle:
		return afterLinkTitle(it, state)
	case stateBeforeLinkHrefParen:
		return linkHref(it, state, ')', stateMiddleOfLine)
	case stateBeforeLinkHrefLine:
		return linkHref(it, state, '\n', stateStartOfLine)
	case stateStartOfLineInCodeBlock:
		return startOfLineInCodeBlock(it, state)
	case stateStartOfLine:
		return startOfLine(it, state)
	default:
		return middleOfLine(it, state)
	}
}

func startOfLine(it tokenizer.Iterator, state *uint64) (token.Token, bool, error) {
	start := it.Position()

	ch, _, err := it.Get()
	if err != nil {
		return token.Token{}, false, err
	}

	switch {
	case ch == '#':
		return consumeRestOfLine(it, start, token.Title)
	case hasPrefixAt(it, "```"):
		if err := it.AdvanceN(3); err != nil {
			return token.Token{}, false, err
		}

		consumeUntilByte(it, '\n')
		*state = stateStartOfLineInCodeBlock

		return token.Token{Start: start, End: it.Position(), Type: token.Punctuation}, true, nil
	case ch == '-' || ch == '*' || ch == '+':
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		*state = stateMiddleOfLine

		return token.Token{Start: start, End: it.Position(), Type: token.Punctuation}, true, nil
	default:
		*state = stateMiddleOfLine

		return middleOfLineAt(it, state, start, ch)
	}
}

func startOfLineInCodeBlock(it tokenizer.Iterator, state *uint64) (token.Token, bool, error) {
	start := it.Position()

	ch, _, err := it.Get()
	if err != nil {
		return token.Token{}, false, err
	}

	if ch == '\n' {
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		return token.Token{Start: start, End: it.Position(), Type: token.Default}, true, nil
	}

	if hasPrefixAt(it, "```") {
		if err := it.AdvanceN(3); err != nil {
			return token.Token{}, false, err
		}

		*state = stateStartOfLine

		return token.Token{Start: start, End: it.Position(), Type: token.Punctuation}, true, nil
	}

	consumeUntilByte(it, '\n')

	return token.Token{Start: start, End: it.Position(), Type: token.Code}, true, nil
}

func middleOfLine(it tokenizer.Iterator, state *uint64) (token.Token, bool, error) {
	start := it.Position()

	ch, _, err := it.Get()
	if err != nil {
		return token.Token{}, false, err
	}

	return middleOfLineAt(it, state, start, ch)
}

func middleOfLineAt(it tokenizer.Iterator, state *uint64, start int, ch byte) (token.Token, bool, error) {
	switch ch {
	case '\n':
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		*state = stateStartOfLine

		return token.Token{Start: start, End: it.Position(), Type: token.Default}, true, nil
	case '`':
		return inlineCode(it, start)
	case '[':
		return linkTitle(it, state, start)
	default:
		*state = stateMiddleOfLine

		return consumePlainRun(it, start)
	}
}

func inlineCode(it tokenizer.Iterator, start int) (token.Token, bool, error) {
	if err := it.Advance(); err != nil {
		return token.Token{}, false, err
	}

	for !it.AtEOB() {
		b, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if b == '`' {
			if err := it.Advance(); err != nil {
				return token.Token{}, false, err
			}

			break
		}

		if b == '\n' {
			break
		}

		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}
	}

	return token.Token{Start: start, End: it.Position(), Type: token.Code}, true, nil
}

func linkTitle(it tokenizer.Iterator, state *uint64, start int) (token.Token, bool, error) {
	if err := it.Advance(); err != nil {
		return token.Token{}, false, err
	}

	for {
		if it.AtEOB() {
			*state = stateMiddleOfLine

			return token.Token{Start: start, End: it.Position(), Type: token.Default}, true, nil
		}

		b, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if b == '\n' {
			*state = stateStartOfLine

			return token.Token{Start: start, End: it.Position(), Type: token.Default}, true, nil
		}

		if b == ']' {
			if err := it.Advance(); err != nil {
				return token.Token{}, false, err
			}

			*state = stateAfterLinkTitle

			return token.Token{Start: start, End: it.Position(), Type: token.LinkTitle}, true, nil
		}

		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}
	}
}

func afterLinkTitle(it tokenizer.Iterator, state *uint64) (token.Token, bool, error) {
	start := it.Position()

	ch, _, err := it.Get()
	if err != nil {
		return token.Token{}, false, err
	}

	switch ch {
	case '(':
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		*state = stateBeforeLinkHrefParen

		return token.Token{Start: start, End: it.Position(), Type: token.OpenPair}, true, nil
	case ':':
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		skipSpaces(it)
		*state = stateBeforeLinkHrefLine

		return token.Token{Start: start, End: it.Position(), Type: token.Punctuation}, true, nil
	default:
		*state = stateMiddleOfLine

		return middleOfLineAt(it, state, start, ch)
	}
}

// linkHref consumes up to but not including stopAt, leaving it positioned
// there so the closing delimiter is tokenised by the following call (kept
// contiguous with the rest of the stream rather than silently swallowed).
func linkHref(it tokenizer.Iterator, state *uint64, stopAt byte, next uint64) (token.Token, bool, error) {
	start := it.Position()

	for !it.AtEOB() {
		b, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if b == stopAt {
			break
		}

		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}
	}

	*state = next

	return token.Token{Start: start, End: it.Position(), Type: token.LinkHref}, true, nil
}

func consumeRestOfLine(it tokenizer.Iterator, start int, typ token.Type) (token.Token, bool, error) {
	consumeUntilByte(it, '\n')

	return token.Token{Start: start, End: it.Position(), Type: typ}, true, nil
}

func consumePlainRun(it tokenizer.Iterator, start int) (token.Token, bool, error) {
	for !it.AtEOB() {
		b, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if b == '\n' || b == '`' || b == '[' {
			break
		}

		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}
	}

	return token.Token{Start: start, End: it.Position(), Type: token.Default}, true, nil
}

func consumeUntilByte(it tokenizer.Iterator, target byte) {
	for !it.AtEOB() {
		b, _, err := it.Get()
		if err != nil || b == target {
			return
		}

		if err := it.Advance(); err != nil {
			return
		}
	}
}

func skipSpaces(it tokenizer.Iterator) {
	for !it.AtEOB() {
		b, _, err := it.Get()
		if err != nil || b != ' ' {
			return
		}

		if err := it.Advance(); err != nil {
			return
		}
	}
}

func hasPrefixAt(it tokenizer.Iterator, prefix string) bool {
	start := it.Position()

	for i := 0; i < len(prefix); i++ {
		if it.AtEOB() {
			_ = it.GoTo(start)

			return false
		}

		b, _, err := it.Get()
		if err != nil || b != prefix[i] {
			_ = it.GoTo(start)

			return false
		}

		if err := it.Advance(); err != nil {
			_ = it.GoTo(start)

			return false
		}
	}

	_ = it.GoTo(start)

	return true
}
