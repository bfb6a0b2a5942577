// Package cpptok tokenises a reduced C-family grammar (identifiers,
// keywords, numbers, strings, line/block comments, preprocessor
// directives, punctuation and pair tokens). Its 64-bit state packs the
// three independent sub-state machines spec.md §4.6 names for the C++
// tokeniser: a comment sub-state, a preprocessor sub-state, and a syntax
// sub-state deciding KEYWORD vs TYPE classification for a bare
// identifier.
//
// Grounded on original_source/src/syntax/tokenize_cplusplus.cpp's
// State{comment, preprocessor, syntax} bitfield struct and its
// handle_comment -> handle_preprocessor -> dispatch chain, reduced to the
// constructs that exercise the contract (pkg/tokenizer) end to end rather
// than the source's full state space (~20 comment sub-states alone).
package cpptok

import (
	"github.com/calvinalkan/mag/pkg/token"
	"github.com/calvinalkan/mag/pkg/tokenizer"
)

// Sub-state enums, packed into the low bits of the opaque uint64 state.
const (
	commentNone uint64 = iota
	commentLine
	commentBlock
)

const (
	preprocessorNone uint64 = iota
	preprocessorAfterHash
	preprocessorAfterInclude
	preprocessorInsideMacroBody
	preprocessorInsideParamList
)

const (
	syntaxAtStmt uint64 = iota
	syntaxInExpr
	syntaxAtType
	syntaxAfterType
	syntaxAfterDecl
)

const (
	commentBits      = 2
	preprocessorBits = 3

	commentShift      = 0
	preprocessorShift = commentShift + commentBits
	syntaxShift       = preprocessorShift + preprocessorBits

	commentMask      = (1 << commentBits) - 1
	preprocessorMask = (1 << preprocessorBits) - 1
	syntaxMask       = 0x7
)

func unpack(state uint64) (comment, preprocessor, syntax uint64) {
	return (state >> commentShift) & commentMask,
		(state >> preprocessorShift) & preprocessorMask,
		(state >> syntaxShift) & syntaxMask
}

func pack(comment, preprocessor, syntax uint64) uint64 {
	return (comment & commentMask) << commentShift |
		(preprocessor & preprocessorMask) << preprocessorShift |
		(syntax & syntaxMask) << syntaxShift
}

var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "default": true, "break": true,
	"continue": true, "return": true, "goto": true, "sizeof": true,
	"new": true, "delete": true, "namespace": true, "using": true,
	"public": true, "private": true, "protected": true, "template": true,
	"typename": true, "static": true, "const": true, "constexpr": true,
	"virtual": true, "override": true, "inline": true, "extern": true,
}

var typeKeywords = map[string]bool{
	"struct": true, "class": true, "enum": true, "union": true,
	"void": true, "int": true, "char": true, "bool": true, "float": true,
	"double": true, "long": true, "short": true, "unsigned": true,
	"signed": true, "auto": true,
}

// NextToken implements tokenizer.TokenizeFunc for the reduced C-family
// grammar.
func NextToken(it tokenizer.Iterator, state *uint64) (token.Token, bool, error) {
	if it.AtEOB() {
		return token.Token{}, false, nil
	}

	comment, preprocessor, syntax := unpack(*state)

	if comment == commentLine {
		return resumeLineComment(it, &comment, &preprocessor, &syntax, state)
	}

	if comment == commentBlock {
		return resumeBlockComment(it, &comment, &preprocessor, &syntax, state)
	}

	for {
		if it.AtEOB() {
			return token.Token{}, false, nil
		}

		ch, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if isSpace(ch) {
			if ch == '\n' && preprocessor != preprocessorNone {
				preprocessor = preprocessorNone
				syntax = syntaxAtStmt
			}

			if err := it.Advance(); err != nil {
				return token.Token{}, false, err
			}

			continue
		}

		break
	}

	start := it.Position()

	ch, _, err := it.Get()
	if err != nil {
		return token.Token{}, false, err
	}

	switch {
	case ch == '/':
		return beginComment(it, start, &comment, &preprocessor, &syntax, state)
	case ch == '#' && preprocessor == preprocessorNone:
		return hashDirective(it, start, &comment, &preprocessor, &syntax, state)
	case ch == '"' || ch == '\'':
		return stringLiteral(it, start, ch, &comment, &preprocessor, &syntax, state)
	case isDigit(ch):
		return number(it, start, &comment, &preprocessor, &syntax, state)
	case isIdentStart(ch):
		return identifierOrKeyword(it, start, &comment, &preprocessor, &syntax, state)
	case isOpenPair(ch):
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		syntax = syntaxAtStmt

		return finish(start, it.Position(), token.OpenPair, &comment, &preprocessor, &syntax, state), true, nil
	case isClosePair(ch):
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		syntax = syntaxAfterType

		return finish(start, it.Position(), token.ClosePair, &comment, &preprocessor, &syntax, state), true, nil
	default:
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		return finish(start, it.Position(), token.Punctuation, &comment, &preprocessor, &syntax, state), true, nil
	}
}

func finish(start, end int, typ token.Type, comment, preprocessor, syntax *uint64, state *uint64) token.Token {
	*state = pack(*comment, *preprocessor, *syntax)

	return token.Token{Start: start, End: end, Type: typ}
}

func beginComment(it tokenizer.Iterator, start int, comment, preprocessor, syntax *uint64, state *uint64) (token.Token, bool, error) {
	if err := it.Advance(); err != nil {
		return token.Token{}, false, err
	}

	next, ok, err := it.Get()
	if err != nil {
		return token.Token{}, false, err
	}

	switch {
	case ok && next == '/':
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		*comment = commentLine

		tok, ok, err := resumeLineComment(it, comment, preprocessor, syntax, state)
		tok.Start = start

		return tok, ok, err
	case ok && next == '*':
		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		*comment = commentBlock

		tok, ok, err := resumeBlockComment(it, comment, preprocessor, syntax, state)
		tok.Start = start

		return tok, ok, err
	default:
		return finish(start, it.Position(), token.Punctuation, comment, preprocessor, syntax, state), true, nil
	}
}

// resumeLineComment consumes to end-of-line (exclusive) and closes the
// comment sub-state; a line comment cannot span a bucket boundary longer
// than the line itself so no separate throttle is needed here.
func resumeLineComment(it tokenizer.Iterator, comment, preprocessor, syntax *uint64, state *uint64) (token.Token, bool, error) {
	start := it.Position()
	typ := token.Comment

	if looksLikeDocCommentStart(it) {
		typ = token.DocComment
	}

	for {
		if it.AtEOB() {
			*comment = commentNone

			return finish(start, it.Position(), typ, comment, preprocessor, syntax, state), true, nil
		}

		ch, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if ch == '\n' {
			*comment = commentNone

			return finish(start, it.Position(), typ, comment, preprocessor, syntax, state), true, nil
		}

		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}
	}
}

func looksLikeDocCommentStart(it tokenizer.Iterator) bool {
	b, ok, err := it.Get()

	return err == nil && ok && b == '/'
}

// resumeBlockComment scans to the closing "*/", self-throttling at the
// current bucket boundary per the tokeniser contract's bounded-work
// requirement: an unterminated block comment must not stall a single
// call on an arbitrarily large buffer.
func resumeBlockComment(it tokenizer.Iterator, comment, preprocessor, syntax *uint64, state *uint64) (token.Token, bool, error) {
	start := it.Position()
	bucket := it.Bucket()

	prevCh := byte(0)

	for {
		if it.AtEOB() {
			return finish(start, it.Position(), token.Comment, comment, preprocessor, syntax, state), true, nil
		}

		if it.Bucket() != bucket && prevCh != '*' {
			// Throttle: yield an interior token rather than scanning an
			// unbounded number of further buckets for an unterminated
			// comment. comment sub-state stays commentBlock so the next
			// call resumes the scan. A '*' just before the boundary is
			// read past first, so a "*/" split across buckets still
			// closes the comment.
			return finish(start, it.Position(), token.Comment, comment, preprocessor, syntax, state), true, nil
		}

		ch, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		if prevCh == '*' && ch == '/' {
			*comment = commentNone

			return finish(start, it.Position(), token.Comment, comment, preprocessor, syntax, state), true, nil
		}

		prevCh = ch
	}
}

func hashDirective(it tokenizer.Iterator, start int, comment, preprocessor, syntax *uint64, state *uint64) (token.Token, bool, error) {
	if err := it.Advance(); err != nil {
		return token.Token{}, false, err
	}

	*preprocessor = preprocessorAfterHash

	typ := token.PreprocessorIf

	word := readWord(it)

	switch word {
	case "include":
		*preprocessor = preprocessorAfterInclude
	case "if", "ifdef", "ifndef":
		typ = token.PreprocessorIf
	case "else", "elif":
		typ = token.PreprocessorElse
	case "endif":
		typ = token.PreprocessorEndif
		*preprocessor = preprocessorNone
	case "define":
		*preprocessor = preprocessorInsideMacroBody
	}

	if err := skipWord(it); err != nil {
		return token.Token{}, false, err
	}

	return finish(start, it.Position(), typ, comment, preprocessor, syntax, state), true, nil
}

func readWord(it tokenizer.Iterator) string {
	var b []byte

	pos := it.Position()

	for {
		buf, err := it.BucketBytes()
		if err != nil || buf == nil {
			break
		}

		idx := it.Index()
		if idx >= len(buf) || !isIdentPart(buf[idx]) {
			break
		}

		b = append(b, buf[idx])

		if err := it.AdvanceN(1); err != nil {
			break
		}
	}

	if err := it.GoTo(pos); err != nil {
		return ""
	}

	return string(b)
}

func skipWord(it tokenizer.Iterator) error {
	for !it.AtEOB() {
		b, _, err := it.Get()
		if err != nil {
			return err
		}

		if !isIdentPart(b) {
			return nil
		}

		if err := it.Advance(); err != nil {
			return err
		}
	}

	return nil
}

func stringLiteral(it tokenizer.Iterator, start int, quote byte, comment, preprocessor, syntax *uint64, state *uint64) (token.Token, bool, error) {
	if err := it.Advance(); err != nil {
		return token.Token{}, false, err
	}

	bucket := it.Bucket()

	for {
		if it.AtEOB() {
			break
		}

		if it.Bucket() != bucket {
			// Self-throttle on an unterminated string the same way a
			// block comment does.
			break
		}

		ch, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}

		if ch == '\\' {
			if !it.AtEOB() {
				if err := it.Advance(); err != nil {
					return token.Token{}, false, err
				}
			}

			continue
		}

		if ch == quote {
			break
		}
	}

	*syntax = syntaxAfterDecl

	return finish(start, it.Position(), token.String, comment, preprocessor, syntax, state), true, nil
}

func number(it tokenizer.Iterator, start int, comment, preprocessor, syntax *uint64, state *uint64) (token.Token, bool, error) {
	for !it.AtEOB() {
		ch, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if !isDigit(ch) && ch != '.' && ch != 'x' && ch != 'X' &&
			!(ch >= 'a' && ch <= 'f') && !(ch >= 'A' && ch <= 'F') {
			break
		}

		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}
	}

	*syntax = syntaxAfterDecl

	return finish(start, it.Position(), token.Number, comment, preprocessor, syntax, state), true, nil
}

func identifierOrKeyword(it tokenizer.Iterator, start int, comment, preprocessor, syntax *uint64, state *uint64) (token.Token, bool, error) {
	for !it.AtEOB() {
		ch, _, err := it.Get()
		if err != nil {
			return token.Token{}, false, err
		}

		if !isIdentPart(ch) {
			break
		}

		if err := it.Advance(); err != nil {
			return token.Token{}, false, err
		}
	}

	end := it.Position()

	word, err := sliceBack(it, start, end)
	if err != nil {
		return token.Token{}, false, err
	}

	typ := token.Identifier

	switch {
	case typeKeywords[word]:
		typ = token.TypeName
		*syntax = syntaxAtType
	case keywords[word]:
		typ = token.Keyword
		*syntax = syntaxAtStmt
	case *syntax == syntaxAtType:
		typ = token.TypeName
		*syntax = syntaxAfterType
	default:
		*syntax = syntaxInExpr
	}

	return finish(start, end, typ, comment, preprocessor, syntax, state), true, nil
}

// sliceBack reads [start, end) back out of the iterator's own buckets
// without materialising a copy via the content store directly, per the
// contract's "state must capture everything needed, no reads before the
// iterator" rule applied to re-reading a span it has already walked.
func sliceBack(it tokenizer.Iterator, start, end int) (string, error) {
	cur := it.Position()

	if err := it.GoTo(start); err != nil {
		return "", err
	}

	b := make([]byte, 0, end-start)

	for it.Position() < end {
		buf, err := it.BucketBytes()
		if err != nil {
			return "", err
		}

		idx := it.Index()
		b = append(b, buf[idx])

		if err := it.AdvanceN(1); err != nil {
			return "", err
		}
	}

	return string(b), it.GoTo(cur)
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentPart(b byte) bool { return isIdentStart(b) || isDigit(b) }
func isOpenPair(b byte) bool  { return b == '(' || b == '{' || b == '[' }
func isClosePair(b byte) bool { return b == ')' || b == '}' || b == ']' }
