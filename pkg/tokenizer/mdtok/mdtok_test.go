package mdtok_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/token"
	"github.com/calvinalkan/mag/pkg/tokenizer/mdtok"
)

func tokenizeAll(t *testing.T, text string) []token.Token {
	t.Helper()

	c := content.NewFromBytes([]byte(text), 4096)
	it := c.Start()

	var state uint64

	var toks []token.Token

	for i := 0; i < 10000; i++ {
		tok, ok, err := mdtok.NextToken(&it, &state)
		require.NoError(t, err)

		if !ok {
			return toks
		}

		toks = append(toks, tok)
	}

	t.Fatal("tokenizer did not terminate")

	return nil
}

func sliceOf(text string, tok token.Token) string {
	return text[tok.Start:tok.End]
}

func TestHeadingIsTitleToken(t *testing.T) {
	text := "# Heading one\nbody text\n"
	toks := tokenizeAll(t, text)

	require.NotEmpty(t, toks)
	assert.Equal(t, token.Title, toks[0].Type)
	assert.Equal(t, "# Heading one", sliceOf(text, toks[0]))
}

func TestListMarkerIsPunctuation(t *testing.T) {
	text := "- item one\n"
	toks := tokenizeAll(t, text)

	require.NotEmpty(t, toks)
	assert.Equal(t, token.Punctuation, toks[0].Type)
	assert.Equal(t, "-", sliceOf(text, toks[0]))
}

func TestInlineCodeSpan(t *testing.T) {
	text := "run `make test` now\n"
	toks := tokenizeAll(t, text)

	var found bool

	for _, tok := range toks {
		if tok.Type == token.Code && sliceOf(text, tok) == "`make test`" {
			found = true
		}
	}

	assert.True(t, found, "expected an inline code token, got %+v", toks)
}

func TestFencedCodeBlock(t *testing.T) {
	text := "```go\nfunc main() {}\n```\n"
	toks := tokenizeAll(t, text)

	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.Punctuation, toks[0].Type)

	var sawCode, sawClosingFence bool

	for _, tok := range toks {
		if tok.Type == token.Code {
			sawCode = true
		}

		if tok.Type == token.Punctuation && sliceOf(text, tok) == "```" {
			sawClosingFence = true
		}
	}

	assert.True(t, sawCode)
	assert.True(t, sawClosingFence)
}

func TestLinkWithParenHref(t *testing.T) {
	text := "see [the docs](https://example.com/x) for more\n"
	toks := tokenizeAll(t, text)

	var title, href bool

	for _, tok := range toks {
		if tok.Type == token.LinkTitle && sliceOf(text, tok) == "[the docs]" {
			title = true
		}

		if tok.Type == token.LinkHref && sliceOf(text, tok) == "https://example.com/x" {
			href = true
		}
	}

	assert.True(t, title, "expected link title token, got %+v", toks)
	assert.True(t, href, "expected link href token, got %+v", toks)
}

func TestLinkWithReferenceHref(t *testing.T) {
	text := "[ref]: https://example.com/y\n"
	toks := tokenizeAll(t, text)

	var href bool

	for _, tok := range toks {
		if tok.Type == token.LinkHref && sliceOf(text, tok) == "https://example.com/y" {
			href = true
		}
	}

	assert.True(t, href, "expected link href token, got %+v", toks)
}

func TestTokensCoverEntireBuffer(t *testing.T) {
	text := "# Title\n\nSome *text* with `code` and [a](b).\n"
	toks := tokenizeAll(t, text)

	require.NotEmpty(t, toks)

	pos := 0
	for _, tok := range toks {
		assert.Equal(t, pos, tok.Start)
		pos = tok.End
	}

	assert.Equal(t, len(text), pos)
}
