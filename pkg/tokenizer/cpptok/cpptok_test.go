package cpptok_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/token"
	"github.com/calvinalkan/mag/pkg/tokenizer/cpptok"
)

func tokenizeAll(t *testing.T, text string, bucketCap int) []token.Token {
	t.Helper()

	c := content.NewFromBytes([]byte(text), bucketCap)
	it := c.Start()

	var state uint64

	var toks []token.Token

	for i := 0; i < 100000; i++ {
		tok, ok, err := cpptok.NextToken(&it, &state)
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

func TestKeywordsAndTypes(t *testing.T) {
	text := "struct Foo { int x; };"
	toks := tokenizeAll(t, text, 4096)

	require.NotEmpty(t, toks)
	require.Equal(t, token.TypeName, toks[0].Type)
	require.Equal(t, "struct", sliceOf(text, toks[0]))
}

func TestLineAndBlockComments(t *testing.T) {
	text := "// hello\nint x; /* block */ int y;"
	toks := tokenizeAll(t, text, 4096)

	var sawLine, sawBlock bool

	for _, tok := range toks {
		if tok.Type == token.Comment {
			s := sliceOf(text, tok)
			if strings.HasPrefix(s, "//") {
				sawLine = true
			}

			if strings.HasPrefix(s, "/*") {
				sawBlock = true
			}
		}
	}

	require.True(t, sawLine)
	require.True(t, sawBlock)
}

func TestPreprocessorDirective(t *testing.T) {
	text := "#include <stdio.h>\nint main() {}"
	toks := tokenizeAll(t, text, 4096)

	require.NotEmpty(t, toks)
	require.Equal(t, token.PreprocessorIf, toks[0].Type)
}

func TestStringLiteral(t *testing.T) {
	text := `x = "hello world";`
	toks := tokenizeAll(t, text, 4096)

	var found bool

	for _, tok := range toks {
		if tok.Type == token.String {
			require.Equal(t, `"hello world"`, sliceOf(text, tok))

			found = true
		}
	}

	require.True(t, found)
}

// TestUnterminatedBlockCommentSelfThrottles is the contract's bounded
// per-call work requirement (spec.md §4.6): an unterminated block
// comment must not force one tokenize call to scan the whole buffer.
func TestUnterminatedBlockCommentSelfThrottles(t *testing.T) {
	text := "/* " + strings.Repeat("x", 10000)
	c := content.NewFromBytes([]byte(text), 64)
	it := c.Start()

	var state uint64

	tok, ok, err := cpptok.NextToken(&it, &state)
	require.NoError(t, err)
	require.True(t, ok)
	require.Less(t, tok.End, len(text))
}

// TestAdditivity is Testable Property 6: resuming tokenisation from a
// mid-stream state reproduces the same tokens a full run from position 0
// would produce for the remainder of the stream.
func TestAdditivity(t *testing.T) {
	text := "struct Foo {\n  int x;\n  char* name;\n};\nint main() {\n  return 0;\n}\n"

	full := tokenizeAll(t, text, 4096)
	require.NotEmpty(t, full)

	// Replay state from partway through and compare the tail.
	mid := len(full) / 2

	c := content.NewFromBytes([]byte(text), 4096)
	it := c.Start()

	var state uint64

	for i := 0; i < mid; i++ {
		_, ok, err := cpptok.NextToken(&it, &state)
		require.NoError(t, err)
		require.True(t, ok)
	}

	var resumed []token.Token

	for {
		tok, ok, err := cpptok.NextToken(&it, &state)
		require.NoError(t, err)

		if !ok {
			break
		}

		resumed = append(resumed, tok)
	}

	require.Equal(t, full[mid:], resumed)
}
