package nametok_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/token"
	"github.com/calvinalkan/mag/pkg/tokenizer/nametok"
)

func tokenizeAll(t *testing.T, name string) []token.Token {
	t.Helper()

	c := content.NewFromBytes([]byte(name), 4096)
	it := c.Start()

	var state uint64

	var toks []token.Token

	for {
		tok, ok, err := nametok.NextToken(&it, &state)
		require.NoError(t, err)

		if !ok {
			break
		}

		toks = append(toks, tok)
	}

	return toks
}

func TestPlainPathName(t *testing.T) {
	toks := tokenizeAll(t, "/path/to/file")

	require.NotEmpty(t, toks)
	assert.Equal(t, token.Punctuation, toks[0].Type)
}

func TestTemporaryNameOnly(t *testing.T) {
	toks := tokenizeAll(t, "*scratch*")

	require.Len(t, toks, 1)
	assert.Equal(t, token.BufferTemporaryName, toks[0].Type)
	assert.Equal(t, "*scratch*", string("*scratch*")[toks[0].Start:toks[0].End])
}

func TestTemporaryNameWithDirectory(t *testing.T) {
	toks := tokenizeAll(t, "*scratch* (/tmp/proj)")

	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.BufferTemporaryName, toks[0].Type)
	assert.Equal(t, token.OpenPair, toks[1].Type)
}
