package ssostr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/ssostr"
)

func TestFromConstantInlinesShortValues(t *testing.T) {
	s := ssostr.FromConstant([]byte("hi"))

	assert.True(t, s.IsInline())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "hi", s.AsString())
}

func TestFromConstantSpillsLongValues(t *testing.T) {
	long := make([]byte, 64)
	for i := range long {
		long[i] = byte('a' + i%26)
	}

	s := ssostr.FromConstant(long)

	require.False(t, s.IsInline())
	assert.Equal(t, len(long), s.Len())
	assert.Equal(t, long, s.Bytes())
}

func TestAsDuplicateCopiesBytes(t *testing.T) {
	src := []byte("mutate me")
	s := ssostr.AsDuplicate(src)
	src[0] = 'X'

	assert.Equal(t, "mutate me", s.AsString())
}

func TestFromCharAndEqual(t *testing.T) {
	a := ssostr.FromChar('x')
	b := ssostr.FromConstant([]byte("x"))

	assert.True(t, a.Equal(b))
	assert.Equal(t, 1, a.Len())
}

func TestCompareIsLexicographic(t *testing.T) {
	a := ssostr.FromConstant([]byte("abc"))
	b := ssostr.FromConstant([]byte("abd"))

	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(a))
}
