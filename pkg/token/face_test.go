package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/token"
)

func TestEncodeDecodeFaceRGB(t *testing.T) {
	f := token.Face{
		Flags:             token.Flags{Bold: true, Italics: true},
		ForegroundIsColor: true,
		ForegroundRGB:     [3]byte{0x10, 0x20, 0x30},
		BackgroundIsColor: true,
		BackgroundRGB:     [3]byte{0x40, 0x50, 0x60},
	}

	encoded := token.EncodeFace(f)
	assert.True(t, token.IsCustom(encoded))

	got, ok := token.DecodeFace(encoded)
	require.True(t, ok)
	assert.Equal(t, f, got)
}

func TestEncodeDecodeFaceThemed(t *testing.T) {
	f := token.Face{
		Flags:            token.Flags{Reverse: true, Invisible: true},
		ForegroundThemed: -5,
		BackgroundThemed: 12,
	}

	encoded := token.EncodeFace(f)

	got, ok := token.DecodeFace(encoded)
	require.True(t, ok)
	assert.Equal(t, f, got)
}

func TestDecodeFaceRejectsNonCustom(t *testing.T) {
	_, ok := token.DecodeFace(token.Keyword)
	assert.False(t, ok)
}

func TestEncodeDecodeRoundTripIsExactInverse(t *testing.T) {
	faces := []token.Face{
		{},
		{Flags: token.Flags{Bold: true, Underscore: true, Reverse: true, Italics: true, Invisible: true}},
		{ForegroundIsColor: true, ForegroundRGB: [3]byte{1, 2, 3}, BackgroundThemed: -1},
		{ForegroundThemed: 32767, BackgroundIsColor: true, BackgroundRGB: [3]byte{255, 0, 128}},
	}

	for _, f := range faces {
		encoded := token.EncodeFace(f)
		got, ok := token.DecodeFace(encoded)
		require.True(t, ok)
		assert.Equal(t, f, got)
	}
}
