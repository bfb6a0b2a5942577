// Package ssostr implements the small-string-optimised immutable byte value
// used as the payload of an Edit. Short values are stored inline in the
// struct; longer values hold a slice into a per-transaction arena. Either
// way an SSOStr is a value type: copying it never copies the underlying
// bytes for the arena case.
package ssostr

import "bytes"

// inlineCap is the largest payload stored without touching an arena.
// SSOStr is the inline array plus a slice header and a length; the
// capacity covers the common case of single-rune inserts and short
// deletes.
const inlineCap = 23

// SSOStr is an immutable byte slice of known length.
type SSOStr struct {
	inline [inlineCap]byte
	arena  []byte
	length int
}

// FromConstant wraps bytes that are known to outlive the SSOStr (a Go
// string literal, or bytes already owned by an arena). Values longer
// than inlineCap are referenced without a copy; shorter ones are copied
// into the inline array.
func FromConstant(b []byte) SSOStr {
	if len(b) <= inlineCap {
		return fromInline(b)
	}

	return SSOStr{arena: b, length: len(b)}
}

// AsDuplicate copies b into a freshly allocated slice (or inline storage),
// for callers that cannot guarantee b's lifetime.
func AsDuplicate(b []byte) SSOStr {
	if len(b) <= inlineCap {
		return fromInline(b)
	}

	cp := make([]byte, len(b))
	copy(cp, b)

	return SSOStr{arena: cp, length: len(b)}
}

// FromChar builds a one-byte SSOStr.
func FromChar(c byte) SSOStr {
	var s SSOStr
	s.inline[0] = c
	s.length = 1

	return s
}

func fromInline(b []byte) SSOStr {
	var s SSOStr
	copy(s.inline[:], b)
	s.length = len(b)

	return s
}

// Len returns the number of bytes.
func (s SSOStr) Len() int {
	return s.length
}

// Bytes returns the value's bytes. The returned slice must not be mutated.
func (s SSOStr) Bytes() []byte {
	if s.arena != nil {
		return s.arena
	}

	return s.inline[:s.length]
}

// AsString materialises the value as a Go string (one copy).
func (s SSOStr) AsString() string {
	return string(s.Bytes())
}

// Equal reports byte-for-byte equality.
func (s SSOStr) Equal(other SSOStr) bool {
	return bytes.Equal(s.Bytes(), other.Bytes())
}

// Compare returns -1, 0, or 1 per bytes.Compare over the two values.
func (s SSOStr) Compare(other SSOStr) int {
	return bytes.Compare(s.Bytes(), other.Bytes())
}

// IsInline reports whether the value's bytes live in the struct itself
// rather than in an arena slice. Exposed for tests and diagnostics only.
func (s SSOStr) IsInline() bool {
	return s.arena == nil
}
