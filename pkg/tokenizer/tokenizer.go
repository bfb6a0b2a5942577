// Package tokenizer defines the pluggable per-language tokeniser contract
// (spec.md §4.6): a pure function of (iterator position, state) that
// consumes whitespace, emits one token, and advances an opaque 64-bit
// state word. Concrete tokenisers live in subpackages (mdtok, cpptok,
// nametok).
//
// Grounded structurally on pkg/mddb/frontmatter/parser.go's hand-rolled
// byte-level state machine (a lineSource cursor driving a parser struct)
// and on original_source/src/syntax/*.cpp for the per-language automata.
package tokenizer

import "github.com/calvinalkan/mag/pkg/token"

// TokenizeFunc is the tokeniser contract. Implementations must uphold:
//
//   - Determinism: the result depends only on (it.Position(), *state) and
//     the bytes at/after it.
//   - Additivity: resuming from a check-pointed state reproduces exactly
//     the token stream that running from position 0 would produce.
//   - Bounded amortised work per call, except that block comments and
//     multi-line strings may scan to their close; implementations must
//     self-throttle by emitting an interior token at bucket boundaries to
//     avoid unbounded stalls on an unterminated construct.
//   - No back-tracking past it: state must capture everything needed.
//
// state == 0 is the initial state. The function returns ok == false
// exactly at end-of-buffer, leaving it at eob.
type TokenizeFunc func(it Iterator, state *uint64) (tok token.Token, ok bool, err error)

// Iterator is the subset of *content.Iterator a tokeniser needs. Kept as
// an interface so tokenisers and their tests do not import pkg/content
// directly, and so throttling at "the current bucket" is expressible
// without depending on content's internals beyond this contract.
type Iterator interface {
	Position() int
	AtEOB() bool
	Get() (b byte, ok bool, err error)
	Advance() error
	AdvanceN(n int) error
	GoTo(position int) error
	BucketBytes() ([]byte, error)
	Index() int
	Bucket() int
}
