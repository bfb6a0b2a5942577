package content

import "errors"

// ErrOutOfRange is returned when a position or range argument falls
// outside [0, Len()] (or, for ranges, outside a valid [start, end) pair).
var ErrOutOfRange = errors.New("content: position out of range")

// ErrStaleIterator is returned when an Iterator is used after any mutating
// operation on the Contents it was taken from. Per the content store
// contract every mutation invalidates every outstanding iterator; using one
// afterwards is an invariant violation, not a recoverable error, and the
// program should not attempt to continue past it.
var ErrStaleIterator = errors.New("content: iterator used after a mutation invalidated it")
