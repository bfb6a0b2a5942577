package content

// Iterator is a borrowed cursor into a Contents. It stays valid only until
// the next mutation on the Contents it was taken from; using a stale
// Iterator returns ErrStaleIterator rather than corrupting state.
//
// Invariant: position == sum(len(buckets[0:bucket])) + index, index <=
// len(buckets[bucket]), and bucket == len(buckets) implies index == 0 (the
// eob canonical form).
type Iterator struct {
	contents   *Contents
	bucket     int
	index      int
	position   int
	generation int
}

// Position returns the absolute byte position.
func (it Iterator) Position() int {
	return it.position
}

// Len returns the length of the Contents this iterator was taken from.
// Exposed for callers (search, completion) that need to bound a scan
// relative to the whole buffer without reaching into Contents directly.
func (it Iterator) Len() int {
	return it.contents.Len()
}

// Bucket returns the index of the bucket the iterator currently sits in.
// Exposed because callers throughout the domain (search, tokenisers)
// process one bucket's bytes at a time; the bucket boundary is part of
// the iterator's public contract, not an implementation detail.
func (it Iterator) Bucket() int {
	return it.bucket
}

// Index returns the byte offset within the current bucket.
func (it Iterator) Index() int {
	return it.index
}

// BucketBytes returns the raw bytes of the iterator's current bucket. The
// returned slice must not be mutated and is invalidated by the next
// Contents mutation along with the iterator itself.
func (it Iterator) BucketBytes() ([]byte, error) {
	if err := it.checkValid(); err != nil {
		return nil, err
	}

	if it.bucket >= len(it.contents.buckets) {
		return nil, nil
	}

	return it.contents.buckets[it.bucket], nil
}

// AtEOB reports whether the iterator sits at end-of-buffer.
func (it Iterator) AtEOB() bool {
	return it.position == it.contents.Len()
}

// AtBOB reports whether the iterator sits at the beginning of the buffer.
func (it Iterator) AtBOB() bool {
	return it.position == 0
}

// Get returns the byte at the iterator's position. ok is false at eob.
func (it Iterator) Get() (b byte, ok bool, err error) {
	if err := it.checkValid(); err != nil {
		return 0, false, err
	}

	if it.AtEOB() {
		return 0, false, nil
	}

	return it.contents.buckets[it.bucket][it.index], true, nil
}

// Advance moves the iterator forward one byte.
func (it *Iterator) Advance() error {
	return it.AdvanceN(1)
}

// Retreat moves the iterator backward one byte.
func (it *Iterator) Retreat() error {
	return it.RetreatN(1)
}

// AdvanceN moves the iterator forward n bytes without materialising the
// skipped bytes, walking bucket boundaries as needed.
func (it *Iterator) AdvanceN(n int) error {
	if n < 0 {
		return it.RetreatN(-n)
	}

	if err := it.checkValid(); err != nil {
		return err
	}

	return it.GoTo(it.position + n)
}

// RetreatN moves the iterator backward n bytes.
func (it *Iterator) RetreatN(n int) error {
	if n < 0 {
		return it.AdvanceN(-n)
	}

	if err := it.checkValid(); err != nil {
		return err
	}

	return it.GoTo(it.position - n)
}

// AdvanceTo is an alias for GoTo kept for readability at call sites that
// only ever move forward.
func (it *Iterator) AdvanceTo(position int) error {
	return it.GoTo(position)
}

// RetreatTo is an alias for GoTo kept for readability at call sites that
// only ever move backward.
func (it *Iterator) RetreatTo(position int) error {
	return it.GoTo(position)
}

// GoTo repositions the iterator to an absolute byte position.
func (it *Iterator) GoTo(position int) error {
	if err := it.checkValid(); err != nil {
		return err
	}

	next, err := it.contents.IteratorAt(position)
	if err != nil {
		return err
	}

	*it = next

	return nil
}

func (it Iterator) checkValid() error {
	if it.contents == nil {
		return ErrOutOfRange
	}

	if it.generation != it.contents.generation {
		return ErrStaleIterator
	}

	return nil
}
