// Package content implements the bucketed byte sequence that backs a
// Buffer's text. Bytes live in an ordered sequence of fixed-capacity
// buckets; all exported operations address content by absolute byte
// position. Iterators are borrows: any mutation bumps a generation
// counter and every previously-issued Iterator becomes stale.
//
// Grounded on pkg/slotcache's bucketed binary-file layout (format.go):
// the same "fixed-capacity chunk, byte-addressed, walk chunk-by-chunk"
// shape, generalised here from disk slots to in-memory text buckets.
package content

import (
	"strings"

	"github.com/calvinalkan/mag/pkg/ssostr"
)

// DefaultBucketCapacity is the target size of a bucket in steady state.
// Append fills buckets up to this size. Insert lets a bucket grow past it
// and splits the bucket only once it exceeds twice this size; Remove
// shrinks buckets and drops the ones it empties, without merging.
const DefaultBucketCapacity = 4096

// Contents is a mutable, bucketed byte sequence. The zero value is not
// usable; construct with New or NewWithBucketCapacity.
type Contents struct {
	buckets    [][]byte
	bucketCap  int
	generation int
}

// New returns an empty Contents using DefaultBucketCapacity.
func New() *Contents {
	return NewWithBucketCapacity(DefaultBucketCapacity)
}

// NewWithBucketCapacity returns an empty Contents with an explicit target
// bucket size. Tests use small capacities to exercise bucket boundaries.
func NewWithBucketCapacity(bucketCap int) *Contents {
	if bucketCap <= 0 {
		bucketCap = DefaultBucketCapacity
	}

	return &Contents{bucketCap: bucketCap}
}

// NewFromBytes builds a Contents pre-populated with b, split into buckets.
func NewFromBytes(b []byte, bucketCap int) *Contents {
	c := NewWithBucketCapacity(bucketCap)
	c.Append(b)

	return c
}

// Len returns the total number of bytes.
func (c *Contents) Len() int {
	total := 0
	for _, b := range c.buckets {
		total += len(b)
	}

	return total
}

// Start returns an Iterator at position 0.
func (c *Contents) Start() Iterator {
	it, _ := c.IteratorAt(0)

	return it
}

// End returns an Iterator in eob canonical form (bucket == len(buckets),
// index == 0).
func (c *Contents) End() Iterator {
	return Iterator{
		contents:   c,
		bucket:     len(c.buckets),
		index:      0,
		position:   c.Len(),
		generation: c.generation,
	}
}

// IteratorAt returns an Iterator positioned at the given absolute byte
// position. position == Len() yields the eob canonical form.
func (c *Contents) IteratorAt(position int) (Iterator, error) {
	total := c.Len()
	if position < 0 || position > total {
		return Iterator{}, ErrOutOfRange
	}

	if position == total {
		return c.End(), nil
	}

	walked := 0

	for bi, b := range c.buckets {
		if position < walked+len(b) {
			return Iterator{
				contents:   c,
				bucket:     bi,
				index:      position - walked,
				position:   position,
				generation: c.generation,
			}, nil
		}

		walked += len(b)
	}

	// Only reachable if buckets are inconsistent with Len(); treat as eob.
	return c.End(), nil
}

// Slice materialises [start, end) into a freshly-copied SSOStr.
func (c *Contents) Slice(start, end int) (ssostr.SSOStr, error) {
	var sb strings.Builder

	err := c.SliceInto(start, end, &sb)
	if err != nil {
		return ssostr.SSOStr{}, err
	}

	return ssostr.AsDuplicate([]byte(sb.String())), nil
}

// SliceInto appends [start, end) to dst without an intermediate SSOStr.
func (c *Contents) SliceInto(start, end int, dst *strings.Builder) error {
	total := c.Len()
	if start < 0 || end < start || end > total {
		return ErrOutOfRange
	}

	walked := 0

	for _, b := range c.buckets {
		bucketStart := walked
		bucketEnd := walked + len(b)
		walked = bucketEnd

		lo := max(start, bucketStart)
		hi := min(end, bucketEnd)

		if lo < hi {
			dst.Write(b[lo-bucketStart : hi-bucketStart])
		}

		if bucketEnd >= end {
			break
		}
	}

	return nil
}

// Append adds bytes to the end of the content, splitting into new buckets
// as needed. It invalidates every outstanding Iterator.
func (c *Contents) Append(b []byte) {
	if len(b) == 0 {
		return
	}

	defer c.bump()

	if len(c.buckets) > 0 {
		last := &c.buckets[len(c.buckets)-1]
		if len(*last) < c.bucketCap {
			room := c.bucketCap - len(*last)
			if room > len(b) {
				room = len(b)
			}

			*last = append(*last, b[:room]...)
			b = b[room:]
		}
	}

	for len(b) > 0 {
		n := min(len(b), c.bucketCap)
		bucket := make([]byte, n)
		copy(bucket, b[:n])
		c.buckets = append(c.buckets, bucket)
		b = b[n:]
	}
}

// Insert inserts b at position, splitting the containing bucket if the
// result would exceed roughly double the target capacity. It invalidates
// every outstanding Iterator.
func (c *Contents) Insert(position int, b []byte) error {
	if len(b) == 0 {
		if position < 0 || position > c.Len() {
			return ErrOutOfRange
		}

		return nil
	}

	it, err := c.IteratorAt(position)
	if err != nil {
		return err
	}

	defer c.bump()

	if it.bucket == len(c.buckets) {
		c.Append(b)

		return nil
	}

	bi := it.bucket
	bucket := c.buckets[bi]
	merged := make([]byte, 0, len(bucket)+len(b))
	merged = append(merged, bucket[:it.index]...)
	merged = append(merged, b...)
	merged = append(merged, bucket[it.index:]...)

	if len(merged) <= 2*c.bucketCap {
		c.buckets[bi] = merged

		return nil
	}

	split := make([][]byte, 0, (len(merged)/c.bucketCap)+1)
	for len(merged) > 0 {
		n := min(len(merged), c.bucketCap)
		split = append(split, merged[:n])
		merged = merged[n:]
	}

	c.buckets = append(c.buckets[:bi], append(split, c.buckets[bi+1:]...)...)

	return nil
}

// Remove deletes count bytes starting at position. It invalidates every
// outstanding Iterator.
func (c *Contents) Remove(position, count int) error {
	if count < 0 || position < 0 || position+count > c.Len() {
		return ErrOutOfRange
	}

	if count == 0 {
		return nil
	}

	defer c.bump()

	end := position + count
	walked := 0

	out := c.buckets[:0:0]

	for _, b := range c.buckets {
		bucketStart := walked
		bucketEnd := walked + len(b)
		walked = bucketEnd

		lo := max(position, bucketStart)
		hi := min(end, bucketEnd)

		if lo >= hi {
			out = append(out, b)

			continue
		}

		kept := make([]byte, 0, len(b)-(hi-lo))
		kept = append(kept, b[:lo-bucketStart]...)
		kept = append(kept, b[hi-bucketStart:]...)

		if len(kept) > 0 {
			out = append(out, kept)
		}
	}

	c.buckets = out

	return nil
}

// BucketCount reports the number of buckets; exposed for tests and for
// callers (search, tokenisers) that walk bucket-by-bucket deliberately.
func (c *Contents) BucketCount() int {
	return len(c.buckets)
}

func (c *Contents) bump() {
	c.generation++
}
