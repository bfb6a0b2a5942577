// Package completion implements the identifier-completion core of
// spec.md §4.9: the near-cursor nearest-matching-identifier search, the
// whole-buffer all-identifiers-starting-with scan, and the completion
// engine (query, filtered results, selection, paging, commit-diff) that
// sits on top of either.
//
// Grounded on original_source/basic/completion_commands.cpp: look_in's
// outward bucket-by-bucket scan for find_nearest_matching_identifier, and
// command_insert_completion's common-prefix diff for Engine.Commit.
package completion

import (
	"sort"

	"github.com/calvinalkan/mag/pkg/content"
)

// IsIdentifierByte reports whether b is part of the maximal
// [A-Za-z0-9_] run spec.md §4.9 defines as an identifier.
func IsIdentifierByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// maxLookBuckets bounds how many buckets outward the search walks before
// giving up, so a completion request on a huge buffer stays cheap.
const maxLookBuckets = 64

// FindNearestMatchingIdentifier searches outward from start (the cursor
// position, which must equal the start of the prefix word) for the
// nearest complete identifier that begins with the prefixLen bytes
// already typed, is strictly longer than the prefix, and does not
// overlap any position in ignored (used to skip the other cursors' own
// partial words). The word under the cursor itself (candStart == start)
// is never a candidate, mirroring the source's strict before/after
// bucket split around the cursor's own byte index. It returns an
// iterator positioned at the start of the match.
func FindNearestMatchingIdentifier(contents *content.Contents, start, prefixLen int, ignored []int) (content.Iterator, bool, error) {
	if prefixLen == 0 {
		return content.Iterator{}, false, nil
	}

	origin, err := contents.IteratorAt(start)
	if err != nil {
		return content.Iterator{}, false, err
	}

	prefix, err := contents.Slice(start, start+prefixLen)
	if err != nil {
		return content.Iterator{}, false, err
	}

	prefixBytes := []byte(prefix.AsString())

	var (
		bestPos   = -1
		bestDist  = -1
		bestMatch content.Iterator
	)

	consider := func(candStart int) error {
		if candStart == start {
			return nil
		}

		end := candStart + prefixLen
		for end < contents.Len() {
			next, err := contents.Slice(end, end+1)
			if err != nil || !IsIdentifierByte(next.AsString()[0]) {
				break
			}

			end++
		}

		if overlapsIgnored(candStart, end, ignored) {
			return nil
		}

		ok, err := isIdentifierMatch(contents, candStart, prefixBytes)
		if err != nil || !ok {
			return err
		}

		dist := candStart - start
		if dist < 0 {
			dist = -dist
		}

		if bestPos == -1 || dist < bestDist {
			it, err := contents.IteratorAt(candStart)
			if err != nil {
				return err
			}

			bestPos, bestDist, bestMatch = candStart, dist, it
		}

		return nil
	}

	bucketsWalked := 0
	lo, hi := origin.Bucket(), origin.Bucket()

	for {
		if err := scanBucketForStarts(contents, lo, prefixBytes[0], consider); err != nil {
			return content.Iterator{}, false, err
		}

		if lo != hi {
			if err := scanBucketForStarts(contents, hi, prefixBytes[0], consider); err != nil {
				return content.Iterator{}, false, err
			}
		}

		if bestPos != -1 {
			return bestMatch, true, nil
		}

		bucketsWalked++
		if bucketsWalked > maxLookBuckets {
			break
		}

		movedLo := lo > 0
		if movedLo {
			lo--
		}

		movedHi := hi < contents.BucketCount()-1
		if movedHi {
			hi++
		}

		if !movedLo && !movedHi {
			break
		}
	}

	return content.Iterator{}, false, nil
}

// scanBucketForStarts finds the start position of the bucket with index
// bucket and invokes consider for every position in it whose
// byte equals firstByte and which is not preceded by an identifier byte
// (i.e. every candidate identifier start).
func scanBucketForStarts(contents *content.Contents, bucket int, firstByte byte, consider func(int) error) error {
	it, err := contents.IteratorAt(0)
	if err != nil {
		return err
	}

	if err := it.GoTo(bucketStartPosition(contents, bucket)); err != nil {
		return err
	}

	bytes, err := it.BucketBytes()
	if err != nil {
		return err
	}

	base := it.Position()

	for i, b := range bytes {
		if b != firstByte {
			continue
		}

		pos := base + i

		if pos > 0 {
			before, err := contents.Slice(pos-1, pos)
			if err != nil {
				return err
			}

			if len(before.AsString()) == 1 && IsIdentifierByte(before.AsString()[0]) {
				continue
			}
		}

		if err := consider(pos); err != nil {
			return err
		}
	}

	return nil
}

func bucketStartPosition(contents *content.Contents, bucket int) int {
	it := contents.Start()

	for i := 0; i < bucket; i++ {
		bytes, err := it.BucketBytes()
		if err != nil {
			return it.Position()
		}

		if err := it.AdvanceN(len(bytes)); err != nil {
			return it.Position()
		}
	}

	return it.Position()
}

// isIdentifierMatch reports whether the identifier starting at pos
// begins with prefix and is strictly longer than it.
func isIdentifierMatch(contents *content.Contents, pos int, prefix []byte) (bool, error) {
	end := pos + len(prefix)
	if end > contents.Len() {
		return false, nil
	}

	word, err := contents.Slice(pos, end)
	if err != nil {
		return false, err
	}

	if word.AsString() != string(prefix) {
		return false, nil
	}

	if end == contents.Len() {
		return false, nil
	}

	after, err := contents.Slice(end, end+1)
	if err != nil {
		return false, err
	}

	s := after.AsString()

	return len(s) == 1 && IsIdentifierByte(s[0]), nil
}

func overlapsIgnored(start, end int, ignored []int) bool {
	for _, pos := range ignored {
		if pos >= start && pos < end {
			return true
		}
	}

	return false
}

// AllIdentifiersStartingWith scans the whole buffer for every identifier
// beginning with query and strictly longer than it, deduplicated and
// sorted.
func AllIdentifiersStartingWith(contents *content.Contents, query string) ([]string, error) {
	if len(query) == 0 {
		return nil, nil
	}

	it := contents.Start()
	seen := make(map[string]bool)

	var out []string

	for !it.AtEOB() {
		b, ok, err := it.Get()
		if err != nil {
			return nil, err
		}

		if !ok || !IsIdentifierByte(b) {
			if err := it.Advance(); err != nil {
				return nil, err
			}

			continue
		}

		start := it.Position()

		for !it.AtEOB() {
			b, ok, err := it.Get()
			if err != nil {
				return nil, err
			}

			if !ok || !IsIdentifierByte(b) {
				break
			}

			if err := it.Advance(); err != nil {
				return nil, err
			}
		}

		end := it.Position()

		if end-start <= len(query) {
			continue
		}

		word, err := contents.Slice(start, end)
		if err != nil {
			return nil, err
		}

		s := word.AsString()
		if len(s) < len(query) || s[:len(query)] != query {
			continue
		}

		if !seen[s] {
			seen[s] = true

			out = append(out, s)
		}
	}

	sort.Strings(out)

	return out, nil
}
