// Package search implements the bucket-aware matching primitives of
// spec.md §4.8: prefix/region equality, forward/backward scans, and a
// Case_Handling policy resolved once per query (SMART_CASE) or per byte
// (UPPERCASE_STICKY).
//
// Grounded on original_source/src/core/match.cpp: the same
// looking_at/matches/find/rfind family, generalised from the C++ cz::Str
// slices to pkg/content's Iterator.
package search

import "github.com/calvinalkan/mag/pkg/content"

// CaseHandling selects how alphabetic bytes are compared during a search.
type CaseHandling int

const (
	// CaseSensitive compares bytes literally.
	CaseSensitive CaseHandling = iota
	// CaseInsensitive folds ASCII case on both sides.
	CaseInsensitive
	// UppercaseSticky treats each query byte individually: uppercase query
	// bytes compare case-sensitively, lowercase ones case-insensitively.
	UppercaseSticky
	// SmartCase inspects the whole query up front: any uppercase byte
	// switches the whole query to CaseSensitive, otherwise CaseInsensitive.
	SmartCase
)

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isAlpha(b byte) bool { return isUpper(b) || isLower(b) }
func toLower(b byte) byte {
	if isUpper(b) {
		return b + ('a' - 'A')
	}

	return b
}

func toUpper(b byte) byte {
	if isLower(b) {
		return b - ('a' - 'A')
	}

	return b
}

// resolveSmartCase inspects query and, if ch is SmartCase, resolves it to
// CaseSensitive (query contains an uppercase byte) or CaseInsensitive.
// Resolved once against the full query, not per byte, per spec.md §4.8.
func resolveSmartCase(query []byte, ch CaseHandling) CaseHandling {
	if ch != SmartCase {
		return ch
	}

	for _, b := range query {
		if isUpper(b) {
			return CaseSensitive
		}
	}

	return CaseInsensitive
}

// resolveFindCase resolves a single-byte query's effective case policy.
// UppercaseSticky and SmartCase both degrade to a per-byte decision when
// there is only one byte to judge.
func resolveFindCase(ch byte, handling CaseHandling) CaseHandling {
	switch handling {
	case UppercaseSticky, SmartCase:
		if isLower(ch) {
			return CaseInsensitive
		}

		return CaseSensitive
	default:
		return handling
	}
}

func casedByteMatch(test, query byte, handling CaseHandling) bool {
	if handling == UppercaseSticky && isUpper(query) {
		return test == query
	}

	return toLower(test) == toLower(query)
}

// LookingAt reports whether the bytes at it match query exactly.
func LookingAt(it content.Iterator, query []byte) (bool, error) {
	return matchFrom(it, query, CaseSensitive)
}

// LookingAtCased is LookingAt with a case policy; a single non-alpha byte
// query degrades SmartCase/UppercaseSticky to CaseSensitive.
func LookingAtCased(it content.Iterator, query []byte, handling CaseHandling) (bool, error) {
	handling = resolveSmartCase(query, handling)

	return matchFrom(it, query, handling)
}

func matchFrom(it content.Iterator, query []byte, handling CaseHandling) (bool, error) {
	for _, q := range query {
		b, ok, err := it.Get()
		if err != nil {
			return false, err
		}

		if !ok {
			return false, nil
		}

		matched := b == q
		if handling != CaseSensitive {
			matched = casedByteMatch(b, q, handling)
		}

		if !matched {
			return false, nil
		}

		if err := it.Advance(); err != nil {
			return false, err
		}
	}

	return true, nil
}

// Matches reports whether the region [it.Position(), end) equals query
// byte-for-byte.
func Matches(it content.Iterator, end int, query []byte) (bool, error) {
	if it.Position()+len(query) != end {
		return false, nil
	}

	return LookingAt(it, query)
}

// MatchesCased is Matches with a case policy.
func MatchesCased(it content.Iterator, end int, query []byte, handling CaseHandling) (bool, error) {
	if it.Position()+len(query) != end {
		return false, nil
	}

	return LookingAtCased(it, query, handling)
}

// Find advances it to the next occurrence of query at or after it, leaving
// it at the match start on success or at eob on failure.
func Find(it *content.Iterator, query []byte) (bool, error) {
	if len(query) == 0 {
		return true, nil
	}

	for {
		found, err := findByte(it, query[0])
		if err != nil || !found {
			return false, err
		}

		ok, err := LookingAt(*it, query)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}

		if err := it.Advance(); err != nil {
			return false, err
		}
	}
}

// FindCased is Find with a case policy.
func FindCased(it *content.Iterator, query []byte, handling CaseHandling) (bool, error) {
	handling = resolveSmartCase(query, handling)
	if handling == CaseSensitive {
		return Find(it, query)
	}

	if len(query) == 0 {
		return true, nil
	}

	for {
		found, err := findByteCased(it, query[0], handling)
		if err != nil || !found {
			return false, err
		}

		ok, err := LookingAtCased(*it, query, handling)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}

		if err := it.Advance(); err != nil {
			return false, err
		}
	}
}

// RFind retreats it to the previous occurrence of query before it, leaving
// it at the match start on success or at bob on failure.
func RFind(it *content.Iterator, query []byte) (bool, error) {
	total := it.Len()

	if len(query) > total {
		if err := it.GoTo(0); err != nil {
			return false, err
		}

		return false, nil
	}

	if len(query) == 0 {
		return true, nil
	}

	if total-len(query) < it.Position() {
		if err := it.RetreatTo(total - len(query) + 1); err != nil {
			return false, err
		}
	}

	for {
		found, err := findByteBackward(it, query[0])
		if err != nil || !found {
			return false, err
		}

		ok, err := LookingAt(*it, query)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}
}

// RFindCased is RFind with a case policy.
func RFindCased(it *content.Iterator, query []byte, handling CaseHandling) (bool, error) {
	handling = resolveSmartCase(query, handling)
	if handling == CaseSensitive {
		return RFind(it, query)
	}

	total := it.Len()

	if len(query) > total {
		if err := it.GoTo(0); err != nil {
			return false, err
		}

		return false, nil
	}

	if len(query) == 0 {
		return true, nil
	}

	if total-len(query) < it.Position() {
		if err := it.RetreatTo(total - len(query) + 1); err != nil {
			return false, err
		}
	}

	for {
		found, err := findByteBackwardCased(it, query[0], handling)
		if err != nil || !found {
			return false, err
		}

		ok, err := LookingAtCased(*it, query, handling)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}
}

func findByte(it *content.Iterator, ch byte) (bool, error) {
	for {
		if it.AtEOB() {
			return false, nil
		}

		bucket, err := it.BucketBytes()
		if err != nil {
			return false, err
		}

		rest := bucket[it.Index():]

		idx := indexByte(rest, ch)
		if idx >= 0 {
			return true, it.AdvanceN(idx)
		}

		if err := it.AdvanceN(len(rest)); err != nil {
			return false, err
		}
	}
}

func findByteCased(it *content.Iterator, ch byte, handling CaseHandling) (bool, error) {
	handling = resolveFindCase(ch, handling)
	if handling == CaseSensitive || !isAlpha(ch) {
		return findByte(it, ch)
	}

	lower, upper := toLower(ch), toUpper(ch)

	for {
		if it.AtEOB() {
			return false, nil
		}

		bucket, err := it.BucketBytes()
		if err != nil {
			return false, err
		}

		rest := bucket[it.Index():]

		li := indexByte(rest, lower)
		ui := indexByte(rest, upper)

		idx := closerIndex(li, ui)
		if idx >= 0 {
			return true, it.AdvanceN(idx)
		}

		if err := it.AdvanceN(len(rest)); err != nil {
			return false, err
		}
	}
}

func findByteBackward(it *content.Iterator, ch byte) (bool, error) {
	for {
		if it.AtBOB() {
			return false, nil
		}

		bucket, idx, err := prevBucketSlice(it)
		if err != nil {
			return false, err
		}

		ri := lastIndexByte(bucket, ch)
		if ri >= 0 {
			return true, it.RetreatN(idx - ri)
		}

		if err := it.RetreatN(idx); err != nil {
			return false, err
		}
	}
}

func findByteBackwardCased(it *content.Iterator, ch byte, handling CaseHandling) (bool, error) {
	handling = resolveFindCase(ch, handling)
	if handling == CaseSensitive || !isAlpha(ch) {
		return findByteBackward(it, ch)
	}

	lower, upper := toLower(ch), toUpper(ch)

	for {
		if it.AtBOB() {
			return false, nil
		}

		bucket, idx, err := prevBucketSlice(it)
		if err != nil {
			return false, err
		}

		li := lastIndexByte(bucket, lower)
		ui := lastIndexByte(bucket, upper)

		ri := closerLastIndex(li, ui)
		if ri >= 0 {
			return true, it.RetreatN(idx - ri)
		}

		if err := it.RetreatN(idx); err != nil {
			return false, err
		}
	}
}

// prevBucketSlice returns the bytes of it's current bucket before it's
// index, and their count; if it sits at the bucket boundary (bucket
// start, or eob) it returns the whole previous bucket instead. it itself
// is not moved.
func prevBucketSlice(it *content.Iterator) ([]byte, int, error) {
	if it.Index() == 0 {
		prev := *it
		if err := prev.Retreat(); err != nil {
			return nil, 0, err
		}

		bucket, err := prev.BucketBytes()
		if err != nil {
			return nil, 0, err
		}

		return bucket[:prev.Index()+1], prev.Index() + 1, nil
	}

	bucket, err := it.BucketBytes()
	if err != nil {
		return nil, 0, err
	}

	return bucket[:it.Index()], it.Index(), nil
}

func indexByte(b []byte, ch byte) int {
	for i, c := range b {
		if c == ch {
			return i
		}
	}

	return -1
}

func lastIndexByte(b []byte, ch byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == ch {
			return i
		}
	}

	return -1
}

func closerIndex(a, b int) int {
	if a < 0 {
		return b
	}

	if b < 0 {
		return a
	}

	return min(a, b)
}

func closerLastIndex(a, b int) int {
	if a < 0 {
		return b
	}

	if b < 0 {
		return a
	}

	return max(a, b)
}

// FindBefore is Find bounded so a match must end at or before end; on
// failure it is left at end.
func FindBefore(it *content.Iterator, end int, query []byte) (bool, error) {
	if len(query) == 0 {
		return true, nil
	}

	for {
		found, err := findByteBounded(it, end, query[0])
		if err != nil {
			return false, err
		}

		if !found {
			return false, nil
		}

		ok, err := LookingAt(*it, query)
		if err != nil {
			return false, err
		}

		if ok {
			if it.Position()+len(query) > end {
				return false, it.AdvanceTo(end)
			}

			return true, nil
		}

		if err := it.Advance(); err != nil {
			return false, err
		}
	}
}

func findByteBounded(it *content.Iterator, end int, ch byte) (bool, error) {
	found, err := findByte(it, ch)
	if err != nil {
		return false, err
	}

	if it.Position() >= end {
		return false, it.AdvanceTo(end)
	}

	return found, nil
}

// RFindAfter is RFind bounded so a match must start at or after start; on
// failure it is left at start.
func RFindAfter(it *content.Iterator, start int, query []byte) (bool, error) {
	if len(query) == 0 {
		return true, nil
	}

	for {
		found, err := rfindByteBounded(it, start, query[0])
		if err != nil {
			return false, err
		}

		if !found {
			return false, nil
		}

		ok, err := LookingAt(*it, query)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}
}

func rfindByteBounded(it *content.Iterator, start int, ch byte) (bool, error) {
	found, err := findByteBackward(it, ch)
	if err != nil {
		return false, err
	}

	if it.Position() < start {
		return false, it.RetreatTo(start)
	}

	return found, nil
}

// FindThisLine finds query within the current line, bounded by its
// end-of-line position (exclusive of the newline byte itself).
func FindThisLine(it *content.Iterator, query []byte, eol int) (bool, error) {
	return FindBefore(it, eol, query)
}

// RFindThisLine finds query within the current line, bounded by its
// start-of-line position.
func RFindThisLine(it *content.Iterator, query []byte, sol int) (bool, error) {
	return RFindAfter(it, sol, query)
}
