// Package tokencache implements the incremental re-tokenisation cache of
// spec.md §4.5: a sequence of (position, tokeniser-state) check-points
// taken every Interval bytes, a ran_to high-water mark, and a
// change-counter-driven invalidation rule that truncates check-points
// past the earliest position touched since the cache was last
// reconciled.
//
// Grounded on pkg/mddb/fmcache's change-index invalidation shape ("cache
// holds a change_index, compares it to the source's counter, and
// recomputes only the affected span") generalised from a byte-slot cache
// keyed by document mtime to a tokeniser-state cache keyed by the
// buffer's edit log.
package tokencache

import (
	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/token"
	"github.com/calvinalkan/mag/pkg/tokenizer"
)

// DefaultInterval is the target number of bytes between check-points, on
// the order the spec calls out ("K on the order of 1000").
const DefaultInterval = 1000

// CheckPoint is a saved (position, tokeniser state) pair.
type CheckPoint struct {
	Position int
	State    uint64
}

// Cache holds the check-points for one Buffer's tokeniser run, along with
// the furthest validated position and the change counter it was last
// reconciled against.
type Cache struct {
	tokenize tokenizer.TokenizeFunc
	interval int

	checkPoints []CheckPoint
	ranTo       int
	changeIndex int
}

// New returns an empty Cache driven by tokenize, taking a check-point
// every interval bytes (DefaultInterval if interval <= 0). A nil
// tokenize produces no tokens, so the cache never advances past
// position 0.
func New(tokenize tokenizer.TokenizeFunc, interval int) *Cache {
	if interval <= 0 {
		interval = DefaultInterval
	}

	if tokenize == nil {
		tokenize = func(tokenizer.Iterator, *uint64) (token.Token, bool, error) {
			return token.Token{}, false, nil
		}
	}

	return &Cache{tokenize: tokenize, interval: interval}
}

// RanTo returns the furthest position for which tokens have been
// validated by the most recent Update.
func (c *Cache) RanTo() int {
	return c.ranTo
}

// CheckPoints returns the cache's check-points in ascending Position
// order. Exposed for diagnostic tooling; callers must not mutate the
// returned slice.
func (c *Cache) CheckPoints() []CheckPoint {
	return c.checkPoints
}

// FindCheckPoint binary-searches for the greatest check-point with
// Position <= target, returning the zero check-point (position 0, state
// 0) when none exists.
func (c *Cache) FindCheckPoint(target int) CheckPoint {
	lo, hi := 0, len(c.checkPoints)

	for lo < hi {
		mid := (lo + hi) / 2
		if c.checkPoints[mid].Position <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo == 0 {
		return CheckPoint{}
	}

	return c.checkPoints[lo-1]
}

// Update reconciles the cache against log's history and ensures tokens
// are valid through at least through (clamped to the content's length).
// If the log has not changed since the last reconciliation, Update only
// extends coverage if through > RanTo(), re-running the tokeniser from
// the last check-point at or before RanTo().
func (c *Cache) Update(contents *content.Contents, log *edit.Log, through int) error {
	total := contents.Len()
	if through > total {
		through = total
	}

	if len(log.Changes) != c.changeIndex {
		earliest := c.earliestAffectedPosition(log)
		c.truncateAfter(earliest)

		if c.ranTo > earliest {
			c.ranTo = earliest
		}

		c.changeIndex = len(log.Changes)
	}

	if through <= c.ranTo {
		return nil
	}

	return c.runFrom(contents, c.FindCheckPoint(c.ranTo), through)
}

// earliestAffectedPosition scans the Changes appended since changeIndex
// and returns the smallest Edit.Position among the Commits they
// reference. Any position a commit's edits could have moved qualifies,
// since an edit's own Position is always expressed against the content
// state immediately before it (the same guarantee edit.Log relies on to
// invert commits without extra offset bookkeeping).
func (c *Cache) earliestAffectedPosition(log *edit.Log) int {
	earliest := -1

	for _, ch := range log.Changes[c.changeIndex:] {
		commit := log.Commits[ch.CommitIndex]
		for _, e := range commit.Edits {
			if earliest < 0 || e.Position < earliest {
				earliest = e.Position
			}
		}
	}

	if earliest < 0 {
		return c.ranTo
	}

	return earliest
}

// truncateAfter drops every check-point taken at or past position, since
// tokeniser state recorded there no longer reflects the post-edit bytes.
func (c *Cache) truncateAfter(position int) {
	i := len(c.checkPoints)
	for i > 0 && c.checkPoints[i-1].Position >= position {
		i--
	}

	c.checkPoints = c.checkPoints[:i]
}

// runFrom replays the tokeniser starting at cp through target, taking a
// new check-point whenever the running byte count since the last one
// exceeds c.interval, and sets ranTo to the furthest position reached.
func (c *Cache) runFrom(contents *content.Contents, cp CheckPoint, target int) error {
	it, err := contents.IteratorAt(cp.Position)
	if err != nil {
		return err
	}

	state := cp.State
	sinceCheckPoint := 0

	for it.Position() < target {
		before := it.Position()

		_, ok, err := c.tokenize(&it, &state)
		if err != nil {
			return err
		}

		if !ok {
			c.ranTo = it.Position()

			return nil
		}

		sinceCheckPoint += it.Position() - before

		if sinceCheckPoint > c.interval {
			c.checkPoints = append(c.checkPoints, CheckPoint{Position: it.Position(), State: state})
			sinceCheckPoint = 0
		}
	}

	c.ranTo = it.Position()

	return nil
}

// replayFrom re-tokenises starting at check-point cp and calls visit for
// every produced token, in order, stopping as soon as visit returns true
// or the tokeniser reaches eob.
func (c *Cache) replayFrom(contents *content.Contents, cp CheckPoint, visit func(token.Token) bool) error {
	it, err := contents.IteratorAt(cp.Position)
	if err != nil {
		return err
	}

	state := cp.State

	for {
		tok, ok, err := c.tokenize(&it, &state)
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		if visit(tok) {
			return nil
		}
	}
}

// GetTokenAt returns the token covering position, first calling Update to
// ensure coverage through position.
func (c *Cache) GetTokenAt(contents *content.Contents, log *edit.Log, position int) (token.Token, bool, error) {
	if err := c.Update(contents, log, position+1); err != nil {
		return token.Token{}, false, err
	}

	var found token.Token

	ok := false

	err := c.replayFrom(contents, c.FindCheckPoint(position), func(tok token.Token) bool {
		if tok.Start <= position && position < tok.End {
			found, ok = tok, true

			return true
		}

		return tok.Start > position
	})

	return found, ok, err
}

// GetTokenBefore returns the last token whose End <= position. Per
// spec.md §4.5, if the check-point interval containing position has no
// token before it, the search retries from the preceding check-point, and
// so on back to the zero check-point.
func (c *Cache) GetTokenBefore(contents *content.Contents, log *edit.Log, position int) (token.Token, bool, error) {
	if err := c.Update(contents, log, position); err != nil {
		return token.Token{}, false, err
	}

	cp := c.FindCheckPoint(position)

	for {
		var best token.Token

		found := false

		err := c.replayFrom(contents, cp, func(tok token.Token) bool {
			if tok.End > position {
				return true
			}

			best, found = tok, true

			return false
		})
		if err != nil {
			return token.Token{}, false, err
		}

		if found {
			return best, true, nil
		}

		if cp.Position == 0 {
			return token.Token{}, false, nil
		}

		cp = c.FindCheckPoint(cp.Position - 1)
	}
}

// GetTokenAfter returns the first token whose Start >= position.
func (c *Cache) GetTokenAfter(contents *content.Contents, log *edit.Log, position int) (token.Token, bool, error) {
	if err := c.Update(contents, log, contents.Len()); err != nil {
		return token.Token{}, false, err
	}

	var found token.Token

	ok := false

	err := c.replayFrom(contents, c.FindCheckPoint(position), func(tok token.Token) bool {
		if tok.Start >= position {
			found, ok = tok, true

			return true
		}

		return false
	})

	return found, ok, err
}
