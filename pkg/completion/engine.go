package completion

import (
	"sort"
	"strings"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/ssostr"
)

// Engine tracks one in-progress completion popup: the query typed so
// far, the filtered and sorted candidate list, and which one is
// selected. It does not own the buffer; callers drive it with the
// current query and commit its selection as an edit.
//
// Grounded on original_source/basic/completion_commands.cpp's
// Completion_Cache (results, selected, state) and its paging commands
// (command_completion_{up,down,first,last}).
type Engine struct {
	query     string
	results   []string
	selected  int
}

// NewEngine builds an Engine over the full candidate universe,
// pre-filtered and sorted by the initial query.
func NewEngine(candidates []string, query string) *Engine {
	e := &Engine{}
	e.SetCandidates(candidates, query)

	return e
}

// SetCandidates replaces the candidate universe and re-filters against
// query, preserving selection at 0.
func (e *Engine) SetCandidates(candidates []string, query string) {
	e.query = query
	e.results = filterAndSort(candidates, query)
	e.selected = 0
}

// SetQuery re-filters the existing candidate set with a new query.
// Candidates must be supplied again since Engine does not retain the
// unfiltered universe across calls with a shrinking query.
func (e *Engine) SetQuery(candidates []string, query string) {
	e.SetCandidates(candidates, query)
}

func filterAndSort(candidates []string, query string) []string {
	var out []string

	for _, c := range candidates {
		if strings.HasPrefix(c, query) && len(c) > len(query) {
			out = append(out, c)
		}
	}

	sort.Strings(out)

	return out
}

// Results returns the current filtered, sorted candidate list.
func (e *Engine) Results() []string {
	return e.results
}

// Selected returns the currently selected candidate and whether the
// result list is non-empty.
func (e *Engine) Selected() (string, bool) {
	if len(e.results) == 0 {
		return "", false
	}

	return e.results[e.selected], true
}

// SelectedIndex returns the selected index.
func (e *Engine) SelectedIndex() int {
	return e.selected
}

// Next moves the selection one entry forward, wrapping at the end.
func (e *Engine) Next() {
	if len(e.results) == 0 {
		return
	}

	e.selected = (e.selected + 1) % len(e.results)
}

// Previous moves the selection one entry backward, wrapping at the
// start.
func (e *Engine) Previous() {
	if len(e.results) == 0 {
		return
	}

	e.selected = (e.selected - 1 + len(e.results)) % len(e.results)
}

// PageDown moves the selection forward by page, clamped to the last
// entry.
func (e *Engine) PageDown(page int) {
	e.clampMove(e.selected + page)
}

// PageUp moves the selection backward by page, clamped to the first
// entry.
func (e *Engine) PageUp(page int) {
	e.clampMove(e.selected - page)
}

// First selects the first result.
func (e *Engine) First() {
	e.selected = 0
}

// Last selects the last result.
func (e *Engine) Last() {
	if len(e.results) == 0 {
		e.selected = 0

		return
	}

	e.selected = len(e.results) - 1
}

func (e *Engine) clampMove(target int) {
	if len(e.results) == 0 {
		e.selected = 0

		return
	}

	switch {
	case target < 0:
		target = 0
	case target >= len(e.results):
		target = len(e.results) - 1
	}

	e.selected = target
}

// Commit builds the minimal REMOVE+INSERT edit that replaces the
// already-typed query (occupying [queryStart, queryStart+len(query)))
// with the selected completion, sharing the common prefix so cursor
// rebasing only has to account for the tail that actually differs.
//
// Grounded on command_insert_completion's replace-only-the-suffix
// behaviour: retyping what the user already typed would otherwise
// needlessly invalidate cursor stickiness within the shared prefix.
func (e *Engine) Commit(contents *content.Contents, log *edit.Log, queryStart int, tag string) (edit.Commit, bool, error) {
	word, ok := e.Selected()
	if !ok {
		return edit.Commit{}, false, nil
	}

	shared := commonPrefixLen(e.query, word)

	tx := edit.NewTransaction()

	removeStart := queryStart + shared
	removedTail := e.query[shared:]

	if len(removedTail) > 0 {
		tx.Push(edit.Edit{
			Value:    ssostr.FromConstant([]byte(removedTail)),
			Position: removeStart,
			Flags:    edit.DirectionRemove,
		})
	}

	insertedTail := word[shared:]
	if len(insertedTail) > 0 {
		tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(insertedTail)), Position: removeStart})
	}

	commit, err := tx.Commit(contents, log, tag)
	if err != nil {
		return edit.Commit{}, false, err
	}

	return commit, true, nil
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	i := 0
	for i < n && a[i] == b[i] {
		i++
	}

	return i
}
