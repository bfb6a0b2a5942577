package edit

// Log holds a buffer's commit history: the canonical, linear Commits tree
// flattened by the currently selected redo path, the CommitIndex (next
// commit to apply on redo), and the Changes history used by
// cursor-replay commands.
type Log struct {
	Commits     []Commit
	CommitIndex int
	Changes     []Change
}

// IsUnchanged reports whether CommitIndex equals savedIndex, the
// definition of Buffer.is_unchanged().
func (log *Log) IsUnchanged(savedIndex int) bool {
	return log.CommitIndex == savedIndex
}

// Commit applies edits to target and appends them to the log. If tag is
// non-empty and matches the tag of the most recently applied commit, the
// edits are merged into that commit instead of starting a new one (this is
// how successive single-character inserts collapse into one undo step).
// Any redo tail is discarded first, per "commits[] is the canonical tree
// flattened by the currently-selected redo path". If an edit fails to
// apply, the edits already applied are reverted and nothing is logged.
func (log *Log) Commit(target Target, edits []Edit, tag string) (Commit, error) {
	for i, e := range edits {
		if err := applyForward(target, e); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = applyForward(target, invert(edits[j]))
			}

			return Commit{}, err
		}
	}

	if log.CommitIndex < len(log.Commits) {
		log.Commits = log.Commits[:log.CommitIndex]
	}

	if tag != "" && log.CommitIndex > 0 && log.Commits[log.CommitIndex-1].Tag == tag {
		idx := log.CommitIndex - 1
		log.Commits[idx].Edits = append(log.Commits[idx].Edits, edits...)
		log.Changes = append(log.Changes, Change{CommitIndex: idx, Forward: true})

		return log.Commits[idx], nil
	}

	log.Commits = append(log.Commits, Commit{Edits: edits, Tag: tag})
	idx := len(log.Commits) - 1
	log.CommitIndex++
	log.Changes = append(log.Changes, Change{CommitIndex: idx, Forward: true})

	return log.Commits[idx], nil
}

// Undo applies the inverse of the most recently applied commit and
// decrements CommitIndex. It returns false if there is nothing to undo.
func (log *Log) Undo(target Target) (bool, error) {
	if log.CommitIndex == 0 {
		return false, nil
	}

	idx := log.CommitIndex - 1
	commit := log.Commits[idx]

	edits := commit.Edits
	for i := len(edits) - 1; i >= 0; i-- {
		if err := applyForward(target, invert(edits[i])); err != nil {
			return false, err
		}
	}

	log.CommitIndex--
	log.Changes = append(log.Changes, Change{CommitIndex: idx, Forward: false})

	return true, nil
}

// Redo re-applies the next commit forward and increments CommitIndex. It
// returns false if there is nothing to redo.
func (log *Log) Redo(target Target) (bool, error) {
	if log.CommitIndex == len(log.Commits) {
		return false, nil
	}

	idx := log.CommitIndex
	commit := log.Commits[idx]

	for _, e := range commit.Edits {
		if err := applyForward(target, e); err != nil {
			return false, err
		}
	}

	log.CommitIndex++
	log.Changes = append(log.Changes, Change{CommitIndex: idx, Forward: true, IsRedo: true})

	return true, nil
}

// LastChangeCommit returns the Commit referenced by the most recent Change
// and how it was applied. Used by the create-cursors-from-last-change
// command: reading through the Changes log rather than recomputing an
// index sidesteps the ambiguity the source left open around which commit
// index a "last change" command should read (see DESIGN.md).
func (log *Log) LastChangeCommit() (commit Commit, change Change, ok bool) {
	if len(log.Changes) == 0 {
		return Commit{}, Change{}, false
	}

	last := log.Changes[len(log.Changes)-1]

	return log.Commits[last.CommitIndex], last, true
}

// CursorsFromCommit returns, for each Edit in commit in order, the
// position at which a new cursor should be created: the insertion end for
// an insert, or the edit's start for a removal.
func CursorsFromCommit(commit Commit) []int {
	positions := make([]int, len(commit.Edits))
	for i, e := range commit.Edits {
		positions[i] = e.End()
	}

	return positions
}

// InvertCommit returns the Commit that undoes commit: its Edits inverted
// and reversed. Exposed for callers outside this package (e.g. Window's
// cursor rebasing) that need to rebase a position across an undo the
// same way Log.Undo itself does.
func InvertCommit(commit Commit) Commit {
	edits := make([]Edit, len(commit.Edits))
	for i, e := range commit.Edits {
		edits[len(edits)-1-i] = invert(e)
	}

	return Commit{Edits: edits, Tag: commit.Tag}
}

func applyForward(target Target, e Edit) error {
	if e.IsInsert() {
		return target.Insert(e.Position, e.Value.Bytes())
	}

	return target.Remove(e.Position, e.Value.Len())
}

// invert returns the Edit that undoes e. The Value recorded on an Edit is
// always the bytes affected (inserted, or removed), and the Transaction
// that built the Commit already computed each Edit's Position against the
// content state immediately before that Edit's own forward application
// (Transaction.Push's contract). Undoing right-to-left therefore always
// finds the same position valid again, with no extra offset bookkeeping.
func invert(e Edit) Edit {
	if e.IsInsert() {
		return Edit{Value: e.Value, Position: e.Position, Flags: e.Flags | DirectionRemove}
	}

	return Edit{Value: e.Value, Position: e.Position, Flags: e.Flags &^ DirectionRemove}
}
