package edit

// Transaction accumulates Edits and commits them atomically. Push's caller
// is responsible for computing each Edit's Position in the coordinate
// space of the content state immediately before that Edit applies —
// edits are applied in list order, so later edits in the same
// Transaction must already account for the ones before them.
type Transaction struct {
	edits []Edit
}

// NewTransaction returns an empty Transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Push appends an Edit to the transaction.
func (tx *Transaction) Push(e Edit) {
	tx.edits = append(tx.edits, e)
}

// Len returns the number of Edits pushed so far.
func (tx *Transaction) Len() int {
	return len(tx.edits)
}

// Commit applies the transaction's Edits to target and appends the
// resulting Commit to log, per Log.Commit's merge-by-tag rule.
func (tx *Transaction) Commit(target Target, log *Log, tag string) (Commit, error) {
	return log.Commit(target, tx.edits, tag)
}
