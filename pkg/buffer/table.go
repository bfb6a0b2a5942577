package buffer

import "sync"

// Table is the process-wide set of open buffers, addressed by ID. It
// is the thing a WeakHandle upgrades against.
//
// Grounded on internal/store's single-writer-lock-over-a-table shape,
// simplified from file locks to an in-memory mutex since buffers live
// only for the process's lifetime.
type Table struct {
	mu      sync.RWMutex
	buffers map[ID]*Buffer
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{buffers: make(map[ID]*Buffer)}
}

// Open registers buf in the table and returns a WeakHandle to it.
func (t *Table) Open(buf *Buffer) WeakHandle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buffers[buf.ID()] = buf

	return WeakHandle{id: buf.ID(), table: t}
}

// Close removes a buffer from the table. Any WeakHandle referencing it
// subsequently fails to upgrade.
func (t *Table) Close(id ID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.buffers, id)
}

// Get looks a buffer up directly by ID.
func (t *Table) Get(id ID) (*Buffer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	buf, ok := t.buffers[id]

	return buf, ok
}

// All returns every currently open buffer.
func (t *Table) All() []*Buffer {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Buffer, 0, len(t.buffers))
	for _, buf := range t.buffers {
		out = append(out, buf)
	}

	return out
}

// WeakHandle references a Buffer by ID through a Table without keeping
// it alive; a Window holds one of these rather than a *Buffer directly
// so a closed buffer's windows degrade instead of dangling.
type WeakHandle struct {
	id    ID
	table *Table
}

// Upgrade resolves the handle to its Buffer, returning false if it has
// since closed.
func (h WeakHandle) Upgrade() (*Buffer, bool) {
	if h.table == nil {
		return nil, false
	}

	return h.table.Get(h.id)
}

// ID returns the ID the handle references, valid even after the buffer
// it names has closed.
func (h WeakHandle) ID() ID {
	return h.id
}
