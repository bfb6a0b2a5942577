// Package buffer implements the Buffer Handle / Mode / Window layer of
// spec.md §4.10: a buffer store addressed by a stable ID, weak handles
// that degrade gracefully once a buffer closes, and per-buffer Mode
// configuration (tokenizer, overlays, search case policy). The store
// keeps no reference counts: a buffer stays registered until it is
// closed, whatever handles to it remain.
//
// Grounded on internal/store/id.go's UUIDv7 identifiers (time-ordered,
// so later sorting needs no extra metadata) for Buffer IDs, and on
// internal/store's open-handle-over-a-table shape for Table/WeakHandle.
package buffer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/overlay"
	"github.com/calvinalkan/mag/pkg/tokencache"
)

// ID stably identifies a Buffer across its lifetime, independent of any
// particular Window's reference to it.
type ID struct {
	uuid uuid.UUID
}

// String renders the ID's canonical form.
func (id ID) String() string {
	return id.uuid.String()
}

// newID generates a time-ordered buffer ID.
func newID() (ID, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return ID{}, fmt.Errorf("generate buffer id: %w", err)
	}

	return ID{uuid: u}, nil
}

// Buffer is one open file or scratch buffer: its content store, commit
// log, incremental token cache, and the Mode governing how it tokenizes
// and renders.
type Buffer struct {
	id   ID
	Name string
	Path string // empty for a scratch buffer with no backing file

	contents   *content.Contents
	log        *edit.Log
	tokenCache *tokencache.Cache
	mode       Mode

	savedIndex int
}

// New creates a Buffer over contents with the given name and mode. The
// buffer starts "unchanged" at the log's current position (CommitIndex
// 0 for a freshly loaded buffer).
func New(name string, contents *content.Contents, mode Mode) (*Buffer, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	mode = mode.normalized()

	log := &edit.Log{}

	cache := tokencache.New(mode.Tokenize, mode.CheckPointInterval)
	if err := cache.Update(contents, log, contents.Len()); err != nil {
		return nil, err
	}

	return &Buffer{
		id:         id,
		Name:       name,
		contents:   contents,
		log:        log,
		tokenCache: cache,
		mode:       mode,
	}, nil
}

// ID returns the buffer's stable ID.
func (b *Buffer) ID() ID { return b.id }

// Contents returns the buffer's content store.
func (b *Buffer) Contents() *content.Contents { return b.contents }

// Log returns the buffer's commit log.
func (b *Buffer) Log() *edit.Log { return b.log }

// TokenCache returns the buffer's incremental token cache. Callers that
// need it current through the latest edit must call Retokenize first;
// mirroring the source's "the token cache is updated in the main
// render loop" invariant, re-running it on every read would repeat
// work across every overlay hook in a frame.
func (b *Buffer) TokenCache() *tokencache.Cache {
	return b.tokenCache
}

// Retokenize brings the token cache up to date with the content store's
// current length. Call once per render frame (or before any lookup that
// must reflect the latest edit) rather than before every hook.
func (b *Buffer) Retokenize() error {
	return b.tokenCache.Update(b.contents, b.log, b.contents.Len())
}

// Mode returns the buffer's mode configuration.
func (b *Buffer) Mode() Mode { return b.mode }

// Unchanged reports whether the buffer's commit history is back at its
// last-saved point. Implements overlay.BufferView.
func (b *Buffer) Unchanged() bool {
	return b.log.IsUnchanged(b.savedIndex)
}

// MarkSaved records the current commit index as the save point, so a
// subsequent Unchanged() reports true until the next edit.
func (b *Buffer) MarkSaved() {
	b.savedIndex = b.log.CommitIndex
}

var _ overlay.BufferView = (*Buffer)(nil)
