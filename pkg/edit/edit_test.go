package edit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/ssostr"
)

func text(c *content.Contents) string {
	s, err := c.Slice(0, c.Len())
	if err != nil {
		panic(err)
	}

	return s.AsString()
}

// TestE1InsertRemoveUndo is scenario E1 from spec.md §8.
func TestE1InsertRemoveUndo(t *testing.T) {
	c := content.NewFromBytes([]byte("abc"), 4096)
	log := &edit.Log{}

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte("de")), Position: 3})

	_, err := tx.Commit(c, log, "")
	require.NoError(t, err)
	assert.Equal(t, "abcde", text(c))

	ok, err := log.Undo(c)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", text(c))
}

// TestE2MergeByTag is scenario E2 from spec.md §8.
func TestE2MergeByTag(t *testing.T) {
	c := content.New()
	log := &edit.Log{}

	inserts := []struct {
		pos int
		s   string
	}{{0, "h"}, {1, "i"}, {2, "!"}}

	for _, ins := range inserts {
		tx := edit.NewTransaction()
		tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(ins.s)), Position: ins.pos})
		_, err := tx.Commit(c, log, "self-insert")
		require.NoError(t, err)
	}

	assert.Equal(t, "hi!", text(c))
	assert.Len(t, log.Commits, 1)

	ok, err := log.Undo(c)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", text(c))
}

// TestE3MultiCursorInsertWithOffsets is scenario E3 from spec.md §8.
func TestE3MultiCursorInsertWithOffsets(t *testing.T) {
	c := content.NewFromBytes([]byte("abc\ndef\nghi"), 4096)
	log := &edit.Log{}

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(">")), Position: 0})
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(">")), Position: 5})
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(">")), Position: 10})

	_, err := tx.Commit(c, log, "")
	require.NoError(t, err)
	assert.Equal(t, ">abc\n>def\n>ghi", text(c))
}

func TestRedoAfterUndoRestoresState(t *testing.T) {
	c := content.NewFromBytes([]byte("abc"), 4096)
	log := &edit.Log{}

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte("X")), Position: 1})
	_, err := tx.Commit(c, log, "")
	require.NoError(t, err)

	before := text(c)

	ok, err := log.Undo(c)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = log.Redo(c)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, before, text(c))
}

func TestUndoOnEmptyLogReturnsFalse(t *testing.T) {
	c := content.New()
	log := &edit.Log{}

	ok, err := log.Undo(c)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedoWithoutUndoReturnsFalse(t *testing.T) {
	c := content.New()
	log := &edit.Log{}

	ok, err := log.Redo(c)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommitAfterUndoTruncatesRedoTail(t *testing.T) {
	c := content.New()
	log := &edit.Log{}

	commitInsert := func(s string, pos int) {
		tx := edit.NewTransaction()
		tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(s)), Position: pos})
		_, err := tx.Commit(c, log, "")
		require.NoError(t, err)
	}

	commitInsert("a", 0)
	commitInsert("b", 1)

	ok, err := log.Undo(c)
	require.NoError(t, err)
	require.True(t, ok)

	commitInsert("c", 1)
	assert.Equal(t, "ac", text(c))
	assert.Len(t, log.Commits, 2)

	ok, err = log.Redo(c)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCursorsFromCommit(t *testing.T) {
	c := content.NewFromBytes([]byte("abc\ndef"), 4096)
	log := &edit.Log{}

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(">")), Position: 0})
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(">")), Position: 5})

	commit, err := tx.Commit(c, log, "")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 6}, edit.CursorsFromCommit(commit))
}

func TestLastChangeCommitFollowsUndoRedo(t *testing.T) {
	c := content.New()
	log := &edit.Log{}

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte("x")), Position: 0})
	_, err := tx.Commit(c, log, "")
	require.NoError(t, err)

	_, change, ok := log.LastChangeCommit()
	require.True(t, ok)
	assert.True(t, change.Forward)
	assert.False(t, change.IsRedo)

	_, err = log.Undo(c)
	require.NoError(t, err)

	_, change, ok = log.LastChangeCommit()
	require.True(t, ok)
	assert.False(t, change.Forward)

	_, err = log.Redo(c)
	require.NoError(t, err)

	_, change, ok = log.LastChangeCommit()
	require.True(t, ok)
	assert.True(t, change.Forward)
	assert.True(t, change.IsRedo)
}
