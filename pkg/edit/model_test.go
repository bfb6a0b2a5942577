package edit_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/edit/model"
	"github.com/calvinalkan/mag/pkg/ssostr"
)

// TestModelInvariantFullUndoRestoresInitialState checks invariant 1: after
// committing a random sequence of transactions and then undoing back to
// commit_index == 0, the buffer equals its initial value byte-for-byte.
func TestModelInvariantFullUndoRestoresInitialState(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	c := content.NewWithBucketCapacity(8)
	log := &edit.Log{}
	m := model.New(nil)

	commits := 0

	for range 100 {
		pos := rng.Intn(c.Len() + 1)
		s := string(byte('a' + rng.Intn(26)))

		before := c.Len()

		tx := edit.NewTransaction()
		tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(s)), Position: pos})
		_, err := tx.Commit(c, log, "")
		require.NoError(t, err)
		require.Equal(t, before+1, c.Len())

		got, err := c.Slice(0, c.Len())
		require.NoError(t, err)
		m.Commit([]byte(got.AsString()))
		commits++
	}

	for range commits {
		ok, err := log.Undo(c)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, m.Undo())

		got, err := c.Slice(0, c.Len())
		require.NoError(t, err)
		require.Equal(t, string(m.Current()), got.AsString())
	}

	assert.Equal(t, 0, log.CommitIndex)

	got, err := c.Slice(0, c.Len())
	require.NoError(t, err)
	assert.Empty(t, got.AsString())
}

// TestModelInvariantRedoAfterUndo checks invariant 2.
func TestModelInvariantRedoAfterUndo(t *testing.T) {
	c := content.NewFromBytes([]byte("seed"), 8)
	log := &edit.Log{}

	for i, s := range []string{"A", "B", "C"} {
		tx := edit.NewTransaction()
		tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(s)), Position: i})
		_, err := tx.Commit(c, log, "")
		require.NoError(t, err)
	}

	full, err := c.Slice(0, c.Len())
	require.NoError(t, err)

	for range 3 {
		ok, err := log.Undo(c)
		require.NoError(t, err)
		require.True(t, ok)
	}

	for range 3 {
		ok, err := log.Redo(c)
		require.NoError(t, err)
		require.True(t, ok)
	}

	got, err := c.Slice(0, c.Len())
	require.NoError(t, err)
	assert.Equal(t, full.AsString(), got.AsString())
}
