package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/buffer"
	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/cursor"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/ssostr"
	"github.com/calvinalkan/mag/pkg/tokenizer/mdtok"
)

func newTestBuffer(t *testing.T, text string) *buffer.Buffer {
	t.Helper()

	c := content.NewFromBytes([]byte(text), 64)

	buf, err := buffer.New("scratch", c, buffer.Mode{Tokenize: mdtok.NextToken})
	require.NoError(t, err)

	return buf
}

func TestNewAssignsStableID(t *testing.T) {
	buf := newTestBuffer(t, "hello")
	require.NotEmpty(t, buf.ID().String())
}

func TestUnchangedTracksSavePoint(t *testing.T) {
	buf := newTestBuffer(t, "hello")
	require.True(t, buf.Unchanged())

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte("X")), Position: 0})
	_, err := tx.Commit(buf.Contents(), buf.Log(), "")
	require.NoError(t, err)

	require.False(t, buf.Unchanged())

	buf.MarkSaved()
	require.True(t, buf.Unchanged())
}

func TestTableWeakHandleDegradesAfterClose(t *testing.T) {
	table := buffer.NewTable()
	buf := newTestBuffer(t, "hello")

	handle := table.Open(buf)

	got, ok := handle.Upgrade()
	require.True(t, ok)
	require.Equal(t, buf.ID(), got.ID())

	table.Close(buf.ID())

	_, ok = handle.Upgrade()
	require.False(t, ok)
}

func TestWindowRebaseCursorsFollowsEdits(t *testing.T) {
	table := buffer.NewTable()
	buf := newTestBuffer(t, "hello world")
	handle := table.Open(buf)

	win := buffer.NewWindow(handle)
	win.Cursors().RemoveAll([]cursor.Cursor{{Point: 6, Mark: 6}}) // "world" start

	seen := 0

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte("XX")), Position: 0})
	_, err := tx.Commit(buf.Contents(), buf.Log(), "")
	require.NoError(t, err)

	seen = buffer.RebaseCursors(win, buf, seen)

	selected, _ := win.Cursors().Selected()
	require.Equal(t, 8, selected.Point)
	require.Equal(t, 1, seen)
}

func TestRetokenizeKeepsTokenCacheCurrent(t *testing.T) {
	buf := newTestBuffer(t, "# heading\n")

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte("more text\n")), Position: buf.Contents().Len()})
	_, err := tx.Commit(buf.Contents(), buf.Log(), "")
	require.NoError(t, err)

	require.NoError(t, buf.Retokenize())
	require.Equal(t, buf.Contents().Len(), buf.TokenCache().RanTo())
}
