package completion_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/completion"
)

func TestFindNearestMatchingIdentifierPicksCloser(t *testing.T) {
	// "fooBar" appears far before the cursor (distance 22), "fooQux"
	// shortly after (distance 4); the word under the cursor itself
	// ("foo" at 22) must never win by virtue of distance 0.
	text := "fooBar rest rest rest foo" + " fooQux"
	c := content.NewFromBytes([]byte(text), 4096)

	start := 22 // position of the bare "foo" prefix, under the cursor
	it, ok, err := completion.FindNearestMatchingIdentifier(c, start, 3, nil)
	require.NoError(t, err)
	require.True(t, ok)

	word, err := c.Slice(it.Position(), it.Position()+6)
	require.NoError(t, err)

	require.Equal(t, "fooQux", word.AsString())
}

// TestFindNearestMatchingIdentifierExcludesSelf is spec.md's E5 scenario:
// a cursor sitting inside the word it is completing must never match
// itself, only a genuinely different occurrence.
func TestFindNearestMatchingIdentifierExcludesSelf(t *testing.T) {
	text := "foo foobar foobaz"
	c := content.NewFromBytes([]byte(text), 4096)

	// Cursor at position 1, inside "foo" (which starts at 0); prefix
	// "fo" is shorter than the word under the cursor.
	start := 0
	it, ok, err := completion.FindNearestMatchingIdentifier(c, start, 2, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4, it.Position())

	word, err := c.Slice(it.Position(), it.Position()+6)
	require.NoError(t, err)
	require.Equal(t, "foobar", word.AsString())
}

func TestFindNearestMatchingIdentifierIgnoresOverlapping(t *testing.T) {
	text := "fooBar foo"
	c := content.NewFromBytes([]byte(text), 4096)

	_, ok, err := completion.FindNearestMatchingIdentifier(c, 7, 3, []int{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAllIdentifiersStartingWith(t *testing.T) {
	c := content.NewFromBytes([]byte("foo fooBar fooBaz notfoo fo"), 4096)

	names, err := completion.AllIdentifiersStartingWith(c, "foo")
	require.NoError(t, err)
	require.Equal(t, []string{"fooBar", "fooBaz"}, names)
}

func TestEnginePagingWraps(t *testing.T) {
	e := completion.NewEngine([]string{"fooAlpha", "fooBeta", "fooGamma"}, "foo")
	require.Equal(t, []string{"fooAlpha", "fooBeta", "fooGamma"}, e.Results())

	e.Previous()
	require.Equal(t, 2, e.SelectedIndex())

	e.Next()
	require.Equal(t, 0, e.SelectedIndex())

	e.Last()
	require.Equal(t, 2, e.SelectedIndex())

	e.First()
	require.Equal(t, 0, e.SelectedIndex())
}

func TestEngineCommitReplacesOnlyTail(t *testing.T) {
	text := "x.foo"
	c := content.NewFromBytes([]byte(text), 4096)
	log := &edit.Log{}

	e := completion.NewEngine([]string{"fooBar"}, "foo")

	_, ok, err := e.Commit(c, log, 2, "")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := c.Slice(0, c.Len())
	require.NoError(t, err)
	require.Equal(t, "x.fooBar", got.AsString())
}

func TestEngineCommitNoResultsIsNoop(t *testing.T) {
	e := completion.NewEngine(nil, "foo")

	_, ok := e.Selected()
	require.False(t, ok)

	c := content.NewFromBytes([]byte("x.foo"), 4096)

	_, ok, err := e.Commit(c, &edit.Log{}, 2, "")
	require.NoError(t, err)
	require.False(t, ok)
}
