package search_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/search"
)

func TestLookingAt(t *testing.T) {
	c := content.NewFromBytes([]byte("hello world"), 4)
	it := c.Start()

	ok, err := search.LookingAt(it, []byte("hello"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = search.LookingAt(it, []byte("world"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFindAndRFind(t *testing.T) {
	c := content.NewFromBytes([]byte("foo bar foo baz"), 4)
	it := c.Start()

	ok, err := search.Find(&it, []byte("foo"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, it.Position())

	if err := it.Advance(); err != nil {
		t.Fatal(err)
	}

	ok, err = search.Find(&it, []byte("foo"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 8, it.Position())

	end := c.End()

	ok, err = search.RFind(&end, []byte("foo"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 8, end.Position())
}

func TestFindCasedInsensitiveMatchesLowercaseFind(t *testing.T) {
	c := content.NewFromBytes([]byte("the quick brown fox"), 6)

	it1 := c.Start()
	ok1, err := search.FindCased(&it1, []byte("QUICK"), search.CaseInsensitive)
	require.NoError(t, err)
	require.True(t, ok1)

	it2 := c.Start()
	ok2, err := search.Find(&it2, []byte("quick"))
	require.NoError(t, err)
	require.True(t, ok2)

	require.Equal(t, it2.Position(), it1.Position())
}

func TestSmartCaseResolvesOncePerQuery(t *testing.T) {
	c := content.NewFromBytes([]byte("Find me"), 8)
	it := c.Start()

	// Query has an uppercase byte -> behaves case-sensitively, so a
	// lowercase match at a different position must not be found instead.
	ok, err := search.FindCased(&it, []byte("Find"), search.SmartCase)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, it.Position())
}

func TestMatches(t *testing.T) {
	c := content.NewFromBytes([]byte("abcdef"), 4)
	it, err := c.IteratorAt(2)
	require.NoError(t, err)

	ok, err := search.Matches(it, 5, []byte("cde"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFindThisLineBoundedByEOL(t *testing.T) {
	c := content.NewFromBytes([]byte("foo bar\nfoo baz"), 4)
	it := c.Start()

	ok, err := search.FindThisLine(&it, []byte("baz"), 7)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 7, it.Position())
}
