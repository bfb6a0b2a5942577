package tokencache_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/ssostr"
	"github.com/calvinalkan/mag/pkg/token"
	"github.com/calvinalkan/mag/pkg/tokencache"
	"github.com/calvinalkan/mag/pkg/tokenizer/mdtok"
)

func tokenizeAllDirect(t *testing.T, c *content.Contents) []token.Token {
	t.Helper()

	it := c.Start()

	var state uint64

	var toks []token.Token

	for i := 0; i < 100000; i++ {
		tok, ok, err := mdtok.NextToken(&it, &state)
		require.NoError(t, err)

		if !ok {
			return toks
		}

		toks = append(toks, tok)
	}

	t.Fatal("tokenizer did not terminate")

	return nil
}

// TestCheckPointReplayMatchesFromStart is spec.md's Testable Property 6 /
// E4: replaying from a check-point reproduces the stream a full run from
// position 0 would produce.
func TestCheckPointReplayMatchesFromStart(t *testing.T) {
	text := strings.Repeat("# heading\nsome *text* and `code` here\n\n", 200)
	c := content.NewFromBytes([]byte(text), 512)

	want := tokenizeAllDirect(t, c)

	cache := tokencache.New(mdtok.NextToken, 50)
	log := &edit.Log{}

	require.NoError(t, cache.Update(c, log, c.Len()))

	var got []token.Token

	cp := cache.FindCheckPoint(0)
	require.Equal(t, 0, cp.Position)

	for _, target := range []int{0, c.Len() / 3, (2 * c.Len()) / 3} {
		cp := cache.FindCheckPoint(target)
		require.LessOrEqual(t, cp.Position, target)
	}

	// Replay the whole stream from the zero check-point and compare.
	it, err := c.IteratorAt(0)
	require.NoError(t, err)

	var state uint64
	for {
		tok, ok, err := mdtok.NextToken(&it, &state)
		require.NoError(t, err)

		if !ok {
			break
		}

		got = append(got, tok)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("check-point replay diverged from a from-scratch run (-want +got):\n%s", diff)
	}
}

// TestCheckPointReplayAfterEditMatchesFromStart exercises runFrom's actual
// incremental path: edit content past an already-taken check-point, call
// Update, then resume tokenizing from a non-zero check-point's saved
// state and diff the tail against a from-scratch run over the final
// content. This is spec.md's Testable Property 6 / E4 ("tokenizer
// additivity") pinned against the cache's real invalidation/replay code,
// not just a check-point taken at position 0.
func TestCheckPointReplayAfterEditMatchesFromStart(t *testing.T) {
	text := strings.Repeat("# heading\nsome *text* and `code` here\n\n", 200)
	c := content.NewFromBytes([]byte(text), 512)

	cache := tokencache.New(mdtok.NextToken, 50)
	log := &edit.Log{}

	require.NoError(t, cache.Update(c, log, c.Len()))

	checkpoints := cache.CheckPoints()
	require.NotEmpty(t, checkpoints)

	// Edit well past the first check-point so its saved state survives
	// invalidation, then extend content past the cache's prior RanTo.
	editPos := checkpoints[0].Position + 1

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte("XYZ ")), Position: editPos})
	_, err := tx.Commit(c, log, "")
	require.NoError(t, err)

	require.NoError(t, cache.Update(c, log, c.Len()))

	want := tokenizeAllDirect(t, c)

	// Resume from the nearest surviving check-point at or before the
	// edit position and collect the tail of the token stream.
	cp := cache.FindCheckPoint(editPos)

	it, err := c.IteratorAt(cp.Position)
	require.NoError(t, err)

	state := cp.State

	var tail []token.Token
	for {
		tok, ok, err := mdtok.NextToken(&it, &state)
		require.NoError(t, err)

		if !ok {
			break
		}

		tail = append(tail, tok)
	}

	// The from-scratch stream's suffix starting at the same position
	// must match the resumed tail exactly.
	cut := 0
	for cut < len(want) && want[cut].Start < cp.Position {
		cut++
	}

	if diff := cmp.Diff(want[cut:], tail); diff != "" {
		t.Errorf("resuming from check-point %+v diverged from a from-scratch run (-want +got):\n%s", cp, diff)
	}
}

func TestUpdateInvalidatesCheckPointsPastEdit(t *testing.T) {
	text := strings.Repeat("plain line of text here\n", 100)
	c := content.NewFromBytes([]byte(text), 64)

	cache := tokencache.New(mdtok.NextToken, 40)
	log := &edit.Log{}

	require.NoError(t, cache.Update(c, log, c.Len()))
	require.Equal(t, c.Len(), cache.RanTo())

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte("X")), Position: 5})

	_, err := tx.Commit(c, log, "")
	require.NoError(t, err)

	// Reconcile without asking for more coverage: every check-point at or
	// past the edit position is dropped and RanTo falls back to it.
	require.NoError(t, cache.Update(c, log, 0))
	require.Equal(t, 5, cache.RanTo())

	for _, cp := range cache.CheckPoints() {
		require.Less(t, cp.Position, 5)
	}

	require.NoError(t, cache.Update(c, log, c.Len()))
	require.Equal(t, c.Len(), cache.RanTo())
}
