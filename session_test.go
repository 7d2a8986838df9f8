package heapstack

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newStrictSession(t *testing.T, items []Item) *Session {
	t.Helper()
	s, err := NewSession(items, WithStrict(true), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return s
}

func TestSession_PopAllScenario(t *testing.T) {
	s := newStrictSession(t, scenarioItems())

	popped, err := s.PopAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(popped))

	snap := s.Snapshot()
	assert.Empty(t, snap.Heap)
	// last popped ends up on top
	require.Len(t, snap.Stack, 3)
	assert.Equal(t, "a", snap.Stack[0].Item.ID)
	assert.Equal(t, "c", snap.Stack[2].Item.ID)
	assert.True(t, snap.Stack[1].Rank.Flagged)
	assert.Equal(t, -1, snap.Stack[1].Index)
}

func TestSession_PopThreeFromTwo(t *testing.T) {
	s := newStrictSession(t, []Item{
		{ID: "x", Name: "x", Popularity: 1},
		{ID: "y", Name: "y", Popularity: 2},
	})

	popped, err := s.Pop(3)
	require.NoError(t, err)
	assert.Len(t, popped, 2)
	assert.Equal(t, SizeResult{Heap: 0, Stack: 2}, s.Size())
}

func TestSession_NoOpsOnEmpty(t *testing.T) {
	s := newStrictSession(t, nil)

	popped, err := s.Pop(1)
	require.NoError(t, err)
	assert.Empty(t, popped)

	popped, err = s.PopAll()
	require.NoError(t, err)
	assert.Empty(t, popped)

	_, moved, err := s.ReturnTop()
	require.NoError(t, err)
	assert.False(t, moved)

	popped, err = s.Pop(0)
	require.NoError(t, err)
	assert.Empty(t, popped)
}

func TestSession_PopReturnRoundTrip(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(5)), 20)
	s := newStrictSession(t, items)
	before := s.Snapshot()

	popped, err := s.Pop(1)
	require.NoError(t, err)
	require.Len(t, popped, 1)

	returned, moved, err := s.ReturnTop()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, popped[0].ID, returned.ID)

	after := s.Snapshot()
	assert.ElementsMatch(t, entryIDs(before.Heap), entryIDs(after.Heap))
	assert.Equal(t, before.Heap[0].Item.ID, after.Heap[0].Item.ID)
	assert.Empty(t, after.Stack)
}

func TestSession_Conservation(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	items := randomItems(r, 30)
	s := newStrictSession(t, items)

	want := ids(items)
	sort.Strings(want)

	ops := []Op{{Kind: OpPop, N: 1}, {Kind: OpPop, N: 3}, {Kind: OpPopAll}, {Kind: OpReturn}}
	for i := 0; i < 500; i++ {
		op := ops[r.Intn(len(ops))]
		require.NoError(t, s.Apply(op), "step %d: %s", i, op)

		snap := s.Snapshot()
		got := append(entryIDs(snap.Heap), entryIDs(snap.Stack)...)
		sort.Strings(got)
		require.Equal(t, want, got, "step %d: %s", i, op)
	}
}

func TestSession_Deterministic(t *testing.T) {
	items := randomItems(rand.New(rand.NewSource(9)), 40)
	ops, err := ParseOps([]string{"pop3", "return", "pop", "pop:5", "return", "return", "pop3"})
	require.NoError(t, err)

	run := func(in []Item) Snapshot {
		s := newStrictSession(t, in)
		for _, op := range ops {
			require.NoError(t, s.Apply(op))
		}
		return s.Snapshot()
	}

	reversed := make([]Item, len(items))
	for i, it := range items {
		reversed[len(items)-1-i] = it
	}

	first, second := run(items), run(reversed)
	assert.Equal(t, entryIDs(first.Heap), entryIDs(second.Heap))
	assert.Equal(t, entryIDs(first.Stack), entryIDs(second.Stack))
}

func TestSession_DuplicateReinsertion(t *testing.T) {
	t.Run("lenient keeps item on stack", func(t *testing.T) {
		s, err := NewSession(scenarioItems(), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)

		_, err = s.Pop(1)
		require.NoError(t, err)
		// Force the broken state the guard exists for.
		require.NoError(t, s.heap.Insert(Item{ID: "c", Name: "Mega", Popularity: 2000}))

		top, moved, err := s.ReturnTop()
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, "c", top.ID)
		assert.Equal(t, SizeResult{Heap: 3, Stack: 1}, s.Size())
	})

	t.Run("strict returns error", func(t *testing.T) {
		s := newStrictSession(t, scenarioItems())

		_, err := s.Pop(1)
		require.NoError(t, err)
		require.NoError(t, s.heap.Insert(Item{ID: "c", Name: "Mega", Popularity: 2000}))

		_, moved, err := s.ReturnTop()
		assert.False(t, moved)
		assert.ErrorIs(t, err, ErrDuplicateItem)
		assert.ErrorIs(t, s.Verify(), ErrConservation)
	})
}

func TestSession_Reset(t *testing.T) {
	s := newStrictSession(t, scenarioItems())
	_, err := s.Pop(2)
	require.NoError(t, err)

	require.NoError(t, s.Reset([]Item{{ID: "n", Name: "new", Popularity: 1}}))
	assert.Equal(t, SizeResult{Heap: 1, Stack: 0}, s.Size())

	err = s.Reset([]Item{{ID: "dup", Name: "a"}, {ID: "dup", Name: "b"}})
	assert.ErrorIs(t, err, ErrDuplicateItem)
	assert.Equal(t, SizeResult{Heap: 1, Stack: 0}, s.Size(), "failed reset keeps previous state")
}

func TestSession_CustomClassifier(t *testing.T) {
	items := []Item{
		{ID: "1", Name: "rust-cli", Popularity: 3},
		{ID: "2", Name: "ai-thing", Popularity: 10},
	}
	s, err := NewSession(items, WithClassifier(NewKeywordClassifier(nil, []string{"rust"})))
	require.NoError(t, err)

	popped, err := s.PopAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(popped))
	assert.Equal(t, TierFlagged, s.Classify(items[0]).Tier)
}

func entryIDs(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Item.ID
	}
	return out
}
