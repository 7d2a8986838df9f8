package heapstack

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioItems() []Item {
	return []Item{
		{ID: "a", Name: "Zeta", Popularity: 5},
		{ID: "b", Name: "Apex AI", Popularity: 5},
		{ID: "c", Name: "Mega", Popularity: 2000},
	}
}

func randomItems(r *rand.Rand, n int) []Item {
	names := []string{"alpha", "beta", "gamma-ai", "delta", "chatbot", "omega", "brain", "ml-kit"}
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:         fmt.Sprintf("https://example.com/repo/%03d", i),
			Name:       names[r.Intn(len(names))],
			Popularity: r.Intn(1200),
		}
	}
	return items
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestHeap_PopAllScenario(t *testing.T) {
	h, err := NewHeap(scenarioItems(), nil)
	require.NoError(t, err)

	popped := h.PopAll()
	assert.Equal(t, []string{"c", "b", "a"}, ids(popped))
	assert.Equal(t, 0, h.Len())
}

func TestHeap_BuildIsValid(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n < 40; n++ {
		h, err := NewHeap(randomItems(r, n), nil)
		require.NoError(t, err)
		require.NoError(t, h.verify(), "n=%d", n)
	}
}

func TestHeap_BuildIgnoresInputOrder(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	items := randomItems(r, 25)

	h1, err := NewHeap(items, nil)
	require.NoError(t, err)

	shuffled := append([]Item(nil), items...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	h2, err := NewHeap(shuffled, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(h1.IDs(), h2.IDs()); diff != "" {
		t.Errorf("level order differs (-first +second):\n%s", diff)
	}
}

func TestHeap_PopOrderIsSorted(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	h, err := NewHeap(randomItems(r, 60), nil)
	require.NoError(t, err)

	c := DefaultClassifier()
	var prev *Entry
	for h.Len() > 0 {
		it, err := h.PopOne()
		require.NoError(t, err)
		require.NoError(t, h.verify())
		cur := Entry{Item: it, Rank: RankOf(it, c)}
		if prev != nil {
			assert.Positive(t, Compare(*prev, cur), "%s popped before %s", prev.Item.ID, cur.Item.ID)
		}
		prev = &cur
	}
}

func TestHeap_PopOneEmpty(t *testing.T) {
	h, err := NewHeap(nil, nil)
	require.NoError(t, err)

	_, err = h.PopOne()
	assert.ErrorIs(t, err, ErrEmptyHeap)
	assert.Empty(t, h.PopMany(3))
	assert.Empty(t, h.PopAll())
}

func TestHeap_PopManyStopsWhenEmpty(t *testing.T) {
	h, err := NewHeap([]Item{
		{ID: "x", Name: "x", Popularity: 1},
		{ID: "y", Name: "y", Popularity: 2},
	}, nil)
	require.NoError(t, err)

	popped := h.PopMany(3)
	assert.Equal(t, []string{"y", "x"}, ids(popped))
	assert.Equal(t, 0, h.Len())
}

func TestHeap_Insert(t *testing.T) {
	h, err := NewHeap(scenarioItems(), nil)
	require.NoError(t, err)

	require.NoError(t, h.Insert(Item{ID: "d", Name: "deep learning lab", Popularity: 900}))
	require.NoError(t, h.verify())
	assert.True(t, h.Contains("d"))

	err = h.Insert(Item{ID: "d", Name: "again", Popularity: 1})
	assert.ErrorIs(t, err, ErrDuplicateItem)

	err = h.Insert(Item{ID: "e"})
	assert.ErrorIs(t, err, ErrInvalidItem)

	assert.Equal(t, []string{"c", "d", "b", "a"}, ids(h.PopAll()))
}

func TestHeap_RejectsBadInput(t *testing.T) {
	_, err := NewHeap([]Item{{ID: "a", Name: "a"}, {ID: "a", Name: "b"}}, nil)
	assert.ErrorIs(t, err, ErrDuplicateItem)

	_, err = NewHeap([]Item{{ID: "a", Name: "a", Popularity: -1}}, nil)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = NewHeap([]Item{{Name: "nameless"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestLevels(t *testing.T) {
	entries := make([]Entry, 10)
	for i := range entries {
		entries[i].Index = i
	}

	levels := Levels(entries)
	require.Len(t, levels, 4)
	assert.Len(t, levels[0], 1)
	assert.Len(t, levels[1], 2)
	assert.Len(t, levels[2], 4)
	assert.Len(t, levels[3], 3)
	assert.Equal(t, 7, levels[3][0].Index)

	assert.Empty(t, Levels(nil))
}
