package heapstack

import (
	"container/heap"
	"fmt"
	"slices"
	"strings"
)

// Entry is an item together with its ranking key and, while it sits in the
// heap, its array index.
type Entry struct {
	Item  Item
	Rank  Rank
	Index int // position in the heap array (-1 if not in the heap)
}

// entries implements heap.Interface as a max-heap under Compare.
type entries []*Entry

func (h entries) Len() int { return len(h) }

func (h entries) Less(i, j int) bool {
	// Higher rank comes first
	return Compare(*h[i], *h[j]) > 0
}

func (h entries) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *entries) Push(x interface{}) {
	e := x.(*Entry)
	e.Index = len(*h)
	*h = append(*h, e)
}

func (h *entries) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil // avoid memory leak
	e.Index = -1
	*h = old[0 : n-1]
	return e
}

// Heap is an array-backed max-heap of items. It is not safe for concurrent use;
// Session serializes access to it.
type Heap struct {
	classifier Classifier
	arr        entries
	// id -> entry
	ids map[string]*Entry
}

// NewHeap builds a heap over items in O(n). Items are first put into id order
// so the resulting array does not depend on the order of the input slice.
func NewHeap(items []Item, c Classifier) (*Heap, error) {
	if c == nil {
		c = DefaultClassifier()
	}
	h := &Heap{
		classifier: c,
		arr:        make(entries, 0, len(items)),
		ids:        make(map[string]*Entry, len(items)),
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, exists := h.ids[it.ID]; exists {
			return nil, fmt.Errorf("%w: id %s", ErrDuplicateItem, it.ID)
		}
		e := &Entry{Item: it, Rank: RankOf(it, c)}
		h.ids[it.ID] = e
		h.arr = append(h.arr, e)
	}
	slices.SortFunc(h.arr, func(a, b *Entry) int { return strings.Compare(a.Item.ID, b.Item.ID) })
	for i, e := range h.arr {
		e.Index = i
	}
	heap.Init(&h.arr)
	return h, nil
}

// Len returns the number of items in the heap.
func (h *Heap) Len() int { return len(h.arr) }

// Contains reports whether an item with the given id is in the heap.
func (h *Heap) Contains(id string) bool {
	_, ok := h.ids[id]
	return ok
}

// Peek returns the highest-priority item without removing it.
func (h *Heap) Peek() (Item, bool) {
	if len(h.arr) == 0 {
		return Item{}, false
	}
	return h.arr[0].Item, true
}

// PopOne removes and returns the highest-priority item.
func (h *Heap) PopOne() (Item, error) {
	if len(h.arr) == 0 {
		return Item{}, ErrEmptyHeap
	}
	e := heap.Pop(&h.arr).(*Entry)
	delete(h.ids, e.Item.ID)
	return e.Item, nil
}

// PopMany pops up to k items, highest priority first. It stops early when the
// heap runs out.
func (h *Heap) PopMany(k int) []Item {
	if k > len(h.arr) {
		k = len(h.arr)
	}
	if k <= 0 {
		return nil
	}
	out := make([]Item, 0, k)
	for i := 0; i < k; i++ {
		it, err := h.PopOne()
		if err != nil {
			break
		}
		out = append(out, it)
	}
	return out
}

// PopAll drains the heap in priority order.
func (h *Heap) PopAll() []Item {
	return h.PopMany(len(h.arr))
}

// Insert adds an item and sifts it up to its place.
func (h *Heap) Insert(it Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	if h.Contains(it.ID) {
		return fmt.Errorf("%w: id %s already in heap", ErrDuplicateItem, it.ID)
	}
	e := &Entry{Item: it, Rank: RankOf(it, h.classifier)}
	heap.Push(&h.arr, e)
	h.ids[it.ID] = e
	return nil
}

// Entries returns a copy of the heap array in level order.
func (h *Heap) Entries() []Entry {
	out := make([]Entry, len(h.arr))
	for i, e := range h.arr {
		out[i] = *e
	}
	return out
}

// IDs returns the ids of the heap array in level order.
func (h *Heap) IDs() []string {
	out := make([]string, len(h.arr))
	for i, e := range h.arr {
		out[i] = e.Item.ID
	}
	return out
}

// Levels slices the heap array into tree levels: level k holds up to 2^k entries.
func (h *Heap) Levels() [][]Entry {
	return Levels(h.Entries())
}

// Levels slices a level-order array into successive rows of width 1, 2, 4, ...
func Levels(arr []Entry) [][]Entry {
	var out [][]Entry
	for i, w := 0, 1; i < len(arr); i, w = i+w, w*2 {
		end := i + w
		if end > len(arr) {
			end = len(arr)
		}
		out = append(out, arr[i:end])
	}
	return out
}

// verify checks the heap order and index bookkeeping.
func (h *Heap) verify() error {
	if len(h.ids) != len(h.arr) {
		return fmt.Errorf("heap index has %d ids for %d entries", len(h.ids), len(h.arr))
	}
	for i, e := range h.arr {
		if e.Index != i {
			return fmt.Errorf("entry %s records index %d, found at %d", e.Item.ID, e.Index, i)
		}
		if h.ids[e.Item.ID] != e {
			return fmt.Errorf("entry %s missing from id index", e.Item.ID)
		}
		if i > 0 {
			parent := h.arr[(i-1)/2]
			if Compare(*parent, *e) < 0 {
				return fmt.Errorf("heap order violated: %s at %d outranks parent %s", e.Item.ID, i, parent.Item.ID)
			}
		}
	}
	return nil
}
