package heapstack

import (
	"fmt"
)

// Stack is a LIFO of items removed from the heap. Index 0 is the top.
type Stack struct {
	items []Item
	ids   map[string]struct{}
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{ids: make(map[string]struct{})}
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int { return len(s.items) }

// Contains reports whether an item with the given id is on the stack.
func (s *Stack) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// PushBatch pushes items given in pop order. Each item is pushed in turn, so
// the last item of the batch ends up on top, exactly as if the items had been
// popped and pushed one at a time.
func (s *Stack) PushBatch(batch []Item) error {
	// pre-flight checks before mutating state
	seen := make(map[string]struct{}, len(batch))
	for _, it := range batch {
		if _, dup := seen[it.ID]; dup || s.Contains(it.ID) {
			return fmt.Errorf("%w: id %s already on stack", ErrDuplicateItem, it.ID)
		}
		seen[it.ID] = struct{}{}
	}

	next := make([]Item, 0, len(batch)+len(s.items))
	for i := len(batch) - 1; i >= 0; i-- {
		next = append(next, batch[i])
		s.ids[batch[i].ID] = struct{}{}
	}
	s.items = append(next, s.items...)
	return nil
}

// Push places a single item on top.
func (s *Stack) Push(it Item) error {
	return s.PushBatch([]Item{it})
}

// PopTop removes and returns the top item.
func (s *Stack) PopTop() (Item, error) {
	if len(s.items) == 0 {
		return Item{}, ErrEmptyStack
	}
	top := s.items[0]
	s.items[0] = Item{}
	s.items = s.items[1:]
	delete(s.ids, top.ID)
	return top, nil
}

// Peek returns the top item without removing it.
func (s *Stack) Peek() (Item, bool) {
	if len(s.items) == 0 {
		return Item{}, false
	}
	return s.items[0], true
}

// Items returns a copy of the stack, top first.
func (s *Stack) Items() []Item {
	return append([]Item(nil), s.items...)
}
