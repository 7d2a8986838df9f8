package heapstack

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrInvalidItem is returned for items missing an id or name, or with negative popularity.
	ErrInvalidItem = errors.New("heapstack: invalid item")
	// ErrDuplicateItem is returned when an item id would exist twice across heap and stack.
	ErrDuplicateItem = errors.New("heapstack: duplicate item")
	// ErrEmptyHeap is returned when popping from an empty heap.
	ErrEmptyHeap = errors.New("heapstack: heap is empty")
	// ErrEmptyStack is returned when popping from an empty stack.
	ErrEmptyStack = errors.New("heapstack: stack is empty")
	// ErrConservation is returned in strict mode when heap and stack no longer
	// partition the original item set.
	ErrConservation = errors.New("heapstack: conservation violated")
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClassifier replaces the default keyword classifier.
func WithClassifier(c Classifier) Option {
	return func(s *Session) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithStrict makes the session verify its invariants after every mutation and
// return errors instead of silently skipping duplicate reinsertions.
func WithStrict(strict bool) Option {
	return func(s *Session) { s.strict = strict }
}

// SizeResult holds the sizes of both sides of a session.
type SizeResult struct {
	Heap  int
	Stack int
}

// Snapshot is a read-only projection of a session for rendering.
type Snapshot struct {
	Heap   []Entry   // level order
	Levels [][]Entry // Heap sliced into tree levels
	Stack  []Entry   // top first; Index is -1
}

// Session owns a heap and its undo stack. Items move between the two but are
// never duplicated or lost.
type Session struct {
	mu sync.Mutex

	logger     *zap.Logger
	classifier Classifier
	strict     bool

	heap  *Heap
	stack *Stack

	// ids of the items the session was built from
	initial map[string]struct{}
}

// NewSession builds a heap over items with an empty stack.
func NewSession(items []Item, opts ...Option) (*Session, error) {
	s := &Session{
		logger:     zap.NewNop(),
		classifier: DefaultClassifier(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reset(items); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset rebuilds the heap wholesale from items and clears the stack.
func (s *Session) Reset(items []Item) error {
	h, err := NewHeap(items, s.classifier)
	if err != nil {
		return err
	}
	initial := make(map[string]struct{}, len(items))
	for _, it := range items {
		initial[it.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.heap = h
	s.stack = NewStack()
	s.initial = initial
	s.logger.Debug("session reset", zap.Int("items", len(items)))
	return s.checkLocked()
}

// Pop moves up to n of the highest-priority items onto the stack and returns
// them in pop order. It is a no-op when the heap is empty or n <= 0.
func (s *Session) Pop(n int) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.popLocked(n)
}

// PopAll moves every heap item onto the stack.
func (s *Session) PopAll() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.popLocked(s.heap.Len())
}

func (s *Session) popLocked(n int) ([]Item, error) {
	if n <= 0 || s.heap.Len() == 0 {
		return nil, nil
	}

	popped := s.heap.PopMany(n)
	if err := s.stack.PushBatch(popped); err != nil {
		// PushBatch rejects the whole batch before mutating, so put it back.
		for _, it := range popped {
			if insErr := s.heap.Insert(it); insErr != nil {
				return nil, errors.Join(err, insErr)
			}
		}
		return nil, err
	}

	s.logger.Debug("popped from heap",
		zap.Int("requested", n),
		zap.Int("count", len(popped)),
		zap.Int("heap", s.heap.Len()),
		zap.Int("stack", s.stack.Len()),
	)
	return popped, s.checkLocked()
}

// ReturnTop moves the top of the stack back into the heap. It reports false
// when nothing was moved: the stack was empty, or the item was already in the
// heap, in which case it stays on the stack.
func (s *Session) ReturnTop() (Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	top, err := s.stack.PopTop()
	if errors.Is(err, ErrEmptyStack) {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, err
	}

	if err := s.heap.Insert(top); err != nil {
		// Keep the item rather than lose it.
		if pushErr := s.stack.Push(top); pushErr != nil {
			return Item{}, false, errors.Join(err, pushErr)
		}
		s.logger.Warn("skipped reinsertion", zap.String("id", top.ID), zap.Error(err))
		if s.strict {
			return top, false, err
		}
		return top, false, nil
	}

	s.logger.Debug("returned to heap",
		zap.String("id", top.ID),
		zap.Int("heap", s.heap.Len()),
		zap.Int("stack", s.stack.Len()),
	)
	return top, true, s.checkLocked()
}

// Apply runs a single parsed operation.
func (s *Session) Apply(op Op) error {
	switch op.Kind {
	case OpPop:
		_, err := s.Pop(op.N)
		return err
	case OpPopAll:
		_, err := s.PopAll()
		return err
	case OpReturn:
		_, _, err := s.ReturnTop()
		return err
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidOp, op.Kind)
	}
}

// Size returns the current heap and stack sizes.
func (s *Session) Size() SizeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SizeResult{Heap: s.heap.Len(), Stack: s.stack.Len()}
}

// Classify returns the ranking key the session uses for it.
func (s *Session) Classify(it Item) Rank {
	return RankOf(it, s.classifier)
}

// Snapshot returns the current heap in level order and the stack top first.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	heapEntries := s.heap.Entries()
	stackItems := s.stack.Items()
	stackEntries := make([]Entry, len(stackItems))
	for i, it := range stackItems {
		stackEntries[i] = Entry{Item: it, Rank: RankOf(it, s.classifier), Index: -1}
	}
	return Snapshot{
		Heap:   heapEntries,
		Levels: Levels(heapEntries),
		Stack:  stackEntries,
	}
}

// Verify checks heap order and that heap and stack partition the original items.
func (s *Session) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.verifyLocked()
}

// checkLocked runs verifyLocked in strict mode only.
// Must be called with mu held.
func (s *Session) checkLocked() error {
	if !s.strict {
		return nil
	}
	return s.verifyLocked()
}

// verifyLocked must be called with mu held.
func (s *Session) verifyLocked() error {
	if err := s.heap.verify(); err != nil {
		return fmt.Errorf("%w: %v", ErrConservation, err)
	}
	if got, want := s.heap.Len()+s.stack.Len(), len(s.initial); got != want {
		return fmt.Errorf("%w: heap %d + stack %d != %d items", ErrConservation, s.heap.Len(), s.stack.Len(), want)
	}
	if len(s.stack.ids) != s.stack.Len() {
		return fmt.Errorf("%w: stack holds a duplicate", ErrConservation)
	}
	for id := range s.initial {
		inHeap, inStack := s.heap.Contains(id), s.stack.Contains(id)
		if inHeap == inStack {
			return fmt.Errorf("%w: id %s in heap=%v stack=%v", ErrConservation, id, inHeap, inStack)
		}
	}
	return nil
}
