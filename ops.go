package heapstack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidOp is returned for unknown operation names.
var ErrInvalidOp = errors.New("heapstack: invalid operation")

// OpKind names a user-facing session operation.
type OpKind int

const (
	OpPop OpKind = iota + 1
	OpPopAll
	OpReturn
)

// Op is a user-facing operation: pop N, pop all, or return the stack top to the heap.
type Op struct {
	Kind OpKind
	N    int // only for OpPop
}

func (o Op) String() string {
	switch o.Kind {
	case OpPop:
		if o.N == 1 {
			return "pop"
		}
		return "pop:" + strconv.Itoa(o.N)
	case OpPopAll:
		return "popall"
	case OpReturn:
		return "return"
	}
	return fmt.Sprintf("op(%d)", o.Kind)
}

// ParseOp parses "pop", "pop3", "pop:<n>", "popall" or "return".
func ParseOp(s string) (Op, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "pop", "pop1":
		return Op{Kind: OpPop, N: 1}, nil
	case "pop3":
		return Op{Kind: OpPop, N: 3}, nil
	case "popall", "pop-all", "all":
		return Op{Kind: OpPopAll}, nil
	case "return", "ret":
		return Op{Kind: OpReturn}, nil
	}
	if rest, ok := strings.CutPrefix(name, "pop:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return Op{}, fmt.Errorf("%w: %q needs a positive count", ErrInvalidOp, s)
		}
		return Op{Kind: OpPop, N: n}, nil
	}
	return Op{}, fmt.Errorf("%w: %q", ErrInvalidOp, s)
}

// ParseOps parses a list of operation names.
func ParseOps(names []string) ([]Op, error) {
	ops := make([]Op, 0, len(names))
	for _, n := range names {
		op, err := ParseOp(n)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
