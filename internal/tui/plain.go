package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Pallavbh23/heapstack"
)

// WriteSnapshot prints snap as plain text: one line per heap level, then the
// stack top first.
func WriteSnapshot(w io.Writer, snap heapstack.Snapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "heap (%d):\n", len(snap.Heap))
	if len(snap.Heap) == 0 {
		b.WriteString("  (empty)\n")
	}
	for depth, level := range snap.Levels {
		names := make([]string, len(level))
		for i, e := range level {
			names[i] = fmt.Sprintf("#%d %s [%s]", e.Index, e.Item.Name, Badge(e))
		}
		fmt.Fprintf(&b, "  L%d: %s\n", depth, strings.Join(names, " | "))
	}

	fmt.Fprintf(&b, "stack (%d):\n", len(snap.Stack))
	if len(snap.Stack) == 0 {
		b.WriteString("  (empty)\n")
	}
	for i, e := range snap.Stack {
		marker := " "
		if i == 0 {
			marker = ">"
		}
		fmt.Fprintf(&b, "  %s %s [%s]\n", marker, e.Item.Name, Badge(e))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteRanking prints items in the order given with their tier.
func WriteRanking(w io.Writer, entries []heapstack.Entry) error {
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%3d. %-30s %-8s %s  %s\n", i+1, e.Item.Name, e.Rank.Tier, Badge(e), e.Item.ID)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
