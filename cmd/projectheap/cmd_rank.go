package main

import (
	"github.com/Pallavbh23/heapstack"
	"github.com/Pallavbh23/heapstack/internal/tui"
	"github.com/spf13/cobra"
)

func newRankCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print projects in the order the heap surfaces them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.loadItems(cmd.Context())
			if err != nil {
				return err
			}
			session, err := a.newSession(items)
			if err != nil {
				return err
			}

			var popped []heapstack.Item
			if limit > 0 {
				popped, err = session.Pop(limit)
			} else {
				popped, err = session.PopAll()
			}
			if err != nil {
				return err
			}

			entries := make([]heapstack.Entry, len(popped))
			for i, it := range popped {
				entries[i] = heapstack.Entry{Item: it, Rank: session.Classify(it), Index: -1}
			}
			return tui.WriteRanking(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "top", "n", 0, "only print the first n projects")
	return cmd
}
