package main

import (
	"fmt"

	"github.com/Pallavbh23/heapstack"
	"github.com/Pallavbh23/heapstack/internal/tui"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [op...]",
		Short: "Apply a sequence of operations and print the state after each",
		Long: `Builds a heap from the loaded projects, then applies each operation in turn
and prints the heap level by level and the stack top first.

Operations:
  pop       pop one project onto the stack
  pop3      pop three projects
  pop:<n>   pop n projects
  popall    pop everything
  return    move the top of the stack back into the heap

Example:
  projectheap run -i projects.yaml pop3 return popall`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := heapstack.ParseOps(args)
			if err != nil {
				return err
			}
			items, err := a.loadItems(cmd.Context())
			if err != nil {
				return err
			}
			session, err := a.newSession(items)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "== start")
			if err := tui.WriteSnapshot(out, session.Snapshot()); err != nil {
				return err
			}
			for _, op := range ops {
				if err := session.Apply(op); err != nil {
					return fmt.Errorf("%s: %w", op, err)
				}
				fmt.Fprintf(out, "== %s\n", op)
				if err := tui.WriteSnapshot(out, session.Snapshot()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
