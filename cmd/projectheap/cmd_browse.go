package main

import (
	"fmt"

	"github.com/Pallavbh23/heapstack/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive heap/stack browser",
		Long: `Opens a terminal UI with the heap drawn level by level next to the stack.

Keys:
  p  pop the top project onto the stack
  3  pop three projects
  a  pop everything
  r  return the top of the stack to the heap
  q  quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.newSession(nil)
			if err != nil {
				return err
			}
			model := tui.New(session, a.loadItems, a.logger)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browser failed: %w", err)
			}
			return nil
		},
	}
}
