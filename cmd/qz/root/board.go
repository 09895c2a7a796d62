package root

import (
	"context"

	"github.com/spf13/cobra"

	"quizline/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive progression board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, sched, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(eng, sched, cmd.OutOrStdout())
		},
	}
	return cmd
}
