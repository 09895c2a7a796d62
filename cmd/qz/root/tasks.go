package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"quizline/internal/ui"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Show today's daily task set",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			set := eng.TaskSet()
			out := cmd.OutOrStdout()
			if set == nil {
				fmt.Fprintln(out, ui.Muted.Render("no task set yet"))
				return nil
			}

			fmt.Fprintln(out, ui.Heading(ui.IconQuiz, "Daily Tasks — "+set.Day.String()))
			for i := range set.Tasks {
				t := &set.Tasks[i]
				fmt.Fprintln(out, ui.TaskLine(t.Title, t.Progress, t.Target, t.Completed))
			}
			if set.Bonus != nil {
				fmt.Fprintln(out, ui.TaskLine(set.Bonus.Title, set.Bonus.Progress, set.Bonus.Target, set.Bonus.Completed))
			}
			if set.Completed {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.BadgeComplete)
			}
			return nil
		},
	}
	return cmd
}
