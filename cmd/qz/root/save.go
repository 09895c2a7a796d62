package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"quizline/internal/ui"
)

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Force an immediate snapshot save",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, sched, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := sched.ForceSave(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconSave+" saved"))
			return nil
		},
	}
	return cmd
}

func newAutosaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autosave <on|off>",
		Short: "Enable or disable the scheduled auto-save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch args[0] {
			case "on":
				enabled = true
			case "off":
				enabled = false
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}

			ctx := context.Background()
			_, sched, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sched.SetEnabled(enabled)
			// Persist the toggle itself.
			if err := sched.ForceSave(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Autosave", args[0]))
			return nil
		},
	}
	return cmd
}
