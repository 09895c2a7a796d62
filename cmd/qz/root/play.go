package root

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"quizline/internal/engine"
	"quizline/internal/ui"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <kind> <magnitude>",
		Short: "Feed a play event into the progress tracker",
		Long:  "Kinds: score, games-played, accuracy, streak, time, category-match, mode-match, achievement.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := engine.ParseRequirementKind(args[0])
			if err != nil {
				return err
			}
			magnitude, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid magnitude: %q", args[1])
			}

			ctx := context.Background()
			eng, sched, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.ApplyEvent(engine.PlayEvent{Kind: kind, Magnitude: magnitude, Timestamp: time.Now()})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range res.NewlyCompleted {
				fmt.Fprintf(out, "%s %s %s\n", ui.IconDone, ui.Good.Render(t.Title), ui.Muted.Render(fmt.Sprintf("+%d xp, +%d pts", t.XPReward, t.PointsReward)))
			}
			if res.SetCompleted {
				stats := eng.Stats()
				fmt.Fprintf(out, "%s %s %s\n", ui.IconTrophy, ui.BadgeComplete, ui.Gold.Render(fmt.Sprintf("streak %d", stats.CurrentStreak)))
			}
			if res.XPEarned > 0 || res.PointsEarned > 0 {
				fmt.Fprintln(out, ui.LabelValue("Earned", fmt.Sprintf("%d xp, %d pts", res.XPEarned, res.PointsEarned)))
			}

			return sched.ForceSave(ctx)
		},
	}
	return cmd
}
