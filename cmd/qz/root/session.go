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

func newSessionCmd() *cobra.Command {
	var score int
	var seconds int
	cmd := &cobra.Command{
		Use:   "session <accuracy>",
		Short: "Record a finished game session",
		Long:  "Applies the session to daily tasks and updates the skill rating. Accuracy is 0..1.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accuracy, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid accuracy: %q", args[0])
			}

			ctx := context.Background()
			eng, sched, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			now := time.Now()
			events := []engine.PlayEvent{
				{Kind: engine.KindGamesPlayed, Magnitude: 1, Timestamp: now},
				{Kind: engine.KindAccuracy, Magnitude: int(accuracy * 100), Timestamp: now},
			}
			if score > 0 {
				events = append(events, engine.PlayEvent{Kind: engine.KindScore, Magnitude: score, Timestamp: now})
			}
			if seconds > 0 {
				events = append(events, engine.PlayEvent{Kind: engine.KindTime, Magnitude: seconds, Timestamp: now})
			}

			out := cmd.OutOrStdout()
			for _, ev := range events {
				res, err := eng.ApplyEvent(ev)
				if err != nil {
					return err
				}
				for _, t := range res.NewlyCompleted {
					fmt.Fprintf(out, "%s %s\n", ui.IconDone, ui.Good.Render(t.Title))
				}
				if res.SetCompleted {
					fmt.Fprintf(out, "%s %s\n", ui.IconTrophy, ui.BadgeComplete)
				}
			}

			rating := eng.RecordSession(accuracy)
			fmt.Fprintln(out, ui.LabelValue("Rating", fmt.Sprintf("%.0f (%s)", rating.Value, eng.RatingCategory())))

			return sched.ForceSave(ctx)
		},
	}
	cmd.Flags().IntVar(&score, "score", 0, "Session score")
	cmd.Flags().IntVar(&seconds, "time", 0, "Session play time in seconds")
	return cmd
}
